package static

import (
	"context"

	"github.com/kazudmb/time-record/module/checkin/domain"
	"github.com/kazudmb/time-record/module/checkin/internal/repository/database"
)

var _ database.RosterRepository = (*RosterRepo)(nil)

var DefaultRoster = []domain.Identity{
	{ID: "emp-1", DisplayName: "山田 太郎"},
	{ID: "emp-2", DisplayName: "佐藤 花子"},
	{ID: "emp-3", DisplayName: "田中 翔"},
}

type RosterRepo struct {
	identities []domain.Identity
}

// NewRosterRepo serves a fixed roster. A nil slice uses DefaultRoster.
func NewRosterRepo(identities []domain.Identity) *RosterRepo {
	if identities == nil {
		identities = DefaultRoster
	}
	return &RosterRepo{identities: identities}
}

func (r *RosterRepo) List(_ context.Context) ([]domain.Identity, error) {
	return append([]domain.Identity(nil), r.identities...), nil
}
