package database

import (
	"context"

	"github.com/kazudmb/time-record/module/checkin/domain"
)

type RosterRepository interface {
	List(ctx context.Context) ([]domain.Identity, error)
}
