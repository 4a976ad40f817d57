package postgres

import (
	"context"
	"database/sql"

	"github.com/kazudmb/time-record/module/checkin/domain"
	"github.com/kazudmb/time-record/module/checkin/internal/repository/database"
)

var _ database.RosterRepository = (*RosterRepo)(nil)

// RosterRepo reads the employee directory. Check-ins are never written here.
type RosterRepo struct {
	db *sql.DB
}

func NewRosterRepo(db *sql.DB) *RosterRepo {
	return &RosterRepo{db: db}
}

func (r *RosterRepo) List(ctx context.Context) ([]domain.Identity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, display_name FROM employees WHERE active ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Identity
	for rows.Next() {
		var ident domain.Identity
		if err := rows.Scan(&ident.ID, &ident.DisplayName); err != nil {
			return nil, err
		}
		results = append(results, ident)
	}
	return results, rows.Err()
}
