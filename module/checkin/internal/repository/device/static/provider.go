package static

import (
	"context"
	"time"

	"github.com/kazudmb/time-record/module/checkin/domain"
)

// Provider reports a fixed coordinate, for kiosks installed at a known spot.
type Provider struct {
	coord domain.Coordinate
	now   func() time.Time
}

func NewProvider(coord domain.Coordinate) *Provider {
	return &Provider{coord: coord, now: time.Now}
}

func (p *Provider) CurrentPosition(ctx context.Context, _ domain.PositionOptions) (domain.Position, error) {
	if err := ctx.Err(); err != nil {
		return domain.Position{}, &domain.PositionError{Code: domain.PositionTimeout, Message: err.Error()}
	}
	return domain.Position{Coordinate: p.coord, Timestamp: p.now()}, nil
}
