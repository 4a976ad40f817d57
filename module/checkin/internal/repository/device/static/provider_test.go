package static

import (
	"context"
	"errors"
	"testing"

	"github.com/kazudmb/time-record/module/checkin/domain"
)

func TestCurrentPosition(t *testing.T) {
	p := NewProvider(domain.Coordinate{Lat: 35.8115739, Lon: 139.162354})

	pos, err := p.CurrentPosition(context.Background(), domain.PositionOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.Lat != 35.8115739 || pos.Lon != 139.162354 {
		t.Errorf("unexpected coordinate %+v", pos.Coordinate)
	}
	if pos.Timestamp.IsZero() {
		t.Error("expected a timestamp")
	}
}

func TestCurrentPosition_Canceled(t *testing.T) {
	p := NewProvider(domain.Coordinate{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.CurrentPosition(ctx, domain.PositionOptions{})
	var posErr *domain.PositionError
	if !errors.As(err, &posErr) || posErr.Code != domain.PositionTimeout {
		t.Fatalf("expected timeout PositionError, got %v", err)
	}
}
