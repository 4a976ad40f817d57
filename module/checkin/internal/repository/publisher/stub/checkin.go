package stub

import (
	"context"
	"log"
	"time"

	"github.com/kazudmb/time-record/module/checkin/internal/repository/publisher"
)

var _ publisher.CheckInClient = (*CheckInClient)(nil)

const DefaultDelay = 600 * time.Millisecond

// CheckInClient accepts every check-in after a fixed delay. It stands in for
// the attendance API until one is available.
type CheckInClient struct {
	delay time.Duration
}

func NewCheckInClient(delay time.Duration) *CheckInClient {
	if delay < 0 {
		delay = DefaultDelay
	}
	return &CheckInClient{delay: delay}
}

func (c *CheckInClient) Submit(ctx context.Context, employeeID string) error {
	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	log.Printf("stub check-in accepted: employee=%s", employeeID)
	return nil
}
