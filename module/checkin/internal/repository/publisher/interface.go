package publisher

import "context"

// CheckInClient delivers one check-in event for the given employee to the
// attendance backend. A nil error means the backend accepted it.
type CheckInClient interface {
	Submit(ctx context.Context, employeeID string) error
}
