package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kazudmb/time-record/module/checkin/domain"
	"github.com/kazudmb/time-record/module/checkin/internal/repository/publisher"
)

const (
	MsgCheckInSucceeded = "Check-in registered."
	MsgCheckInFailed    = "Check-in failed."
	MsgCheckInRetry     = "Please wait a moment and try again."
)

// Notifier displays transient messages to the user.
type Notifier interface {
	Notify(n domain.Notification)
}

type SubmitterService struct {
	client   publisher.CheckInClient
	notifier Notifier
	timeout  time.Duration
	now      func() time.Time

	mu         sync.Mutex
	submitting bool
}

// NewSubmitterService builds a submitter. A zero timeout leaves the remote
// call bounded only by the caller's context.
func NewSubmitterService(client publisher.CheckInClient, notifier Notifier, timeout time.Duration) *SubmitterService {
	return &SubmitterService{
		client:   client,
		notifier: notifier,
		timeout:  timeout,
		now:      time.Now,
	}
}

func (s *SubmitterService) IsSubmitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// SubmitCheckIn sends a check-in for ident. The gate result must be Allowed,
// otherwise the remote call is never made. Only one submission runs at a time.
func (s *SubmitterService) SubmitCheckIn(ctx context.Context, ident domain.Identity, gate domain.GateResult) (domain.Notification, error) {
	if !gate.IsAllowed() {
		return domain.Notification{}, domain.ErrGateNotPassed
	}
	if !s.begin() {
		return domain.Notification{}, domain.ErrSubmissionInFlight
	}
	defer s.end()

	timestamp := s.now().Local().Format(domain.LocalTimestampLayout)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.submit(ctx, ident.ID); err != nil {
		log.Printf("check-in error: employee=%s: %v", ident.ID, err)
		n := domain.Notification{
			Level:       domain.NotifyError,
			Title:       MsgCheckInFailed,
			Description: MsgCheckInRetry,
		}
		s.notify(n)
		return n, fmt.Errorf("%w: %w", domain.ErrCheckInSubmissionFailed, err)
	}

	n := domain.Notification{
		Level:       domain.NotifySuccess,
		Title:       MsgCheckInSucceeded,
		Description: timestamp,
	}
	s.notify(n)
	return n, nil
}

// submit turns a client panic into a submission error.
func (s *SubmitterService) submit(ctx context.Context, employeeID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check-in client panic: %v", r)
		}
	}()
	return s.client.Submit(ctx, employeeID)
}

func (s *SubmitterService) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return false
	}
	s.submitting = true
	return true
}

func (s *SubmitterService) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
}

func (s *SubmitterService) notify(n domain.Notification) {
	if s.notifier != nil {
		s.notifier.Notify(n)
	}
}
