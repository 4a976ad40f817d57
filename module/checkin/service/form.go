package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/kazudmb/time-record/module/checkin/domain"
)

const MsgOutOfRangeTitle = "Outside the check-in area."

type gateService interface {
	RequestLocation(ctx context.Context) domain.GateResult
	Snapshot() domain.GateSnapshot
}

type submitterService interface {
	SubmitCheckIn(ctx context.Context, ident domain.Identity, gate domain.GateResult) (domain.Notification, error)
	IsSubmitting() bool
}

// FormService holds the selected identity and runs the check-in flow:
// re-evaluate the gate, then submit only when it allows.
type FormService struct {
	roster    []domain.Identity
	gate      gateService
	submitter submitterService
	notifier  Notifier

	mu         sync.Mutex
	selectedID string
}

func NewFormService(roster []domain.Identity, gate gateService, submitter submitterService, notifier Notifier) *FormService {
	return &FormService{
		roster:    append([]domain.Identity(nil), roster...),
		gate:      gate,
		submitter: submitter,
		notifier:  notifier,
	}
}

func (s *FormService) Roster() []domain.Identity {
	return append([]domain.Identity(nil), s.roster...)
}

// Select sets the selected identity. An empty id clears the selection.
func (s *FormService) Select(id string) error {
	if id != "" {
		if _, ok := domain.FindIdentity(s.roster, id); !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownIdentity, id)
		}
	}
	s.mu.Lock()
	s.selectedID = id
	s.mu.Unlock()
	return nil
}

func (s *FormService) selected() (domain.Identity, bool) {
	s.mu.Lock()
	id := s.selectedID
	s.mu.Unlock()
	if id == "" {
		return domain.Identity{}, false
	}
	return domain.FindIdentity(s.roster, id)
}

// RefreshLocation re-runs the gate without submitting.
func (s *FormService) RefreshLocation(ctx context.Context) domain.GateResult {
	return s.gate.RequestLocation(ctx)
}

// CheckIn runs one check-in attempt and returns the notification it
// produced. It is a no-op returning nil when nobody is selected or a
// submission is already in flight.
func (s *FormService) CheckIn(ctx context.Context) *domain.Notification {
	ident, ok := s.selected()
	if !ok || s.submitter.IsSubmitting() {
		return nil
	}

	res := s.gate.RequestLocation(ctx)
	switch res.Kind {
	case domain.GateKindError:
		return s.emit(domain.Notification{Level: domain.NotifyError, Title: res.Message})
	case domain.GateKindOutOfRange:
		return s.emit(domain.Notification{
			Level:       domain.NotifyError,
			Title:       MsgOutOfRangeTitle,
			Description: fmt.Sprintf("About %dm from the target location.", int(math.Round(res.DistanceMeters))),
		})
	}

	n, err := s.submitter.SubmitCheckIn(ctx, ident, res)
	if errors.Is(err, domain.ErrSubmissionInFlight) || errors.Is(err, domain.ErrGateNotPassed) {
		return nil
	}
	return &n
}

func (s *FormService) emit(n domain.Notification) *domain.Notification {
	if s.notifier != nil {
		s.notifier.Notify(n)
	}
	return &n
}

func (s *FormService) State() domain.FormState {
	snap := s.gate.Snapshot()
	submitting := s.submitter.IsSubmitting()

	state := domain.FormState{
		Gate:         snap,
		IsSubmitting: submitting,
	}
	if ident, ok := s.selected(); ok {
		state.Selected = &ident
	}
	state.CanCheckIn = state.Selected != nil && !submitting && snap.Status == domain.GateAllowed
	return state
}
