package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kazudmb/time-record/module/checkin/domain"
)

var roster = []domain.Identity{
	{ID: "emp-1", DisplayName: "Taro Yamada"},
	{ID: "emp-2", DisplayName: "Hanako Sato"},
}

type mockGate struct {
	requestLocationFn func(ctx context.Context) domain.GateResult
	snapshot          domain.GateSnapshot
	requests          int
}

func (m *mockGate) RequestLocation(ctx context.Context) domain.GateResult {
	m.requests++
	res := m.requestLocationFn(ctx)
	switch res.Kind {
	case domain.GateKindAllowed:
		m.snapshot = domain.GateSnapshot{Status: domain.GateAllowed}
	case domain.GateKindOutOfRange:
		m.snapshot = domain.GateSnapshot{Status: domain.GateOutOfRange}
	default:
		m.snapshot = domain.GateSnapshot{Status: domain.GateError}
	}
	return res
}

func (m *mockGate) Snapshot() domain.GateSnapshot { return m.snapshot }

func gateReturning(res domain.GateResult) *mockGate {
	return &mockGate{
		requestLocationFn: func(context.Context) domain.GateResult { return res },
		snapshot:          domain.GateSnapshot{Status: domain.GateIdle},
	}
}

func TestSelect(t *testing.T) {
	svc := NewFormService(roster, gateReturning(domain.Allowed(0)), NewSubmitterService(&mockCheckInClient{}, nil, 0), nil)

	if err := svc.Select("emp-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := svc.State().Selected; s == nil || s.ID != "emp-2" {
		t.Fatalf("expected emp-2 selected, got %v", s)
	}

	if err := svc.Select("emp-9"); !errors.Is(err, domain.ErrUnknownIdentity) {
		t.Fatalf("expected ErrUnknownIdentity, got %v", err)
	}
	if s := svc.State().Selected; s == nil || s.ID != "emp-2" {
		t.Fatalf("selection should be unchanged, got %v", s)
	}

	if err := svc.Select(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := svc.State().Selected; s != nil {
		t.Fatalf("expected no selection, got %v", s)
	}
}

func TestRoster_ReturnsCopy(t *testing.T) {
	svc := NewFormService(roster, gateReturning(domain.Allowed(0)), NewSubmitterService(&mockCheckInClient{}, nil, 0), nil)
	got := svc.Roster()
	got[0].DisplayName = "changed"
	if svc.Roster()[0].DisplayName != "Taro Yamada" {
		t.Error("roster should not be mutable through Roster()")
	}
}

func TestCheckIn_NoIdentityIsNoop(t *testing.T) {
	gate := gateReturning(domain.Allowed(0))
	client := &mockCheckInClient{}
	notifier := &recordingNotifier{}
	svc := NewFormService(roster, gate, NewSubmitterService(client, notifier, 0), notifier)

	before := svc.State()
	if n := svc.CheckIn(context.Background()); n != nil {
		t.Fatalf("expected no notification, got %+v", n)
	}
	if gate.requests != 0 {
		t.Errorf("gate should not be requested, got %d", gate.requests)
	}
	if len(client.calls) != 0 || len(notifier.notifications) != 0 {
		t.Error("expected no submission and no notification")
	}
	if after := svc.State(); after != before {
		t.Errorf("state changed: %+v -> %+v", before, after)
	}
}

func TestCheckIn_Allowed(t *testing.T) {
	client := &mockCheckInClient{}
	notifier := &recordingNotifier{}
	svc := NewFormService(roster, gateReturning(domain.Allowed(3)), NewSubmitterService(client, notifier, 0), notifier)
	_ = svc.Select("emp-1")

	n := svc.CheckIn(context.Background())
	if n == nil || n.Level != domain.NotifySuccess {
		t.Fatalf("expected success notification, got %+v", n)
	}
	if len(client.calls) != 1 || client.calls[0] != "emp-1" {
		t.Fatalf("expected one submission for emp-1, got %v", client.calls)
	}
	if len(notifier.notifications) != 1 {
		t.Errorf("expected 1 notification, got %d", len(notifier.notifications))
	}
}

func TestCheckIn_OutOfRange(t *testing.T) {
	client := &mockCheckInClient{}
	notifier := &recordingNotifier{}
	svc := NewFormService(roster, gateReturning(domain.OutOfRange(48566.17)), NewSubmitterService(client, notifier, 0), notifier)
	_ = svc.Select("emp-1")

	n := svc.CheckIn(context.Background())
	if n == nil || n.Level != domain.NotifyError || n.Title != MsgOutOfRangeTitle {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if n.Description != "About 48566m from the target location." {
		t.Errorf("unexpected description %q", n.Description)
	}
	if len(client.calls) != 0 {
		t.Error("client should not be called when out of range")
	}
	if len(notifier.notifications) != 1 {
		t.Errorf("expected 1 notification, got %d", len(notifier.notifications))
	}
}

func TestCheckIn_GateError(t *testing.T) {
	client := &mockCheckInClient{}
	gate := gateReturning(domain.GateFailed(domain.ErrLocationPermissionDenied, MsgPermissionDenied))
	svc := NewFormService(roster, gate, NewSubmitterService(client, nil, 0), nil)
	_ = svc.Select("emp-1")

	n := svc.CheckIn(context.Background())
	if n == nil || n.Level != domain.NotifyError || n.Title != MsgPermissionDenied {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if len(client.calls) != 0 {
		t.Error("client should not be called on gate error")
	}
}

func TestCheckIn_SubmitFailureRollsBack(t *testing.T) {
	client := &mockCheckInClient{
		submitFn: func(context.Context, string) error { return errors.New("connection reset") },
	}
	sub := NewSubmitterService(client, nil, 0)
	svc := NewFormService(roster, gateReturning(domain.Allowed(0)), sub, nil)
	_ = svc.Select("emp-2")

	n := svc.CheckIn(context.Background())
	if n == nil || n.Title != MsgCheckInFailed {
		t.Fatalf("unexpected notification: %+v", n)
	}
	state := svc.State()
	if state.IsSubmitting {
		t.Error("expected isSubmitting to be cleared")
	}
	if !state.CanCheckIn {
		t.Error("expected retry to be possible immediately")
	}
}

// Every submission must be preceded by a gate read that allowed it.
func TestCheckIn_SubmitsOnlyAfterAllowed(t *testing.T) {
	results := []domain.GateResult{
		domain.OutOfRange(250),
		domain.Allowed(10),
		domain.GateFailed(domain.ErrLocationAcquisitionFailed, MsgAcquisitionFailed),
		domain.Allowed(0),
		domain.OutOfRange(201),
	}

	var last domain.GateResult
	i := 0
	gate := &mockGate{
		requestLocationFn: func(context.Context) domain.GateResult {
			last = results[i%len(results)]
			i++
			return last
		},
	}
	client := &mockCheckInClient{
		submitFn: func(context.Context, string) error {
			if !last.IsAllowed() {
				t.Fatalf("submission after %s gate result", last.Kind)
			}
			return nil
		},
	}
	svc := NewFormService(roster, gate, NewSubmitterService(client, nil, 0), nil)
	_ = svc.Select("emp-1")

	for range results {
		svc.CheckIn(context.Background())
	}
	if len(client.calls) != 2 {
		t.Errorf("expected 2 submissions, got %d", len(client.calls))
	}
}

func TestState_CanCheckIn(t *testing.T) {
	gate := gateReturning(domain.Allowed(0))
	svc := NewFormService(roster, gate, NewSubmitterService(&mockCheckInClient{}, nil, 0), nil)

	if svc.State().CanCheckIn {
		t.Error("cannot check in without selection or gate")
	}
	_ = svc.Select("emp-1")
	if svc.State().CanCheckIn {
		t.Error("cannot check in while gate is idle")
	}
	svc.RefreshLocation(context.Background())
	if !svc.State().CanCheckIn {
		t.Error("expected check-in enabled after allowed gate")
	}
}
