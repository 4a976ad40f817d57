package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kazudmb/time-record/module/checkin/domain"
)

const (
	MsgLocationUnsupported = "Location is not supported on this device or browser."
	MsgPermissionDenied    = "Location access is not permitted. Please check your browser settings."
	MsgAcquisitionFailed   = "Failed to get your location. Please check your connection and try again."
	MsgOutOfRange          = "You are outside the check-in area, so check-in cannot be registered."

	DefaultLocationTimeout = 10 * time.Second
)

// LocationProvider returns a single fresh fix from the device.
// Denied permission is reported as a *domain.PositionError with code
// domain.PermissionDenied.
type LocationProvider interface {
	CurrentPosition(ctx context.Context, opts domain.PositionOptions) (domain.Position, error)
}

type GateService struct {
	cfg      domain.GeofenceConfig
	provider LocationProvider
	opts     domain.PositionOptions
	group    singleflight.Group
	waiting  atomic.Int32

	mu       sync.Mutex
	status   domain.GateStatus
	distance *float64
	errMsg   string
}

// NewGateService builds a gate. A nil provider means the environment has no
// location capability.
func NewGateService(cfg domain.GeofenceConfig, provider LocationProvider, timeout time.Duration) *GateService {
	if timeout <= 0 {
		timeout = DefaultLocationTimeout
	}
	return &GateService{
		cfg:      cfg,
		provider: provider,
		opts: domain.PositionOptions{
			EnableHighAccuracy: true,
			Timeout:            timeout,
			MaximumAge:         0,
		},
		status: domain.GateIdle,
	}
}

// RequestLocation evaluates the device position against the geofence.
// Concurrent callers share one in-flight request.
func (s *GateService) RequestLocation(ctx context.Context) domain.GateResult {
	if s.cfg.UseMockLocation {
		res := domain.Allowed(0)
		s.apply(res)
		return res
	}

	if s.provider == nil {
		res := domain.GateFailed(domain.ErrLocationUnavailable, MsgLocationUnsupported)
		s.apply(res)
		return res
	}

	// The shared fix outlives any single caller; each caller may still
	// stop waiting on its own context.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan("location", func() (any, error) {
		s.setLoading()
		res := s.acquire(shared)
		s.apply(res)
		return res, nil
	})
	s.waiting.Add(1)
	defer s.waiting.Add(-1)

	select {
	case <-ctx.Done():
		return domain.GateFailed(fmt.Errorf("%w: %w", domain.ErrLocationAcquisitionFailed, ctx.Err()), MsgAcquisitionFailed)
	case r := <-ch:
		return r.Val.(domain.GateResult)
	}
}

func (s *GateService) acquire(ctx context.Context) domain.GateResult {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	pos, err := s.provider.CurrentPosition(ctx, s.opts)
	if err != nil {
		return classifyPositionError(err)
	}
	return Classify(s.cfg, pos.Coordinate)
}

func classifyPositionError(err error) domain.GateResult {
	if errors.Is(err, domain.ErrLocationUnavailable) {
		return domain.GateFailed(err, MsgLocationUnsupported)
	}

	var posErr *domain.PositionError
	if errors.As(err, &posErr) && posErr.Code == domain.PermissionDenied {
		return domain.GateFailed(fmt.Errorf("%w: %w", domain.ErrLocationPermissionDenied, err), MsgPermissionDenied)
	}

	log.Printf("location acquisition error: %v", err)
	return domain.GateFailed(fmt.Errorf("%w: %w", domain.ErrLocationAcquisitionFailed, err), MsgAcquisitionFailed)
}

func (s *GateService) setLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = domain.GateLoading
	s.distance = nil
	s.errMsg = ""
}

func (s *GateService) apply(res domain.GateResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch res.Kind {
	case domain.GateKindAllowed:
		d := res.DistanceMeters
		s.status = domain.GateAllowed
		s.distance = &d
		s.errMsg = ""
	case domain.GateKindOutOfRange:
		d := res.DistanceMeters
		s.status = domain.GateOutOfRange
		s.distance = &d
		s.errMsg = MsgOutOfRange
	default:
		s.status = domain.GateError
		s.distance = nil
		s.errMsg = res.Message
	}
}

// Snapshot returns the state of the most recent request.
func (s *GateService) Snapshot() domain.GateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.GateSnapshot{Status: s.status, ErrorMessage: s.errMsg}
	if s.distance != nil {
		d := *s.distance
		snap.DistanceMeters = &d
	}
	return snap
}
