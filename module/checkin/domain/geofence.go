package domain

import (
	"errors"
	"fmt"
	"time"
)

type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Position is a single location fix reported by a device.
type Position struct {
	Coordinate
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

type GeofenceConfig struct {
	Target              Coordinate
	AllowedRadiusMeters float64
	UseMockLocation     bool
}

type PositionOptions struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	MaximumAge         time.Duration
}

// PositionErrorCode mirrors the W3C geolocation error codes.
type PositionErrorCode int

const (
	PermissionDenied    PositionErrorCode = 1
	PositionUnavailable PositionErrorCode = 2
	PositionTimeout     PositionErrorCode = 3
)

type PositionError struct {
	Code    PositionErrorCode
	Message string
}

func (e *PositionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("position error %d", e.Code)
	}
	return fmt.Sprintf("position error %d: %s", e.Code, e.Message)
}

var (
	ErrLocationUnavailable       = errors.New("location capability unavailable")
	ErrLocationPermissionDenied  = errors.New("location permission denied")
	ErrLocationAcquisitionFailed = errors.New("location acquisition failed")
)

type GateStatus string

const (
	GateIdle       GateStatus = "idle"
	GateLoading    GateStatus = "loading"
	GateAllowed    GateStatus = "allowed"
	GateOutOfRange GateStatus = "out_of_range"
	GateError      GateStatus = "error"
)

type GateKind string

const (
	GateKindAllowed    GateKind = "allowed"
	GateKindOutOfRange GateKind = "out_of_range"
	GateKindError      GateKind = "error"
)

// GateResult is the outcome of one location request. DistanceMeters is set
// for Allowed and OutOfRange, Message and Err for Error.
type GateResult struct {
	Kind           GateKind `json:"kind"`
	DistanceMeters float64  `json:"distance_meters"`
	Message        string   `json:"message,omitempty"`
	Err            error    `json:"-"`
}

func Allowed(distance float64) GateResult {
	return GateResult{Kind: GateKindAllowed, DistanceMeters: distance}
}

func OutOfRange(distance float64) GateResult {
	return GateResult{Kind: GateKindOutOfRange, DistanceMeters: distance}
}

func GateFailed(err error, message string) GateResult {
	return GateResult{Kind: GateKindError, Message: message, Err: err}
}

func (r GateResult) IsAllowed() bool { return r.Kind == GateKindAllowed }

// GateSnapshot is the gate state exposed for display.
type GateSnapshot struct {
	Status         GateStatus `json:"status"`
	DistanceMeters *float64   `json:"distance_meters"`
	ErrorMessage   string     `json:"error_message,omitempty"`
}
