package domain

import (
	"errors"
	"time"
)

var (
	ErrCheckInSubmissionFailed = errors.New("check-in submission failed")
	ErrGateNotPassed           = errors.New("location gate not passed")
	ErrSubmissionInFlight      = errors.New("check-in already in flight")
	ErrUnknownIdentity         = errors.New("identity not in roster")
)

// LocalTimestampLayout formats check-in times for people, in 24-hour local time.
const LocalTimestampLayout = "2006/1/2 15:04:05"

type CheckInEvent struct {
	EmployeeID  string    `json:"employeeId"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
)

type Notification struct {
	Level       NotificationLevel `json:"level"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
}

// FormState is the check-in form as the UI binds to it.
type FormState struct {
	Selected     *Identity    `json:"selected"`
	Gate         GateSnapshot `json:"gate"`
	IsSubmitting bool         `json:"is_submitting"`
	CanCheckIn   bool         `json:"can_check_in"`
}
