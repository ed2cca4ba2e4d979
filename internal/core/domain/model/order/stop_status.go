package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// StopStatus represents the execution state of a stop.
//
// State transitions:
//
//	Pending ──> Arrived ──┬──> Completed
//	               │      └──> Partial ──> Failed
//	               └──> Failed
//
// A stop may additionally be held ("frozen") while some of its actions remain
// incomplete; the hold is a reversible flag on the Stop, not a status value.
type StopStatus int

const (
	// StopStatusUnknown represents an invalid or undefined stop status.
	StopStatusUnknown StopStatus = iota

	// StopStatusPending indicates the driver has not reached the stop yet.
	StopStatusPending

	// StopStatusArrived indicates the driver is on site and actions may proceed.
	StopStatusArrived

	// StopStatusPartial indicates the stop was closed with some of its actions
	// ending in a non-completed terminal state.
	StopStatusPartial

	// StopStatusCompleted indicates every action at the stop completed.
	StopStatusCompleted

	// StopStatusFailed indicates the visit failed.
	StopStatusFailed
)

func getStopStatusStrings() map[StopStatus]string {
	return map[StopStatus]string{
		StopStatusUnknown:   "Unknown",
		StopStatusPending:   "Pending",
		StopStatusArrived:   "Arrived",
		StopStatusPartial:   "Partial",
		StopStatusCompleted: "Completed",
		StopStatusFailed:    "Failed",
	}
}

// Validate checks if the StopStatus value is valid.
func (s StopStatus) Validate() error {
	if s == StopStatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("stop status is invalid",
			fmt.Errorf("%d is not a valid stop status", s))
	}
	if _, ok := getStopStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("stop status is invalid",
			fmt.Errorf("%d is not a valid stop status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s StopStatus) String() string {
	if str, ok := getStopStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the stop status permits no further transitions.
// Partial is not terminal: a partially closed stop may still be failed.
func (s StopStatus) IsTerminal() bool {
	return s == StopStatusCompleted || s == StopStatusFailed
}

// IsClosed reports whether the stop no longer blocks subsequent stops of a
// linked step: completed, partially closed or failed visits are all done.
func (s StopStatus) IsClosed() bool {
	return s == StopStatusCompleted || s == StopStatusPartial || s == StopStatusFailed
}

// Arrive transitions the status to Arrived.
//
// Valid transitions:
//   - Pending -> Arrived
func (s StopStatus) Arrive() (StopStatus, error) {
	if s != StopStatusPending {
		return 0, errs.NewInvalidStateError("arrive at", "stop", s.String())
	}
	return StopStatusArrived, nil
}

// Complete closes the stop.
//
// Valid transitions:
//   - Arrived -> Completed (every action completed)
//   - Arrived -> Partial (some actions ended frozen, failed or cancelled)
func (s StopStatus) Complete(allActionsCompleted bool) (StopStatus, error) {
	if s != StopStatusArrived {
		return 0, errs.NewInvalidStateError("complete", "stop", s.String())
	}
	if allActionsCompleted {
		return StopStatusCompleted, nil
	}
	return StopStatusPartial, nil
}

// Fail transitions the status to Failed.
//
// Valid transitions:
//   - Arrived -> Failed
//   - Partial -> Failed
func (s StopStatus) Fail() (StopStatus, error) {
	if s != StopStatusArrived && s != StopStatusPartial {
		return 0, errs.NewInvalidStateError("fail", "stop", s.String())
	}
	return StopStatusFailed, nil
}
