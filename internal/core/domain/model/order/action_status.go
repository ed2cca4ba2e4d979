package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// ActionStatus represents the execution state of a single action.
//
// State transitions:
//
//	Pending ──> Arrived ──> Completed
//	   │           │
//	   ├───────────┼──> Frozen (reversible via Unfreeze)
//	   ├───────────┼──> Failed
//	   └───────────┴──> Cancelled
//
// Completed, Frozen, Failed and Cancelled all count as terminal for the
// purpose of closing the enclosing stop and finishing the order; Frozen is
// the only one that can be reverted.
type ActionStatus int

const (
	// ActionStatusUnknown represents an invalid or undefined action status.
	ActionStatusUnknown ActionStatus = iota

	// ActionStatusPending indicates the action has not started.
	ActionStatusPending

	// ActionStatusArrived indicates the driver reached the action's stop.
	ActionStatusArrived

	// ActionStatusCompleted indicates the action finished with accepted proofs.
	ActionStatusCompleted

	// ActionStatusFrozen indicates the action is on hold; reversible.
	ActionStatusFrozen

	// ActionStatusFailed indicates the action could not be performed.
	ActionStatusFailed

	// ActionStatusCancelled indicates the action was called off.
	ActionStatusCancelled
)

func getActionStatusStrings() map[ActionStatus]string {
	return map[ActionStatus]string{
		ActionStatusUnknown:   "Unknown",
		ActionStatusPending:   "Pending",
		ActionStatusArrived:   "Arrived",
		ActionStatusCompleted: "Completed",
		ActionStatusFrozen:    "Frozen",
		ActionStatusFailed:    "Failed",
		ActionStatusCancelled: "Cancelled",
	}
}

// Validate checks if the ActionStatus value is valid.
func (s ActionStatus) Validate() error {
	if s == ActionStatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("action status is invalid",
			fmt.Errorf("%d is not a valid action status", s))
	}
	if _, ok := getActionStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("action status is invalid",
			fmt.Errorf("%d is not a valid action status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s ActionStatus) String() string {
	if str, ok := getActionStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the action no longer blocks stop completion.
// Frozen counts as terminal here: a held action does not keep its stop open.
func (s ActionStatus) IsTerminal() bool {
	switch s {
	case ActionStatusCompleted, ActionStatusFrozen, ActionStatusFailed, ActionStatusCancelled:
		return true
	default:
		return false
	}
}

// Arrive transitions the status to Arrived.
//
// Valid transitions:
//   - Pending -> Arrived
func (s ActionStatus) Arrive() (ActionStatus, error) {
	if s != ActionStatusPending {
		return 0, errs.NewInvalidStateError("arrive at", "action", s.String())
	}
	return ActionStatusArrived, nil
}

// Complete transitions the status to Completed.
//
// Valid transitions:
//   - Arrived -> Completed
func (s ActionStatus) Complete() (ActionStatus, error) {
	if s != ActionStatusArrived {
		return 0, errs.NewInvalidStateError("complete", "action", s.String())
	}
	return ActionStatusCompleted, nil
}

// Freeze transitions the status to Frozen.
//
// Valid transitions:
//   - Pending -> Frozen
//   - Arrived -> Frozen
func (s ActionStatus) Freeze() (ActionStatus, error) {
	if s != ActionStatusPending && s != ActionStatusArrived {
		return 0, errs.NewInvalidStateError("freeze", "action", s.String())
	}
	return ActionStatusFrozen, nil
}

// Fail transitions the status to Failed.
//
// Valid transitions:
//   - Pending -> Failed
//   - Arrived -> Failed
func (s ActionStatus) Fail() (ActionStatus, error) {
	if s != ActionStatusPending && s != ActionStatusArrived {
		return 0, errs.NewInvalidStateError("fail", "action", s.String())
	}
	return ActionStatusFailed, nil
}

// Cancel transitions the status to Cancelled.
//
// Valid transitions:
//   - Pending -> Cancelled
//   - Arrived -> Cancelled
func (s ActionStatus) Cancel() (ActionStatus, error) {
	if s != ActionStatusPending && s != ActionStatusArrived {
		return 0, errs.NewInvalidStateError("cancel", "action", s.String())
	}
	return ActionStatusCancelled, nil
}
