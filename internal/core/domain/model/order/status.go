package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions so orders follow
// the office-to-field workflow.
//
// State transitions:
//
//	Draft ──> Pending ──> Accepted ──┬──> Delivered
//	             │                   ├──> Failed
//	             │                   └──> Cancelled
//	             └──> Cancelled
//
// Delivered, Failed and Cancelled are terminal.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusDraft is the initial status while the office composes the order.
	// Draft hierarchies are mutated directly, without the pending-change overlay.
	StatusDraft

	// StatusPending indicates the order was submitted and awaits driver acceptance.
	StatusPending

	// StatusAccepted indicates a driver accepted the mission and field execution
	// may proceed. Office edits now go through the pending-change overlay.
	StatusAccepted

	// StatusDelivered indicates the order finished with at least one completed action.
	StatusDelivered

	// StatusFailed indicates the order finished with no completed actions.
	StatusFailed

	// StatusCancelled indicates the office cancelled the order.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "Unknown",
		StatusDraft:     "Draft",
		StatusPending:   "Pending",
		StatusAccepted:  "Accepted",
		StatusDelivered: "Delivered",
		StatusFailed:    "Failed",
		StatusCancelled: "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusDraft:     "Draft",
		StatusPending:   "Pending",
		StatusAccepted:  "Accepted",
		StatusDelivered: "Delivered",
		StatusFailed:    "Failed",
		StatusCancelled: "Cancelled",
	}
}

// Validate checks if the Status value is valid.
// Ensures Status values read from external sources (database, API) are
// known before use.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Safe to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusFailed || s == StatusCancelled
}

// Submit transitions the status to Pending.
//
// Valid transitions:
//   - Draft -> Pending
func (s Status) Submit() (Status, error) {
	if s != StatusDraft {
		return 0, errs.NewInvalidStateError("submit", "order", s.String())
	}
	return StatusPending, nil
}

// Accept transitions the status to Accepted.
//
// Valid transitions:
//   - Pending -> Accepted
func (s Status) Accept() (Status, error) {
	if s != StatusPending {
		return 0, errs.NewInvalidStateError("accept", "order", s.String())
	}
	return StatusAccepted, nil
}

// Cancel transitions the status to Cancelled.
//
// Valid transitions:
//   - Pending -> Cancelled (no driver engaged yet)
//   - Accepted -> Cancelled
func (s Status) Cancel() (Status, error) {
	if s != StatusPending && s != StatusAccepted {
		return 0, errs.NewInvalidStateError("cancel", "order", s.String())
	}
	return StatusCancelled, nil
}

// Finish transitions the status to its final outcome.
//
// Valid transitions:
//   - Accepted -> Delivered (delivered = true)
//   - Accepted -> Failed (delivered = false)
func (s Status) Finish(delivered bool) (Status, error) {
	if s != StatusAccepted {
		return 0, errs.NewInvalidStateError("finish", "order", s.String())
	}
	if delivered {
		return StatusDelivered, nil
	}
	return StatusFailed, nil
}
