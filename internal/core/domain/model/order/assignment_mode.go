package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// AssignmentMode controls which drivers an order is offered to.
type AssignmentMode int

const (
	// AssignmentModeUnknown represents an invalid or undefined assignment mode.
	AssignmentModeUnknown AssignmentMode = iota

	// AssignmentModeGlobal offers the order to any available driver.
	AssignmentModeGlobal

	// AssignmentModeInternal restricts the order to the office's own fleet.
	AssignmentModeInternal

	// AssignmentModeTarget pins the order to a pre-selected driver.
	AssignmentModeTarget
)

// Validate checks if the AssignmentMode value is valid.
func (m AssignmentMode) Validate() error {
	switch m {
	case AssignmentModeGlobal, AssignmentModeInternal, AssignmentModeTarget:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("assignment mode is invalid",
			fmt.Errorf("%d is not a valid assignment mode", m))
	}
}

// String returns the human-readable name of the assignment mode.
func (m AssignmentMode) String() string {
	switch m {
	case AssignmentModeGlobal:
		return "Global"
	case AssignmentModeInternal:
		return "Internal"
	case AssignmentModeTarget:
		return "Target"
	default:
		return "Unknown"
	}
}
