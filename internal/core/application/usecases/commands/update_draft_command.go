package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/guard"
)

var ErrUpdateDraftCommandIsNotConstructed = errors.New(
	"UpdateDraftCommand must be created via NewUpdateDraftCommand constructor",
)

// UpdateDraftCommand represents a request to replace the hierarchy of a draft
// order. Drafts are edited wholesale: the command carries the complete new
// hierarchy, not a diff.
type UpdateDraftCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	steps   []services.DraftStep

	guard guard.ConstructorGuard
}

// NewUpdateDraftCommand creates a command to replace a draft's hierarchy.
func NewUpdateDraftCommand(orderID kernel.UUID, steps []services.DraftStep) (UpdateDraftCommand, error) {
	cmd := UpdateDraftCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setSteps(steps),
	); err != nil {
		return UpdateDraftCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateDraftCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDraftCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c UpdateDraftCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Steps returns the replacement hierarchy.
func (c UpdateDraftCommand) Steps() []services.DraftStep {
	return c.steps
}

func (c *UpdateDraftCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateDraftCommand) setSteps(steps []services.DraftStep) error {
	if len(steps) == 0 {
		return ErrDraftStepsAreRequired
	}

	c.steps = steps
	return nil
}
