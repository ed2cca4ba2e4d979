package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrCompleteActionCommandIsNotConstructed = errors.New(
	"CompleteActionCommand must be created via NewCompleteActionCommand constructor",
)

// CompleteActionCommand completes an action, supplying the proofs its
// confirmation rules demand, keyed by rule name.
type CompleteActionCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	actionID kernel.UUID
	proofs   map[string]string

	guard guard.ConstructorGuard
}

// NewCompleteActionCommand creates a command completing an action.
// Proofs may be nil when the action carries no applicable rules.
func NewCompleteActionCommand(orderID, actionID kernel.UUID, proofs map[string]string) (CompleteActionCommand, error) {
	cmd := CompleteActionCommand{proofs: proofs, guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActionID(actionID),
	); err != nil {
		return CompleteActionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteActionCommand) Validate() error {
	return c.guard.Validate(ErrCompleteActionCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CompleteActionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActionID returns the action to complete.
func (c CompleteActionCommand) ActionID() kernel.UUID {
	return c.actionID
}

// Proofs returns the supplied proof values keyed by rule name.
func (c CompleteActionCommand) Proofs() map[string]string {
	return c.proofs
}

func (c *CompleteActionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CompleteActionCommand) setActionID(actionID kernel.UUID) error {
	if err := actionID.Validate(); err != nil {
		return err
	}

	c.actionID = actionID
	return nil
}
