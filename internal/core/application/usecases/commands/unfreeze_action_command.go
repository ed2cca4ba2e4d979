package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrUnfreezeActionCommandIsNotConstructed = errors.New(
	"UnfreezeActionCommand must be created via NewUnfreezeActionCommand constructor",
)

// UnfreezeActionCommand reverts a frozen action to the status it froze from.
type UnfreezeActionCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	actionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewUnfreezeActionCommand creates a command releasing an action hold.
func NewUnfreezeActionCommand(orderID, actionID kernel.UUID) (UnfreezeActionCommand, error) {
	cmd := UnfreezeActionCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActionID(actionID),
	); err != nil {
		return UnfreezeActionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UnfreezeActionCommand) Validate() error {
	return c.guard.Validate(ErrUnfreezeActionCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c UnfreezeActionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActionID returns the action to release.
func (c UnfreezeActionCommand) ActionID() kernel.UUID {
	return c.actionID
}

func (c *UnfreezeActionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UnfreezeActionCommand) setActionID(actionID kernel.UUID) error {
	if err := actionID.Validate(); err != nil {
		return err
	}

	c.actionID = actionID
	return nil
}
