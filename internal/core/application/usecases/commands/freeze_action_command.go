package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrFreezeActionCommandIsNotConstructed = errors.New(
	"FreezeActionCommand must be created via NewFreezeActionCommand constructor",
)

// FreezeActionCommand puts an action on hold.
type FreezeActionCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	actionID kernel.UUID
	reason   string

	guard guard.ConstructorGuard
}

// NewFreezeActionCommand creates a command putting an action on hold.
func NewFreezeActionCommand(orderID, actionID kernel.UUID, reason string) (FreezeActionCommand, error) {
	cmd := FreezeActionCommand{reason: reason, guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActionID(actionID),
	); err != nil {
		return FreezeActionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c FreezeActionCommand) Validate() error {
	return c.guard.Validate(ErrFreezeActionCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c FreezeActionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActionID returns the action to hold.
func (c FreezeActionCommand) ActionID() kernel.UUID {
	return c.actionID
}

// Reason returns the driver's hold reason, possibly empty.
func (c FreezeActionCommand) Reason() string {
	return c.reason
}

func (c *FreezeActionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *FreezeActionCommand) setActionID(actionID kernel.UUID) error {
	if err := actionID.Validate(); err != nil {
		return err
	}

	c.actionID = actionID
	return nil
}
