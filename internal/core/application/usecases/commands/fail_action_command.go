package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrFailActionCommandIsNotConstructed = errors.New(
	"FailActionCommand must be created via NewFailActionCommand constructor",
)

// FailActionCommand fails an action from the field side.
type FailActionCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	actionID kernel.UUID
	reason   string

	guard guard.ConstructorGuard
}

// NewFailActionCommand creates a command failing an action.
func NewFailActionCommand(orderID, actionID kernel.UUID, reason string) (FailActionCommand, error) {
	cmd := FailActionCommand{reason: reason, guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActionID(actionID),
	); err != nil {
		return FailActionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c FailActionCommand) Validate() error {
	return c.guard.Validate(ErrFailActionCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c FailActionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActionID returns the action to fail.
func (c FailActionCommand) ActionID() kernel.UUID {
	return c.actionID
}

// Reason returns the driver's failure reason, possibly empty.
func (c FailActionCommand) Reason() string {
	return c.reason
}

func (c *FailActionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *FailActionCommand) setActionID(actionID kernel.UUID) error {
	if err := actionID.Validate(); err != nil {
		return err
	}

	c.actionID = actionID
	return nil
}
