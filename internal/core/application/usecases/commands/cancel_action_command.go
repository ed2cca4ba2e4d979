package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrCancelActionCommandIsNotConstructed = errors.New(
	"CancelActionCommand must be created via NewCancelActionCommand constructor",
)

// CancelActionCommand cancels an action from the field side.
type CancelActionCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	actionID kernel.UUID
	reason   string

	guard guard.ConstructorGuard
}

// NewCancelActionCommand creates a command cancelling an action.
func NewCancelActionCommand(orderID, actionID kernel.UUID, reason string) (CancelActionCommand, error) {
	cmd := CancelActionCommand{reason: reason, guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActionID(actionID),
	); err != nil {
		return CancelActionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelActionCommand) Validate() error {
	return c.guard.Validate(ErrCancelActionCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CancelActionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActionID returns the action to cancel.
func (c CancelActionCommand) ActionID() kernel.UUID {
	return c.actionID
}

// Reason returns the cancellation reason, possibly empty.
func (c CancelActionCommand) Reason() string {
	return c.reason
}

func (c *CancelActionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CancelActionCommand) setActionID(actionID kernel.UUID) error {
	if err := actionID.Validate(); err != nil {
		return err
	}

	c.actionID = actionID
	return nil
}
