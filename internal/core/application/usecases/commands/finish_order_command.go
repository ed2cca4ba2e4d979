package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrFinishOrderCommandIsNotConstructed = errors.New(
	"FinishOrderCommand must be created via NewFinishOrderCommand constructor",
)

// FinishOrderCommand closes out an accepted order once every action is
// terminal. The outcome, Delivered or Failed, is derived by the aggregate.
type FinishOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewFinishOrderCommand creates a command closing out an order.
func NewFinishOrderCommand(orderID kernel.UUID) (FinishOrderCommand, error) {
	cmd := FinishOrderCommand{guard: guard.NewConstructorGuard()}

	if err := cmd.setOrderID(orderID); err != nil {
		return FinishOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c FinishOrderCommand) Validate() error {
	return c.guard.Validate(ErrFinishOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c FinishOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *FinishOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
