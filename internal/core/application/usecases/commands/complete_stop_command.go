package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrCompleteStopCommandIsNotConstructed = errors.New(
	"CompleteStopCommand must be created via NewCompleteStopCommand constructor",
)

// CompleteStopCommand closes out a stop once every action in it is terminal.
type CompleteStopCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	stopID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewCompleteStopCommand creates a command closing out a stop.
func NewCompleteStopCommand(orderID, stopID kernel.UUID) (CompleteStopCommand, error) {
	cmd := CompleteStopCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStopID(stopID),
	); err != nil {
		return CompleteStopCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteStopCommand) Validate() error {
	return c.guard.Validate(ErrCompleteStopCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CompleteStopCommand) OrderID() kernel.UUID {
	return c.orderID
}

// StopID returns the stop to close out.
func (c CompleteStopCommand) StopID() kernel.UUID {
	return c.stopID
}

func (c *CompleteStopCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CompleteStopCommand) setStopID(stopID kernel.UUID) error {
	if err := stopID.Validate(); err != nil {
		return err
	}

	c.stopID = stopID
	return nil
}
