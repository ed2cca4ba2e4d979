package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrUnfreezeStopCommandIsNotConstructed = errors.New(
	"UnfreezeStopCommand must be created via NewUnfreezeStopCommand constructor",
)

// UnfreezeStopCommand releases a stop hold.
type UnfreezeStopCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	stopID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewUnfreezeStopCommand creates a command releasing a stop hold.
func NewUnfreezeStopCommand(orderID, stopID kernel.UUID) (UnfreezeStopCommand, error) {
	cmd := UnfreezeStopCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStopID(stopID),
	); err != nil {
		return UnfreezeStopCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UnfreezeStopCommand) Validate() error {
	return c.guard.Validate(ErrUnfreezeStopCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c UnfreezeStopCommand) OrderID() kernel.UUID {
	return c.orderID
}

// StopID returns the stop to release.
func (c UnfreezeStopCommand) StopID() kernel.UUID {
	return c.stopID
}

func (c *UnfreezeStopCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UnfreezeStopCommand) setStopID(stopID kernel.UUID) error {
	if err := stopID.Validate(); err != nil {
		return err
	}

	c.stopID = stopID
	return nil
}
