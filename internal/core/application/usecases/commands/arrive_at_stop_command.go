package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrArriveAtStopCommandIsNotConstructed = errors.New(
	"ArriveAtStopCommand must be created via NewArriveAtStopCommand constructor",
)

// ArriveAtStopCommand represents the driver's arrival at a stop.
type ArriveAtStopCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	stopID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewArriveAtStopCommand creates a command recording arrival at a stop.
func NewArriveAtStopCommand(orderID, stopID kernel.UUID) (ArriveAtStopCommand, error) {
	cmd := ArriveAtStopCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStopID(stopID),
	); err != nil {
		return ArriveAtStopCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ArriveAtStopCommand) Validate() error {
	return c.guard.Validate(ErrArriveAtStopCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c ArriveAtStopCommand) OrderID() kernel.UUID {
	return c.orderID
}

// StopID returns the stop the driver arrived at.
func (c ArriveAtStopCommand) StopID() kernel.UUID {
	return c.stopID
}

func (c *ArriveAtStopCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ArriveAtStopCommand) setStopID(stopID kernel.UUID) error {
	if err := stopID.Validate(); err != nil {
		return err
	}

	c.stopID = stopID
	return nil
}
