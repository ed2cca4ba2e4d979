package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrFreezeStopCommandIsNotConstructed = errors.New(
	"FreezeStopCommand must be created via NewFreezeStopCommand constructor",
)

// FreezeStopCommand puts a stop on hold: it keeps its lifecycle status but
// cannot advance until unfrozen.
type FreezeStopCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	stopID  kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewFreezeStopCommand creates a command putting a stop on hold.
func NewFreezeStopCommand(orderID, stopID kernel.UUID, reason string) (FreezeStopCommand, error) {
	cmd := FreezeStopCommand{reason: reason, guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStopID(stopID),
	); err != nil {
		return FreezeStopCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c FreezeStopCommand) Validate() error {
	return c.guard.Validate(ErrFreezeStopCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c FreezeStopCommand) OrderID() kernel.UUID {
	return c.orderID
}

// StopID returns the stop to hold.
func (c FreezeStopCommand) StopID() kernel.UUID {
	return c.stopID
}

// Reason returns the driver's hold reason, possibly empty.
func (c FreezeStopCommand) Reason() string {
	return c.reason
}

func (c *FreezeStopCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *FreezeStopCommand) setStopID(stopID kernel.UUID) error {
	if err := stopID.Validate(); err != nil {
		return err
	}

	c.stopID = stopID
	return nil
}
