package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrFailStopCommandIsNotConstructed = errors.New(
	"FailStopCommand must be created via NewFailStopCommand constructor",
)

// FailStopCommand fails a stop, failing its remaining open actions with it.
type FailStopCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	stopID  kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewFailStopCommand creates a command failing a stop.
func NewFailStopCommand(orderID, stopID kernel.UUID, reason string) (FailStopCommand, error) {
	cmd := FailStopCommand{reason: reason, guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStopID(stopID),
	); err != nil {
		return FailStopCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c FailStopCommand) Validate() error {
	return c.guard.Validate(ErrFailStopCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c FailStopCommand) OrderID() kernel.UUID {
	return c.orderID
}

// StopID returns the stop to fail.
func (c FailStopCommand) StopID() kernel.UUID {
	return c.stopID
}

// Reason returns the driver's failure reason, possibly empty.
func (c FailStopCommand) Reason() string {
	return c.reason
}

func (c *FailStopCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *FailStopCommand) setStopID(stopID kernel.UUID) error {
	if err := stopID.Validate(); err != nil {
		return err
	}

	c.stopID = stopID
	return nil
}
