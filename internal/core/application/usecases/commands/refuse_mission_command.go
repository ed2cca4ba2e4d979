package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrRefuseMissionCommandIsNotConstructed = errors.New(
	"RefuseMissionCommand must be created via NewRefuseMissionCommand constructor",
)

// RefuseMissionCommand represents a driver refusing a pending order. A
// targeted order falls back to global assignment.
type RefuseMissionCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRefuseMissionCommand creates a command recording a driver's refusal.
func NewRefuseMissionCommand(orderID, driverID kernel.UUID) (RefuseMissionCommand, error) {
	cmd := RefuseMissionCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDriverID(driverID),
	); err != nil {
		return RefuseMissionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RefuseMissionCommand) Validate() error {
	return c.guard.Validate(ErrRefuseMissionCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c RefuseMissionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the refusing driver's identifier.
func (c RefuseMissionCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c *RefuseMissionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RefuseMissionCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
