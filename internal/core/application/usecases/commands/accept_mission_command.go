package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrAcceptMissionCommandIsNotConstructed = errors.New(
	"AcceptMissionCommand must be created via NewAcceptMissionCommand constructor",
)

// AcceptMissionCommand represents a driver accepting a pending order.
type AcceptMissionCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptMissionCommand creates a command recording a driver's acceptance.
func NewAcceptMissionCommand(orderID, driverID kernel.UUID) (AcceptMissionCommand, error) {
	cmd := AcceptMissionCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDriverID(driverID),
	); err != nil {
		return AcceptMissionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptMissionCommand) Validate() error {
	return c.guard.Validate(ErrAcceptMissionCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c AcceptMissionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the accepting driver's identifier.
func (c AcceptMissionCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c *AcceptMissionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AcceptMissionCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
