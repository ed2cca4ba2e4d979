package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/guard"
)

var (
	ErrCreateDraftCommandIsNotConstructed = errors.New(
		"CreateDraftCommand must be created via NewCreateDraftCommand constructor",
	)
	ErrDraftStepsAreRequired = errors.New("at least one step is required")
)

// CreateDraftCommand represents a request to create a new draft order.
// Encapsulates the whole hierarchy the office described: steps, stops,
// actions and inline transit item declarations, plus the assignment
// preferences the order will carry when submitted.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateDraftCommand(orderID, false, nil, steps)
//	if err != nil {
//	    return fmt.Errorf("invalid draft: %w", err)
//	}
//
//	handler := NewCreateDraftCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create draft: %w", err)
//	}
type CreateDraftCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	fleetOnly bool
	driverID  *kernel.UUID
	steps     []services.DraftStep

	guard guard.ConstructorGuard
}

// NewCreateDraftCommand creates a command to register a new draft order.
// Validates that the order ID is valid and at least one step is present;
// the hierarchy itself is validated by the draft builder on handling.
func NewCreateDraftCommand(
	orderID kernel.UUID,
	fleetOnly bool,
	driverID *kernel.UUID,
	steps []services.DraftStep,
) (CreateDraftCommand, error) {
	cmd := CreateDraftCommand{
		fleetOnly: fleetOnly,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDriverID(driverID),
		cmd.setSteps(steps),
	); err != nil {
		return CreateDraftCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateDraftCommandIsNotConstructed if validation fails.
func (c CreateDraftCommand) Validate() error {
	return c.guard.Validate(ErrCreateDraftCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateDraftCommand) OrderID() kernel.UUID {
	return c.orderID
}

// FleetOnly reports whether the order is restricted to the office's own fleet.
func (c CreateDraftCommand) FleetOnly() bool {
	return c.fleetOnly
}

// DriverID returns the targeted driver, nil when the order is not targeted.
func (c CreateDraftCommand) DriverID() *kernel.UUID {
	return c.driverID
}

// Steps returns the draft hierarchy as described by the office.
func (c CreateDraftCommand) Steps() []services.DraftStep {
	return c.steps
}

func (c *CreateDraftCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateDraftCommand) setDriverID(driverID *kernel.UUID) error {
	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return err
		}
	}

	c.driverID = driverID
	return nil
}

func (c *CreateDraftCommand) setSteps(steps []services.DraftStep) error {
	if len(steps) == 0 {
		return ErrDraftStepsAreRequired
	}

	c.steps = steps
	return nil
}
