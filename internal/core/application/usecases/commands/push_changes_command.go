package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrPushChangesCommandIsNotConstructed = errors.New(
	"PushChangesCommand must be created via NewPushChangesCommand constructor",
)

// PushChangesCommand represents a request to apply the order's staged edits
// to the execution record as one atomic batch. The idempotency key makes
// retried requests safe: repeating the last applied key is a no-op.
type PushChangesCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewPushChangesCommand creates a command to push the staged overlay.
// An empty idempotency key disables replay detection for this push.
func NewPushChangesCommand(orderID kernel.UUID, idempotencyKey string) (PushChangesCommand, error) {
	cmd := PushChangesCommand{
		idempotencyKey: idempotencyKey,
		guard:          guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return PushChangesCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PushChangesCommand) Validate() error {
	return c.guard.Validate(ErrPushChangesCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c PushChangesCommand) OrderID() kernel.UUID {
	return c.orderID
}

// IdempotencyKey returns the caller-chosen key identifying this push.
func (c PushChangesCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

func (c *PushChangesCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
