package commands

import (
	"errors"

	"orderflow/internal/pkg/guard"
)

var ErrRecalculateRoutesCommandIsNotConstructed = errors.New(
	"RecalculateRoutesCommand must be created via NewRecalculateRoutesCommand constructor",
)

// RecalculateRoutesCommand triggers one sweep over the orders whose route is
// flagged stale. Carries no payload; the handler discovers the work itself.
type RecalculateRoutesCommand struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

// NewRecalculateRoutesCommand creates a command for one recalculation sweep.
func NewRecalculateRoutesCommand() (RecalculateRoutesCommand, error) {
	return RecalculateRoutesCommand{guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c RecalculateRoutesCommand) Validate() error {
	return c.guard.Validate(ErrRecalculateRoutesCommandIsNotConstructed)
}
