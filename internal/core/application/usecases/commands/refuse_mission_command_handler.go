package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// RefuseMissionCommandHandler records a driver's refusal of a pending order.
type RefuseMissionCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewRefuseMissionCommandHandler creates a handler for mission refusal.
func NewRefuseMissionCommandHandler(uowFactory OrderUoWFactory) RefuseMissionCommandHandler {
	return RefuseMissionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the refusal command.
func (h *RefuseMissionCommandHandler) Handle(ctx context.Context, cmd RefuseMissionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(a *order.Order) error {
		return a.Refuse(cmd.DriverID())
	})
	return err
}
