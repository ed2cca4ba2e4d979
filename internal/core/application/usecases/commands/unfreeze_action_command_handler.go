package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// UnfreezeActionCommandHandler releases an action hold.
type UnfreezeActionCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewUnfreezeActionCommandHandler creates a handler for releasing action holds.
func NewUnfreezeActionCommandHandler(uowFactory OrderUoWFactory) UnfreezeActionCommandHandler {
	return UnfreezeActionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the release command.
func (h *UnfreezeActionCommandHandler) Handle(ctx context.Context, cmd UnfreezeActionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(a *order.Order) error {
		return a.UnfreezeAction(cmd.ActionID())
	})
	return err
}
