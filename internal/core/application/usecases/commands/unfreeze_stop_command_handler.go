package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// UnfreezeStopCommandHandler releases a stop hold.
type UnfreezeStopCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewUnfreezeStopCommandHandler creates a handler for releasing stop holds.
func NewUnfreezeStopCommandHandler(uowFactory OrderUoWFactory) UnfreezeStopCommandHandler {
	return UnfreezeStopCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the release command.
func (h *UnfreezeStopCommandHandler) Handle(ctx context.Context, cmd UnfreezeStopCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(a *order.Order) error {
		return a.UnfreezeStop(cmd.StopID())
	})
	return err
}
