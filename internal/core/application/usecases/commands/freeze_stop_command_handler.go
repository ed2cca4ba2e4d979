package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// FreezeStopCommandHandler puts a stop on hold.
type FreezeStopCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewFreezeStopCommandHandler creates a handler for stop holds.
func NewFreezeStopCommandHandler(uowFactory OrderUoWFactory) FreezeStopCommandHandler {
	return FreezeStopCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the hold command.
func (h *FreezeStopCommandHandler) Handle(ctx context.Context, cmd FreezeStopCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(a *order.Order) error {
		return a.FreezeStop(cmd.StopID(), cmd.Reason())
	})
	return err
}
