package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// ArriveAtStopCommandHandler advances a stop and its pending actions to
// Arrived. Linked-step ordering is enforced by the aggregate.
type ArriveAtStopCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewArriveAtStopCommandHandler creates a handler for stop arrival.
func NewArriveAtStopCommandHandler(uowFactory OrderUoWFactory) ArriveAtStopCommandHandler {
	return ArriveAtStopCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the arrival command.
func (h *ArriveAtStopCommandHandler) Handle(ctx context.Context, cmd ArriveAtStopCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(a *order.Order) error {
		return a.ArriveAtStop(cmd.StopID())
	})
	return err
}
