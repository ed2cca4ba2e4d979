package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// FinishOrderCommandHandler closes out an accepted order and announces the
// final status.
type FinishOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewFinishOrderCommandHandler creates a handler for order finishing.
func NewFinishOrderCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) FinishOrderCommandHandler {
	return FinishOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the finish command.
func (h *FinishOrderCommandHandler) Handle(ctx context.Context, cmd FinishOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(a *order.Order) error {
		return a.FinishOrder()
	})
	if err != nil {
		return err
	}

	_ = h.publisher.PublishOrderChanged(ctx, aggregate)
	return nil
}
