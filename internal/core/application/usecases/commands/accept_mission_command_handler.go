package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// AcceptMissionCommandHandler assigns a pending order to the driver who
// accepted it.
type AcceptMissionCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewAcceptMissionCommandHandler creates a handler for mission acceptance.
func NewAcceptMissionCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) AcceptMissionCommandHandler {
	return AcceptMissionCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the acceptance command.
func (h *AcceptMissionCommandHandler) Handle(ctx context.Context, cmd AcceptMissionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(a *order.Order) error {
		return a.Accept(cmd.DriverID())
	})
	if err != nil {
		return err
	}

	_ = h.publisher.PublishOrderChanged(ctx, aggregate)
	return nil
}
