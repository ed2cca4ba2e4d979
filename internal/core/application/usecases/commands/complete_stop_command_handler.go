package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// CompleteStopCommandHandler closes out a stop. The stop ends Completed when
// every action completed, Partial otherwise.
type CompleteStopCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCompleteStopCommandHandler creates a handler for stop completion.
func NewCompleteStopCommandHandler(uowFactory OrderUoWFactory) CompleteStopCommandHandler {
	return CompleteStopCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the completion command.
func (h *CompleteStopCommandHandler) Handle(ctx context.Context, cmd CompleteStopCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(a *order.Order) error {
		return a.CompleteStop(cmd.StopID())
	})
	return err
}
