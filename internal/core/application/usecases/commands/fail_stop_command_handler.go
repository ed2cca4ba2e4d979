package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// FailStopCommandHandler fails a stop and cascades the failure to its
// remaining open actions.
type FailStopCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewFailStopCommandHandler creates a handler for stop failure.
func NewFailStopCommandHandler(uowFactory OrderUoWFactory) FailStopCommandHandler {
	return FailStopCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the failure command.
func (h *FailStopCommandHandler) Handle(ctx context.Context, cmd FailStopCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(a *order.Order) error {
		return a.FailStop(cmd.StopID(), cmd.Reason())
	})
	return err
}
