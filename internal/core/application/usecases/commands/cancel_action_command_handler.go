package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// CancelActionCommandHandler cancels an action.
type CancelActionCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCancelActionCommandHandler creates a handler for action cancellation.
func NewCancelActionCommandHandler(uowFactory OrderUoWFactory) CancelActionCommandHandler {
	return CancelActionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancellation command.
func (h *CancelActionCommandHandler) Handle(ctx context.Context, cmd CancelActionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(a *order.Order) error {
		return a.CancelAction(cmd.ActionID(), cmd.Reason())
	})
	return err
}
