package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// FailActionCommandHandler fails an action.
type FailActionCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewFailActionCommandHandler creates a handler for action failure.
func NewFailActionCommandHandler(uowFactory OrderUoWFactory) FailActionCommandHandler {
	return FailActionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the failure command.
func (h *FailActionCommandHandler) Handle(ctx context.Context, cmd FailActionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(a *order.Order) error {
		return a.FailAction(cmd.ActionID(), cmd.Reason())
	})
	return err
}
