package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// FreezeActionCommandHandler puts an action on hold, remembering its status
// for a later unfreeze.
type FreezeActionCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewFreezeActionCommandHandler creates a handler for action holds.
func NewFreezeActionCommandHandler(uowFactory OrderUoWFactory) FreezeActionCommandHandler {
	return FreezeActionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the hold command.
func (h *FreezeActionCommandHandler) Handle(ctx context.Context, cmd FreezeActionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(a *order.Order) error {
		return a.FreezeAction(cmd.ActionID(), cmd.Reason())
	})
	return err
}
