package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
)

// CompleteActionCommandHandler completes an action after evaluating its
// confirmation rules. Pickup-phase evaluations capture reference values that
// delivery-phase comparisons verify against later.
type CompleteActionCommandHandler struct {
	uowFactory OrderUoWFactory
	evaluator  *services.ProofEvaluator
}

// NewCompleteActionCommandHandler creates a handler for action completion.
// The photo matcher backs comparing photo rules.
func NewCompleteActionCommandHandler(uowFactory OrderUoWFactory, matcher services.PhotoMatcher) CompleteActionCommandHandler {
	return CompleteActionCommandHandler{
		uowFactory: uowFactory,
		evaluator:  services.NewProofEvaluator(matcher),
	}
}

// Handle processes the completion command. Proof evaluation happens inside
// the same transaction as the status transition, so a failed proof leaves the
// action untouched.
func (h *CompleteActionCommandHandler) Handle(ctx context.Context, cmd CompleteActionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(a *order.Order) error {
		action, err := a.Action(cmd.ActionID())
		if err != nil {
			return err
		}

		captured, err := h.evaluator.Evaluate(action, cmd.Proofs())
		if err != nil {
			return err
		}

		return a.CompleteAction(cmd.ActionID(), captured)
	})
	return err
}
