package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// PushChangesCommandHandler applies the staged overlay inside one unit of
// work. Conflicting edits are dropped, not fatal: the batch commits with
// whatever could land, and the outcome lists the dropped edits so the office
// can restage against fresh state.
type PushChangesCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewPushChangesCommandHandler creates a handler for push operations.
func NewPushChangesCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) PushChangesCommandHandler {
	return PushChangesCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the push command and returns the push outcome. Dropped
// edits are reported as a PushConflictError alongside the outcome after the
// batch commits, so callers can detect the partial application with
// errors.Is(err, errs.ErrPushConflict) while still seeing what landed.
func (h *PushChangesCommandHandler) Handle(ctx context.Context, cmd PushChangesCommand) (order.PushOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return order.PushOutcome{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.PushOutcome{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return order.PushOutcome{}, err
	}

	outcome, err := aggregate.Push(cmd.IdempotencyKey())
	if err != nil {
		return order.PushOutcome{}, err
	}

	if outcome.Replayed {
		return outcome, nil
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return order.PushOutcome{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.PushOutcome{}, err
	}

	if outcome.Applied > 0 {
		_ = h.publisher.PublishOrderChanged(ctx, aggregate)
	}
	if len(outcome.Conflicts) > 0 {
		return outcome, errs.NewPushConflictError(outcome.Applied, outcome.Conflicts)
	}
	return outcome, nil
}
