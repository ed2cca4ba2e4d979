package commands

import (
	"context"

	"orderflow/internal/core/domain/services"
)

// UpdateDraftCommandHandler handles wholesale replacement of a draft's
// hierarchy. The replacement is assembled through the draft builder, so the
// same integrity rules apply as on creation.
type UpdateDraftCommandHandler struct {
	uowFactory OrderUoWFactory
	builder    *services.DraftBuilder
}

// NewUpdateDraftCommandHandler creates a handler for draft update operations.
func NewUpdateDraftCommandHandler(uowFactory OrderUoWFactory) UpdateDraftCommandHandler {
	return UpdateDraftCommandHandler{
		uowFactory: uowFactory,
		builder:    services.NewDraftBuilder(),
	}
}

// Handle processes the draft update command. The order must still be in
// Draft status; the domain rejects direct edits after submission.
func (h *UpdateDraftCommandHandler) Handle(ctx context.Context, cmd UpdateDraftCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	replacement, err := h.builder.Build(services.DraftInput{
		OrderID: cmd.OrderID(),
		Steps:   cmd.Steps(),
	})
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.ReplaceDraft(replacement.Steps(), replacement.TransitItems()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
