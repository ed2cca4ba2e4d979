package commands

import (
	"context"

	"orderflow/internal/core/domain/services"
)

// CreateDraftCommandHandler handles the business logic for draft creation.
// Assembles the hierarchy through the draft builder and persists the new
// order in Draft status.
type CreateDraftCommandHandler struct {
	uowFactory OrderUoWFactory
	builder    *services.DraftBuilder
}

// NewCreateDraftCommandHandler creates a handler for draft creation operations.
// Requires an OrderUoWFactory for transactional persistence.
func NewCreateDraftCommandHandler(uowFactory OrderUoWFactory) CreateDraftCommandHandler {
	return CreateDraftCommandHandler{
		uowFactory: uowFactory,
		builder:    services.NewDraftBuilder(),
	}
}

// Handle processes the draft creation command.
// Uses a transaction to ensure the order is properly persisted or rolled back on error.
func (h *CreateDraftCommandHandler) Handle(ctx context.Context, cmd CreateDraftCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := h.builder.Build(services.DraftInput{
		OrderID:   cmd.OrderID(),
		FleetOnly: cmd.FleetOnly(),
		DriverID:  cmd.DriverID(),
		Steps:     cmd.Steps(),
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

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
