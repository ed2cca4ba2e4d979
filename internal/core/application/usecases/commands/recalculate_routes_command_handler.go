package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// RecalculateRoutesCommandHandler recomputes routes for orders flagged stale.
// Each order is handled in its own transaction: a routing failure for one
// order leaves it flagged for the next sweep and never blocks the rest.
type RecalculateRoutesCommandHandler struct {
	uowFactory OrderUoWFactory
	planner    ports.RoutePlanner
	publisher  ports.EventPublisher
}

// NewRecalculateRoutesCommandHandler creates a handler for route
// recalculation sweeps.
func NewRecalculateRoutesCommandHandler(
	uowFactory OrderUoWFactory,
	planner ports.RoutePlanner,
	publisher ports.EventPublisher,
) RecalculateRoutesCommandHandler {
	return RecalculateRoutesCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
		publisher:  publisher,
	}
}

// Handle processes one sweep. Returns the first discovery error; individual
// recalculation failures are skipped.
func (h *RecalculateRoutesCommandHandler) Handle(ctx context.Context, cmd RecalculateRoutesCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	stale, err := uow.OrderRepository().GetAllWithStaleRoute(ctx)
	if rollbackErr := uow.Rollback(ctx); rollbackErr != nil && err == nil {
		err = rollbackErr
	}
	if err != nil {
		return err
	}

	for _, aggregate := range stale {
		if err := h.recalculate(ctx, aggregate); err != nil {
			continue
		}
	}
	return nil
}

func (h *RecalculateRoutesCommandHandler) recalculate(ctx context.Context, stale *order.Order) error {
	points := stale.RoutePoints()
	if len(points) < 2 {
		return nil
	}

	route, err := h.planner.ComputeRoute(ctx, points)
	if err != nil {
		return err
	}

	// Reload inside the transaction so concurrent field progress between the
	// sweep's listing and this write is not overwritten.
	aggregate, err := mutateOrder(ctx, h.uowFactory, stale.ID(), func(a *order.Order) error {
		a.SetRoute(route)
		return nil
	})
	if err != nil {
		return err
	}

	_ = h.publisher.PublishRouteUpdated(ctx, aggregate)
	return nil
}
