package queries

import (
	"context"

	"orderflow/internal/core/ports"
)

// GetPendingMissionsQueryHandler lists the orders offered to a driver. Unlike
// the other read models this goes through the order repository rather than
// raw SQL: the offer filter is the same one the acceptance flow relies on, so
// both sides must agree on it.
type GetPendingMissionsQueryHandler struct {
	orderRepo ports.OrderRepository
}

// NewGetPendingMissionsQueryHandler creates a handler for pending mission
// listings.
func NewGetPendingMissionsQueryHandler(orderRepo ports.OrderRepository) GetPendingMissionsQueryHandler {
	return GetPendingMissionsQueryHandler{orderRepo: orderRepo}
}

// Handle executes the query and returns the offered orders as summaries.
// Stop counts cover the execution record only; staged additions and shadow
// copies are not part of what the driver is signing up for yet.
func (h GetPendingMissionsQueryHandler) Handle(
	ctx context.Context,
	query GetPendingMissionsQuery,
) ([]GetPendingMissionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	aggregates, err := h.orderRepo.GetAllPendingForDriver(ctx, query.DriverID())
	if err != nil {
		return nil, err
	}

	missions := make([]GetPendingMissionsQueryResponse, 0, len(aggregates))
	for _, aggregate := range aggregates {
		stops := 0
		for _, step := range aggregate.Steps() {
			if step.StagedNew() {
				continue
			}
			for _, stop := range step.Stops() {
				if stop.StagedNew() || stop.OriginalID() != nil {
					continue
				}
				stops++
			}
		}
		missions = append(missions, GetPendingMissionsQueryResponse{
			ID:             aggregate.ID(),
			AssignmentMode: aggregate.AssignmentMode().String(),
			StopsTotal:     stops,
		})
	}
	return missions, nil
}
