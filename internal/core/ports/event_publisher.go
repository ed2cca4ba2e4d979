package ports

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// EventPublisher notifies interested parties about order changes.
// Publishing is fire-and-forget from the domain's point of view: a delivery
// failure must never fail the business operation that triggered it.
type EventPublisher interface {
	// PublishOrderChanged announces a lifecycle or push-applied structure change.
	PublishOrderChanged(ctx context.Context, aggregate *order.Order) error

	// PublishRouteUpdated announces a completed route recalculation.
	PublishRouteUpdated(ctx context.Context, aggregate *order.Order) error
}
