package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their status and routing state.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, the whole
	// hierarchy included: staged overlay entities round-trip like any other.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete hierarchy with its current execution state and
	// pending-change overlay.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllWithStaleRoute retrieves orders whose route is flagged for
	// recalculation. Used by the background route recalculation sweep.
	GetAllWithStaleRoute(ctx context.Context) ([]*order.Order, error)

	// GetAllPendingForDriver retrieves pending orders a driver may accept:
	// globally assigned ones plus those targeted at the given driver.
	GetAllPendingForDriver(ctx context.Context, driverID kernel.UUID) ([]*order.Order, error)
}
