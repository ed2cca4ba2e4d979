package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// RoutePlanner computes a driving route through the given points, in order.
// Implementations call an external routing engine; route recalculation is
// asynchronous, so callers must tolerate transient failures and retry on the
// next sweep.
type RoutePlanner interface {
	ComputeRoute(ctx context.Context, points []kernel.GeoPoint) (order.Route, error)
}
