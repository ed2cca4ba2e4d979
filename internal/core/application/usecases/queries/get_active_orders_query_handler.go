package queries

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler retrieves all non-terminal orders from the
// database. Uses direct SQL queries for optimal read performance in the CQRS
// pattern; stop progress is aggregated over execution-side stops only, so
// staged additions and shadow copies never skew the counts.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for active order queries.
// Requires a GORM database connection for query execution.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all active orders.
// Returns orders in Draft, Pending or Accepted status sorted by id.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.status,
			o.driver_id,
			o.pending_change,
			o.route_stale,
			COUNT(s.id) FILTER (WHERE NOT s.staged_new AND s.original_id IS NULL),
			COUNT(s.id) FILTER (WHERE NOT s.staged_new AND s.original_id IS NULL
				AND s.status IN (?, ?, ?))
		FROM orders o
		LEFT JOIN stops s ON s.order_id = o.id
		WHERE o.status NOT IN (?, ?, ?)
		GROUP BY o.id
		ORDER BY o.id
	`,
		order.StopStatusCompleted, order.StopStatusPartial, order.StopStatusFailed,
		order.StatusDelivered, order.StatusFailed, order.StatusCancelled,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetActiveOrdersQueryResponse
		var id uuid.UUID
		var driverID *uuid.UUID
		var status order.Status

		err = rows.Scan(
			&id,
			&status,
			&driverID,
			&resp.PendingChange,
			&resp.RouteStale,
			&resp.StopsTotal,
			&resp.StopsClosed,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID
		resp.Status = status.String()

		if driverID != nil {
			driver, idErr := kernel.UUIDFromBytes(driverID[:])
			if idErr != nil {
				return nil, idErr
			}
			resp.DriverID = &driver
		}
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
