package queries

import (
	"context"
	"database/sql"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves one order with its full visit plan from the
// database. Uses direct SQL queries for optimal read performance in the CQRS
// pattern; the hierarchy is assembled from flat per-level result sets instead
// of hydrating the domain aggregate.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single order queries.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query to retrieve one order.
// Returns errs.ErrObjectNotFound when no order carries the requested id.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	response, err := h.readHeader(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	steps, err := h.readStops(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	actions, err := h.readActions(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	for i := range steps {
		for j := range steps[i].Stops {
			stop := &steps[i].Stops[j]
			stop.Actions = append(stop.Actions, actions[stop.ID]...)
		}
	}

	response.Steps = steps
	return response, nil
}

func (h GetOrderQueryHandler) readHeader(
	ctx context.Context, orderID kernel.UUID,
) (GetOrderQueryResponse, error) {
	var response GetOrderQueryResponse
	var id uuid.UUID
	var driverID *uuid.UUID
	var status order.Status

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			driver_id,
			pending_change,
			route_stale,
			last_push_key
		FROM orders
		WHERE id = ?
	`, orderID.String()).Row()

	err := row.Scan(
		&id,
		&status,
		&driverID,
		&response.PendingChange,
		&response.RouteStale,
		&response.LastPushKey,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderID", orderID)
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	response.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	response.Status = status.String()

	if driverID != nil {
		driver, err := kernel.UUIDFromBytes(driverID[:])
		if err != nil {
			return GetOrderQueryResponse{}, err
		}
		response.DriverID = &driver
	}
	return response, nil
}

func (h GetOrderQueryHandler) readStops(
	ctx context.Context, orderID kernel.UUID,
) ([]StepResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			st.id,
			st.sequence,
			st.linked,
			st.pending_change,
			s.id,
			s.sequence,
			s.address_label,
			s.status,
			s.held,
			s.pending_change,
			s.delete_required,
			s.staged_new,
			s.original_id
		FROM steps st
		LEFT JOIN stops s ON s.step_id = st.id
		WHERE st.order_id = ?
		ORDER BY st.sequence, s.sequence, s.id
	`, orderID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	steps := make([]StepResponse, 0)

	for rows.Next() {
		var step StepResponse
		var stepID uuid.UUID
		var stopID, originalID *uuid.UUID
		var stopSequence *int
		var addressLabel *string
		var stopStatus *order.StopStatus
		var held, pendingChange, deleteRequired, stagedNew *bool

		err = rows.Scan(
			&stepID,
			&step.Sequence,
			&step.Linked,
			&step.PendingChange,
			&stopID,
			&stopSequence,
			&addressLabel,
			&stopStatus,
			&held,
			&pendingChange,
			&deleteRequired,
			&stagedNew,
			&originalID,
		)
		if err != nil {
			return nil, err
		}

		step.ID, err = kernel.UUIDFromBytes(stepID[:])
		if err != nil {
			return nil, err
		}

		if len(steps) == 0 || !steps[len(steps)-1].ID.IsEqual(step.ID) {
			steps = append(steps, step)
		}
		if stopID == nil {
			continue
		}

		stop := StopResponse{
			Sequence:       *stopSequence,
			AddressLabel:   *addressLabel,
			Status:         stopStatus.String(),
			Held:           *held,
			PendingChange:  *pendingChange,
			DeleteRequired: *deleteRequired,
			StagedNew:      *stagedNew,
			Actions:        make([]ActionResponse, 0),
		}
		stop.ID, err = kernel.UUIDFromBytes(stopID[:])
		if err != nil {
			return nil, err
		}
		if originalID != nil {
			original, idErr := kernel.UUIDFromBytes(originalID[:])
			if idErr != nil {
				return nil, idErr
			}
			stop.OriginalID = &original
		}

		current := &steps[len(steps)-1]
		current.Stops = append(current.Stops, stop)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

func (h GetOrderQueryHandler) readActions(
	ctx context.Context, orderID kernel.UUID,
) (map[kernel.UUID][]ActionResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			stop_id,
			kind,
			quantity,
			status,
			pending_change,
			delete_required,
			staged_new,
			original_id
		FROM actions
		WHERE order_id = ?
		ORDER BY id
	`, orderID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	actions := make(map[kernel.UUID][]ActionResponse)

	for rows.Next() {
		var action ActionResponse
		var id, stopID uuid.UUID
		var originalID *uuid.UUID
		var kind order.ActionKind
		var status order.ActionStatus

		err = rows.Scan(
			&id,
			&stopID,
			&kind,
			&action.Quantity,
			&status,
			&action.PendingChange,
			&action.DeleteRequired,
			&action.StagedNew,
			&originalID,
		)
		if err != nil {
			return nil, err
		}

		action.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		action.Kind = kind.String()
		action.Status = status.String()

		if originalID != nil {
			original, idErr := kernel.UUIDFromBytes(originalID[:])
			if idErr != nil {
				return nil, idErr
			}
			action.OriginalID = &original
		}

		ownerID, err := kernel.UUIDFromBytes(stopID[:])
		if err != nil {
			return nil, err
		}
		actions[ownerID] = append(actions[ownerID], action)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return actions, nil
}
