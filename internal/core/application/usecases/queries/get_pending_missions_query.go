package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetPendingMissionsQueryIsNotConstructed = errors.New(
	"GetPendingMissionsQuery must be created via NewGetPendingMissionsQuery constructor",
)

// GetPendingMissionsQuery retrieves the submitted orders a driver may accept:
// global offers plus orders pinned to that driver.
type GetPendingMissionsQuery struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetPendingMissionsQuery creates a query listing the orders offered to a
// driver.
func NewGetPendingMissionsQuery(driverID kernel.UUID) (GetPendingMissionsQuery, error) {
	query := GetPendingMissionsQuery{guard: guard.NewConstructorGuard()}

	if err := query.setDriverID(driverID); err != nil {
		return GetPendingMissionsQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetPendingMissionsQueryIsNotConstructed if validation fails.
func (q GetPendingMissionsQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingMissionsQueryIsNotConstructed)
}

// DriverID returns the driver the listing is for.
func (q GetPendingMissionsQuery) DriverID() kernel.UUID {
	return q.driverID
}

func (q *GetPendingMissionsQuery) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	q.driverID = driverID
	return nil
}

// GetPendingMissionsQueryResponse represents one offered order in the read
// model.
type GetPendingMissionsQueryResponse struct {
	ID             kernel.UUID
	AssignmentMode string
	StopsTotal     int
}
