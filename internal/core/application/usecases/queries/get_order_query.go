package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order with its full visit plan: every step,
// stop and action, overlay markers included, so the office can see staged
// edits alongside the execution record.
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query to retrieve a single order by id.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	query := GetOrderQuery{guard: guard.NewConstructorGuard()}

	if err := query.setOrderID(orderID); err != nil {
		return GetOrderQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderQueryIsNotConstructed if validation fails.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the unique identifier of the requested order.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetOrderQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// GetOrderQueryResponse represents one order in the read model, visit plan
// included.
type GetOrderQueryResponse struct {
	ID            kernel.UUID
	Status        string
	DriverID      *kernel.UUID
	PendingChange bool
	RouteStale    bool
	LastPushKey   string
	Steps         []StepResponse
}

// StepResponse represents one step of the visit plan.
type StepResponse struct {
	ID            kernel.UUID
	Sequence      int
	Linked        bool
	PendingChange bool
	Stops         []StopResponse
}

// StopResponse represents one stop of the visit plan, overlay markers
// included. OriginalID is set on staged shadow copies.
type StopResponse struct {
	ID             kernel.UUID
	Sequence       int
	AddressLabel   string
	Status         string
	Held           bool
	PendingChange  bool
	DeleteRequired bool
	StagedNew      bool
	OriginalID     *kernel.UUID
	Actions        []ActionResponse
}

// ActionResponse represents one action at a stop.
type ActionResponse struct {
	ID             kernel.UUID
	Kind           string
	Quantity       int
	Status         string
	PendingChange  bool
	DeleteRequired bool
	StagedNew      bool
	OriginalID     *kernel.UUID
}
