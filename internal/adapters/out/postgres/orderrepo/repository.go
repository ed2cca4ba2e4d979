package orderrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order aggregate with its whole hierarchy.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order aggregate. Child rows are replaced
// wholesale: pushes and staged edits restructure the hierarchy, so a
// row-level diff buys nothing over delete and reinsert inside the
// transaction.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).
		Omit("Steps", "TransitItems").
		Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := r.deleteChildren(db, dto.ID); err != nil {
		return err
	}
	if err := r.insertChildren(db, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) deleteChildren(db *gorm.DB, orderID any) error {
	if err := db.Where("action_id IN (?)",
		db.Session(&gorm.Session{NewDB: true}).Model(&ActionDTO{}).Select("id").Where("order_id = ?", orderID),
	).Delete(&ConfirmationRuleDTO{}).Error; err != nil {
		return err
	}
	for _, model := range []any{&ActionDTO{}, &StopDTO{}, &StepDTO{}, &TransitItemDTO{}} {
		if err := db.Where("order_id = ?", orderID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormOrderRepository) insertChildren(db *gorm.DB, dto OrderDTO) error {
	if len(dto.Steps) > 0 {
		if err := db.Create(&dto.Steps).Error; err != nil {
			return err
		}
	}
	if len(dto.TransitItems) > 0 {
		if err := db.Create(&dto.TransitItems).Error; err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves an order by ID with its full hierarchy. Children load in
// stored position order so staged shadow copies stay adjacent to their
// originals.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.preloaded(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllWithStaleRoute retrieves all orders flagged for route recalculation.
func (r *GormOrderRepository) GetAllWithStaleRoute(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.preloaded(ctx).
		Find(&dtos, "route_stale = ? AND status NOT IN (?, ?, ?)",
			true, order.StatusDelivered, order.StatusFailed, order.StatusCancelled).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainAll(dtos)
}

// GetAllPendingForDriver retrieves all submitted orders the given driver may
// accept: global offers plus orders targeted at that driver.
func (r *GormOrderRepository) GetAllPendingForDriver(
	ctx context.Context, driverID kernel.UUID,
) ([]*order.Order, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.preloaded(ctx).
		Find(&dtos, "status = ? AND (driver_id IS NULL OR driver_id = ?)",
			order.StatusPending, driverID.Bytes()).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainAll(dtos)
}

func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	byPosition := func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}
	return r.db.WithContext(ctx).
		Preload("Steps", byPosition).
		Preload("Steps.Stops", byPosition).
		Preload("Steps.Stops.Actions", byPosition).
		Preload("Steps.Stops.Actions.Rules", byPosition).
		Preload("TransitItems")
}

func (r *GormOrderRepository) toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, aggregate)
	}
	return orders, nil
}
