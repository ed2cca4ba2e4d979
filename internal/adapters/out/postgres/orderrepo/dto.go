// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. This package implements the repository pattern for the
// order domain aggregate, handling the conversion between the full domain
// hierarchy (order, steps, stops, actions, transit items) and its relational
// representation, pending-change overlay markers included.
package orderrepo

import (
	"encoding/json"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Child rows carry an explicit position column because slice order is
// meaningful: staged shadow copies sit right after their originals, which a
// sort by domain sequence alone would not preserve.
type OrderDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status         int       `gorm:"index"`
	AssignmentMode int
	DriverID       *uuid.UUID `gorm:"type:uuid;index"`
	RouteGeometry  string
	RouteLegs      string
	RouteStale     bool `gorm:"index"`
	PendingChange  bool
	LastPushKey    string
	History        string

	Steps        []StepDTO        `gorm:"foreignKey:OrderID;references:ID"`
	TransitItems []TransitItemDTO `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// StepDTO represents one step row. PendingLinked holds a staged value for the
// linked flag, applied on push.
type StepDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;index"`
	Position       int
	Sequence       int
	Linked         bool
	PendingChange  bool
	DeleteRequired bool
	StagedNew      bool
	OriginalID     *uuid.UUID `gorm:"type:uuid"`
	PendingLinked  *bool

	Stops []StopDTO `gorm:"foreignKey:StepID;references:ID"`
}

// TableName specifies the database table name for step entities.
func (StepDTO) TableName() string {
	return "steps"
}

// StopDTO represents one stop row. OrderID is denormalized so read-model
// queries can aggregate stops without joining through steps.
type StopDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	StepID           uuid.UUID `gorm:"type:uuid;index"`
	OrderID          uuid.UUID `gorm:"type:uuid;index"`
	Position         int
	Sequence         int
	AddressLabel     string
	AddressFormatted string
	AddressLat       *float64
	AddressLng       *float64
	WindowStart      *time.Time
	WindowEnd        *time.Time
	ContactName      string
	ContactPhone     string
	ContactAvatarURL string
	Status           int
	Held             bool
	History          string
	PendingChange    bool
	DeleteRequired   bool
	StagedNew        bool
	OriginalID       *uuid.UUID `gorm:"type:uuid"`

	Actions []ActionDTO `gorm:"foreignKey:StopID;references:ID"`
}

// TableName specifies the database table name for stop entities.
func (StopDTO) TableName() string {
	return "stops"
}

// ActionDTO represents one action row.
type ActionDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	StopID         uuid.UUID `gorm:"type:uuid;index"`
	OrderID        uuid.UUID `gorm:"type:uuid;index"`
	Position       int
	Kind           int
	Quantity       int
	ServiceTimeSec int
	TransitItemID  *uuid.UUID `gorm:"type:uuid"`
	Status         int
	FrozenFrom     int
	History        string
	PendingChange  bool
	DeleteRequired bool
	StagedNew      bool
	OriginalID     *uuid.UUID `gorm:"type:uuid"`

	Rules []ConfirmationRuleDTO `gorm:"foreignKey:ActionID;references:ID"`
}

// TableName specifies the database table name for action entities.
func (ActionDTO) TableName() string {
	return "actions"
}

// ConfirmationRuleDTO represents one confirmation rule row. Rules are keyed
// by action and name; Reference holds the value captured at pickup for
// comparing rules.
type ConfirmationRuleDTO struct {
	ActionID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"primaryKey"`
	Position   int
	Kind       int
	AtPickup   bool
	AtDelivery bool
	Compare    bool
	Reference  string
}

// TableName specifies the database table name for confirmation rule entities.
func (ConfirmationRuleDTO) TableName() string {
	return "confirmation_rules"
}

// TransitItemDTO represents one transit item row. Tag lists are stored as
// JSON text.
type TransitItemDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID `gorm:"type:uuid;index"`
	Name            string
	Description     string
	Packaging       int
	WeightKg        float64
	VolumeM3        float64
	LengthCm        float64
	WidthCm         float64
	HeightCm        float64
	UnitPriceCents  int64
	RequirementTags string
	ProductTags     string
}

// TableName specifies the database table name for transit item entities.
func (TransitItemDTO) TableName() string {
	return "transit_items"
}

func historyToJSON(history []order.StatusHistoryEntry) string {
	if len(history) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(history)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func historyFromJSON(raw string) ([]order.StatusHistoryEntry, error) {
	if raw == "" {
		return nil, nil
	}
	var history []order.StatusHistoryEntry
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, err
	}
	return history, nil
}

func tagsToJSON(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func tagsFromJSON(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func legsToJSON(legs []order.RouteLeg) string {
	if len(legs) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(legs)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func legsFromJSON(raw string) ([]order.RouteLeg, error) {
	if raw == "" {
		return nil, nil
	}
	var legs []order.RouteLeg
	if err := json.Unmarshal([]byte(raw), &legs); err != nil {
		return nil, err
	}
	return legs, nil
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func kernelUUIDPtr(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	converted, err := kernel.UUIDFromBytes((*id)[:])
	if err != nil {
		return nil, err
	}
	return &converted, nil
}

// fromDomain converts an order domain aggregate to its database
// representation, the whole hierarchy included.
func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:             aggregate.ID().Bytes(),
		Status:         int(aggregate.Status()),
		AssignmentMode: int(aggregate.AssignmentMode()),
		DriverID:       uuidPtr(aggregate.DriverID()),
		RouteGeometry:  aggregate.Route().Geometry,
		RouteLegs:      legsToJSON(aggregate.Route().Legs),
		RouteStale:     aggregate.RouteStale(),
		PendingChange:  aggregate.PendingChange(),
		LastPushKey:    aggregate.LastPushKey(),
		History:        historyToJSON(aggregate.History()),
	}

	for position, step := range aggregate.Steps() {
		dto.Steps = append(dto.Steps, stepFromDomain(aggregate.ID().Bytes(), position, step))
	}
	for _, item := range aggregate.TransitItems() {
		dto.TransitItems = append(dto.TransitItems, itemFromDomain(aggregate.ID().Bytes(), item))
	}
	return dto
}

func stepFromDomain(orderID uuid.UUID, position int, step *order.Step) StepDTO {
	dto := StepDTO{
		ID:             step.ID().Bytes(),
		OrderID:        orderID,
		Position:       position,
		Sequence:       step.Sequence(),
		Linked:         step.Linked(),
		PendingChange:  step.PendingChange(),
		DeleteRequired: step.DeleteRequired(),
		StagedNew:      step.StagedNew(),
		OriginalID:     uuidPtr(step.OriginalID()),
		PendingLinked:  step.PendingLinked(),
	}

	for stopPosition, stop := range step.Stops() {
		dto.Stops = append(dto.Stops, stopFromDomain(orderID, step.ID().Bytes(), stopPosition, stop))
	}
	return dto
}

func stopFromDomain(orderID, stepID uuid.UUID, position int, stop *order.Stop) StopDTO {
	dto := StopDTO{
		ID:               stop.ID().Bytes(),
		StepID:           stepID,
		OrderID:          orderID,
		Position:         position,
		Sequence:         stop.Sequence(),
		AddressLabel:     stop.Address().Label,
		AddressFormatted: stop.Address().Formatted,
		ContactName:      stop.Contact().Name,
		ContactPhone:     stop.Contact().Phone,
		ContactAvatarURL: stop.Contact().AvatarURL,
		Status:           int(stop.Status()),
		Held:             stop.Held(),
		History:          historyToJSON(stop.History()),
		PendingChange:    stop.PendingChange(),
		DeleteRequired:   stop.DeleteRequired(),
		StagedNew:        stop.StagedNew(),
		OriginalID:       uuidPtr(stop.OriginalID()),
	}

	if point := stop.Address().Point; point != nil {
		lat, lng := point.Lat(), point.Lng()
		dto.AddressLat = &lat
		dto.AddressLng = &lng
	}
	if window := stop.Window(); window != nil {
		start, end := window.Start(), window.End()
		dto.WindowStart = &start
		dto.WindowEnd = &end
	}

	for actionPosition, action := range stop.Actions() {
		dto.Actions = append(dto.Actions, actionFromDomain(orderID, stop.ID().Bytes(), actionPosition, action))
	}
	return dto
}

func actionFromDomain(orderID, stopID uuid.UUID, position int, action *order.Action) ActionDTO {
	dto := ActionDTO{
		ID:             action.ID().Bytes(),
		StopID:         stopID,
		OrderID:        orderID,
		Position:       position,
		Kind:           int(action.Kind()),
		Quantity:       action.Quantity(),
		ServiceTimeSec: action.ServiceTimeSec(),
		TransitItemID:  uuidPtr(action.TransitItemID()),
		Status:         int(action.Status()),
		FrozenFrom:     int(action.FrozenFrom()),
		History:        historyToJSON(action.History()),
		PendingChange:  action.PendingChange(),
		DeleteRequired: action.DeleteRequired(),
		StagedNew:      action.StagedNew(),
		OriginalID:     uuidPtr(action.OriginalID()),
	}

	for rulePosition, rule := range action.Rules() {
		dto.Rules = append(dto.Rules, ConfirmationRuleDTO{
			ActionID:   action.ID().Bytes(),
			Name:       rule.Name(),
			Position:   rulePosition,
			Kind:       int(rule.Kind()),
			AtPickup:   rule.AtPickup(),
			AtDelivery: rule.AtDelivery(),
			Compare:    rule.Compare(),
			Reference:  rule.Reference(),
		})
	}
	return dto
}

func itemFromDomain(orderID uuid.UUID, item *order.TransitItem) TransitItemDTO {
	return TransitItemDTO{
		ID:              item.ID().Bytes(),
		OrderID:         orderID,
		Name:            item.Name(),
		Description:     item.Description(),
		Packaging:       int(item.Packaging()),
		WeightKg:        item.WeightKg(),
		VolumeM3:        item.VolumeM3(),
		LengthCm:        item.DimensionsCm().LengthCm,
		WidthCm:         item.DimensionsCm().WidthCm,
		HeightCm:        item.DimensionsCm().HeightCm,
		UnitPriceCents:  item.UnitPriceCents(),
		RequirementTags: tagsToJSON(item.RequirementTags()),
		ProductTags:     tagsToJSON(item.ProductTags()),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete hierarchy using the Restore constructors.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernelUUIDPtr(dto.DriverID)
	if err != nil {
		return nil, err
	}
	history, err := historyFromJSON(dto.History)
	if err != nil {
		return nil, err
	}
	legs, err := legsFromJSON(dto.RouteLegs)
	if err != nil {
		return nil, err
	}

	steps := make([]*order.Step, 0, len(dto.Steps))
	for _, stepDTO := range dto.Steps {
		step, stepErr := stepToDomain(stepDTO)
		if stepErr != nil {
			return nil, stepErr
		}
		steps = append(steps, step)
	}

	items := make([]*order.TransitItem, 0, len(dto.TransitItems))
	for _, itemDTO := range dto.TransitItems {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id,
		order.Status(dto.Status),
		order.AssignmentMode(dto.AssignmentMode),
		driverID,
		steps,
		items,
		order.Route{Geometry: dto.RouteGeometry, Legs: legs},
		dto.RouteStale,
		dto.PendingChange,
		dto.LastPushKey,
		history,
	)
}

func stepToDomain(dto StepDTO) (*order.Step, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	originalID, err := kernelUUIDPtr(dto.OriginalID)
	if err != nil {
		return nil, err
	}

	stops := make([]*order.Stop, 0, len(dto.Stops))
	for _, stopDTO := range dto.Stops {
		stop, stopErr := stopToDomain(stopDTO)
		if stopErr != nil {
			return nil, stopErr
		}
		stops = append(stops, stop)
	}

	return order.RestoreStep(id, dto.Sequence, dto.Linked, stops, order.StagingMarkers{
		PendingChange:  dto.PendingChange,
		DeleteRequired: dto.DeleteRequired,
		StagedNew:      dto.StagedNew,
		OriginalID:     originalID,
		PendingLinked:  dto.PendingLinked,
	})
}

func stopToDomain(dto StopDTO) (*order.Stop, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	originalID, err := kernelUUIDPtr(dto.OriginalID)
	if err != nil {
		return nil, err
	}
	history, err := historyFromJSON(dto.History)
	if err != nil {
		return nil, err
	}

	address := order.Address{
		Label:     dto.AddressLabel,
		Formatted: dto.AddressFormatted,
	}
	if dto.AddressLat != nil && dto.AddressLng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.AddressLat, *dto.AddressLng)
		if pointErr != nil {
			return nil, pointErr
		}
		address.Point = &point
	}

	var window *kernel.TimeWindow
	if dto.WindowStart != nil && dto.WindowEnd != nil {
		w, windowErr := kernel.NewTimeWindow(*dto.WindowStart, *dto.WindowEnd)
		if windowErr != nil {
			return nil, windowErr
		}
		window = &w
	}

	actions := make([]*order.Action, 0, len(dto.Actions))
	for _, actionDTO := range dto.Actions {
		action, actionErr := actionToDomain(actionDTO)
		if actionErr != nil {
			return nil, actionErr
		}
		actions = append(actions, action)
	}

	contact := order.Contact{
		Name:      dto.ContactName,
		Phone:     dto.ContactPhone,
		AvatarURL: dto.ContactAvatarURL,
	}

	return order.RestoreStop(
		id,
		dto.Sequence,
		address,
		window,
		contact,
		actions,
		order.StopStatus(dto.Status),
		dto.Held,
		history,
		order.StagingMarkers{
			PendingChange:  dto.PendingChange,
			DeleteRequired: dto.DeleteRequired,
			StagedNew:      dto.StagedNew,
			OriginalID:     originalID,
		},
	)
}

func actionToDomain(dto ActionDTO) (*order.Action, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	originalID, err := kernelUUIDPtr(dto.OriginalID)
	if err != nil {
		return nil, err
	}
	transitItemID, err := kernelUUIDPtr(dto.TransitItemID)
	if err != nil {
		return nil, err
	}
	history, err := historyFromJSON(dto.History)
	if err != nil {
		return nil, err
	}

	rules := make([]*order.ConfirmationRule, 0, len(dto.Rules))
	for _, ruleDTO := range dto.Rules {
		rule, ruleErr := order.RestoreConfirmationRule(
			ruleDTO.Name,
			order.ProofKind(ruleDTO.Kind),
			ruleDTO.AtPickup,
			ruleDTO.AtDelivery,
			ruleDTO.Compare,
			ruleDTO.Reference,
		)
		if ruleErr != nil {
			return nil, ruleErr
		}
		rules = append(rules, rule)
	}

	return order.RestoreAction(
		id,
		order.ActionKind(dto.Kind),
		dto.Quantity,
		dto.ServiceTimeSec,
		transitItemID,
		rules,
		order.ActionStatus(dto.Status),
		order.ActionStatus(dto.FrozenFrom),
		history,
		order.StagingMarkers{
			PendingChange:  dto.PendingChange,
			DeleteRequired: dto.DeleteRequired,
			StagedNew:      dto.StagedNew,
			OriginalID:     originalID,
		},
	)
}

func itemToDomain(dto TransitItemDTO) (*order.TransitItem, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	requirementTags, err := tagsFromJSON(dto.RequirementTags)
	if err != nil {
		return nil, err
	}
	productTags, err := tagsFromJSON(dto.ProductTags)
	if err != nil {
		return nil, err
	}

	return order.RestoreTransitItem(
		id,
		dto.Name,
		dto.Description,
		order.PackagingType(dto.Packaging),
		dto.WeightKg,
		dto.VolumeM3,
		order.Dimensions{LengthCm: dto.LengthCm, WidthCm: dto.WidthCm, HeightCm: dto.HeightCm},
		dto.UnitPriceCents,
		requirementTags,
		productTags,
	)
}
