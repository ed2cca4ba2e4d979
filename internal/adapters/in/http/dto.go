package http

import (
	"fmt"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
)

// Error is the common error response body.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateDraftRequest is the body of POST /api/v1/orders.
type CreateDraftRequest struct {
	FleetOnly bool        `json:"fleet_only"`
	DriverID  *string     `json:"driver_id,omitempty"`
	Steps     []DraftStep `json:"steps"`
}

// UpdateDraftRequest is the body of PUT /api/v1/orders/:orderId/draft.
type UpdateDraftRequest struct {
	Steps []DraftStep `json:"steps"`
}

// DraftStep describes one step of a draft hierarchy.
type DraftStep struct {
	Linked bool        `json:"linked"`
	Stops  []DraftStop `json:"stops"`
}

// DraftStop describes one stop of a draft hierarchy.
type DraftStop struct {
	Address Address       `json:"address"`
	Window  *TimeWindow   `json:"window,omitempty"`
	Contact Contact       `json:"contact"`
	Actions []DraftAction `json:"actions"`
}

// Address describes where a stop happens. Lat/Lng are optional until the
// address is geocoded.
type Address struct {
	Label     string   `json:"label"`
	Formatted string   `json:"formatted,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
}

// TimeWindow bounds when a stop should be visited.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contact is the person to meet at a stop.
type Contact struct {
	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// DraftAction describes one action of a draft hierarchy. Pickups declare
// their item inline; deliveries reference a pickup's item by its local id.
type DraftAction struct {
	Kind           string     `json:"kind"`
	Quantity       int        `json:"quantity"`
	ServiceTimeSec int        `json:"service_time_sec,omitempty"`
	Item           *DraftItem `json:"item,omitempty"`
	ItemRef        string     `json:"item_ref,omitempty"`
	Rules          []Rule     `json:"rules,omitempty"`
}

// DraftItem declares a transit item inline on a pickup action.
type DraftItem struct {
	LocalID         string   `json:"local_id"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Packaging       string   `json:"packaging"`
	WeightKg        float64  `json:"weight_kg"`
	VolumeM3        float64  `json:"volume_m3"`
	LengthCm        float64  `json:"length_cm,omitempty"`
	WidthCm         float64  `json:"width_cm,omitempty"`
	HeightCm        float64  `json:"height_cm,omitempty"`
	UnitPriceCents  int64    `json:"unit_price_cents,omitempty"`
	RequirementTags []string `json:"requirement_tags,omitempty"`
	ProductTags     []string `json:"product_tags,omitempty"`
}

// Rule describes one confirmation requirement on an action.
type Rule struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	AtPickup   bool   `json:"at_pickup"`
	AtDelivery bool   `json:"at_delivery"`
	Compare    bool   `json:"compare"`
}

// StageEditRequest is the body of POST /api/v1/orders/:orderId/edits.
type StageEditRequest struct {
	Op       string             `json:"op"`
	TargetID string             `json:"target_id,omitempty"`
	Step     *EditStep          `json:"step,omitempty"`
	Stop     *EditStopRequest   `json:"stop,omitempty"`
	Action   *EditActionRequest `json:"action,omitempty"`
	Linked   *bool              `json:"linked,omitempty"`
}

// EditStep describes a step payload for staged additions.
type EditStep struct {
	Sequence int               `json:"sequence"`
	Linked   bool              `json:"linked"`
	Stops    []EditStopRequest `json:"stops"`
}

// EditStopRequest describes a stop payload for staged additions and
// replacements. Unlike draft stops, its actions may reference transit items
// already present on the order by id.
type EditStopRequest struct {
	Sequence int                 `json:"sequence,omitempty"`
	Address  Address             `json:"address"`
	Window   *TimeWindow         `json:"window,omitempty"`
	Contact  Contact             `json:"contact"`
	Actions  []EditActionRequest `json:"actions"`
}

// EditActionRequest extends a draft action with a reference to an existing
// transit item on the order.
type EditActionRequest struct {
	DraftAction
	TransitItemID *string `json:"transit_item_id,omitempty"`
}

// PushResponse is the body returned by POST /api/v1/orders/:orderId/push.
type PushResponse struct {
	Applied   int            `json:"applied"`
	Conflicts []PushConflict `json:"conflicts"`
	NoOp      bool           `json:"no_op"`
	Replayed  bool           `json:"replayed"`
}

// PushConflict reports one staged edit dropped during a push.
type PushConflict struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
	Op     string `json:"op"`
	Reason string `json:"reason"`
}

// CompleteActionRequest carries the proofs demanded by an action's
// confirmation rules, keyed by rule name.
type CompleteActionRequest struct {
	Proofs map[string]string `json:"proofs"`
}

// ReasonRequest carries an operator-supplied reason for holds and failures.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// DriverRequest identifies the driver acting on a mission offer.
type DriverRequest struct {
	DriverID string `json:"driver_id"`
}

// CancelOrderRequest carries an optional cancellation note.
type CancelOrderRequest struct {
	Note string `json:"note"`
}

// CreatedResponse returns the id of a newly created resource.
type CreatedResponse struct {
	ID string `json:"id"`
}

// PendingMission is one entry of GET /api/v1/drivers/:driverId/missions.
type PendingMission struct {
	ID             string `json:"id"`
	AssignmentMode string `json:"assignment_mode"`
	StopsTotal     int    `json:"stops_total"`
}

// ActiveOrder is one entry of GET /api/v1/orders/active.
type ActiveOrder struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	DriverID      *string `json:"driver_id,omitempty"`
	StopsTotal    int     `json:"stops_total"`
	StopsClosed   int     `json:"stops_closed"`
	PendingChange bool    `json:"pending_change"`
	RouteStale    bool    `json:"route_stale"`
}

func parseActionKind(raw string) (order.ActionKind, error) {
	switch raw {
	case "pickup":
		return order.ActionKindPickup, nil
	case "delivery":
		return order.ActionKindDelivery, nil
	case "service":
		return order.ActionKindService, nil
	default:
		return order.ActionKindUnknown, fmt.Errorf("unknown action kind %q", raw)
	}
}

func parseProofKind(raw string) (order.ProofKind, error) {
	switch raw {
	case "photo":
		return order.ProofKindPhoto, nil
	case "code":
		return order.ProofKindCode, nil
	default:
		return order.ProofKindUnknown, fmt.Errorf("unknown proof kind %q", raw)
	}
}

func parsePackaging(raw string) (order.PackagingType, error) {
	switch raw {
	case "box":
		return order.PackagingBox, nil
	case "fluid":
		return order.PackagingFluid, nil
	default:
		return order.PackagingUnknown, fmt.Errorf("unknown packaging %q", raw)
	}
}

func toDraftSteps(steps []DraftStep) ([]services.DraftStep, error) {
	converted := make([]services.DraftStep, 0, len(steps))
	for _, step := range steps {
		stops, err := toDraftStops(step.Stops)
		if err != nil {
			return nil, err
		}
		converted = append(converted, services.DraftStep{
			Linked: step.Linked,
			Stops:  stops,
		})
	}
	return converted, nil
}

func toDraftStops(stops []DraftStop) ([]services.DraftStop, error) {
	converted := make([]services.DraftStop, 0, len(stops))
	for _, stop := range stops {
		built, err := toDraftStop(stop)
		if err != nil {
			return nil, err
		}
		converted = append(converted, built)
	}
	return converted, nil
}

func toDraftStop(stop DraftStop) (services.DraftStop, error) {
	address, err := toAddress(stop.Address)
	if err != nil {
		return services.DraftStop{}, err
	}

	var window *kernel.TimeWindow
	if stop.Window != nil {
		w, windowErr := kernel.NewTimeWindow(stop.Window.Start, stop.Window.End)
		if windowErr != nil {
			return services.DraftStop{}, windowErr
		}
		window = &w
	}

	actions := make([]services.DraftAction, 0, len(stop.Actions))
	for _, action := range stop.Actions {
		built, actionErr := toDraftAction(action)
		if actionErr != nil {
			return services.DraftStop{}, actionErr
		}
		actions = append(actions, built)
	}

	return services.DraftStop{
		Address: address,
		Window:  window,
		Contact: order.Contact{
			Name:      stop.Contact.Name,
			Phone:     stop.Contact.Phone,
			AvatarURL: stop.Contact.AvatarURL,
		},
		Actions: actions,
	}, nil
}

func toAddress(address Address) (order.Address, error) {
	built := order.Address{
		Label:     address.Label,
		Formatted: address.Formatted,
	}
	if address.Lat != nil && address.Lng != nil {
		point, err := kernel.NewGeoPoint(*address.Lat, *address.Lng)
		if err != nil {
			return order.Address{}, err
		}
		built.Point = &point
	}
	return built, nil
}

func toDraftAction(action DraftAction) (services.DraftAction, error) {
	kind, err := parseActionKind(action.Kind)
	if err != nil {
		return services.DraftAction{}, err
	}

	rules, err := toDraftRules(action.Rules)
	if err != nil {
		return services.DraftAction{}, err
	}

	built := services.DraftAction{
		Kind:           kind,
		Quantity:       action.Quantity,
		ServiceTimeSec: action.ServiceTimeSec,
		ItemRef:        action.ItemRef,
		Rules:          rules,
	}

	if action.Item != nil {
		item, itemErr := toDraftItem(*action.Item)
		if itemErr != nil {
			return services.DraftAction{}, itemErr
		}
		built.Item = &item
	}
	return built, nil
}

func toDraftItem(item DraftItem) (services.DraftItem, error) {
	packaging, err := parsePackaging(item.Packaging)
	if err != nil {
		return services.DraftItem{}, err
	}

	return services.DraftItem{
		LocalID:     item.LocalID,
		Name:        item.Name,
		Description: item.Description,
		Packaging:   packaging,
		WeightKg:    item.WeightKg,
		VolumeM3:    item.VolumeM3,
		Dimensions: order.Dimensions{
			LengthCm: item.LengthCm,
			WidthCm:  item.WidthCm,
			HeightCm: item.HeightCm,
		},
		UnitPriceCents:  item.UnitPriceCents,
		RequirementTags: item.RequirementTags,
		ProductTags:     item.ProductTags,
	}, nil
}

func toDraftRules(rules []Rule) ([]services.DraftRule, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	converted := make([]services.DraftRule, 0, len(rules))
	for _, rule := range rules {
		kind, err := parseProofKind(rule.Kind)
		if err != nil {
			return nil, err
		}
		converted = append(converted, services.DraftRule{
			Name:       rule.Name,
			Kind:       kind,
			AtPickup:   rule.AtPickup,
			AtDelivery: rule.AtDelivery,
			Compare:    rule.Compare,
		})
	}
	return converted, nil
}

func toEditStop(stop EditStopRequest) (commands.EditStop, error) {
	address, err := toAddress(stop.Address)
	if err != nil {
		return commands.EditStop{}, err
	}

	var window *kernel.TimeWindow
	if stop.Window != nil {
		w, windowErr := kernel.NewTimeWindow(stop.Window.Start, stop.Window.End)
		if windowErr != nil {
			return commands.EditStop{}, windowErr
		}
		window = &w
	}

	actions := make([]commands.EditAction, 0, len(stop.Actions))
	for _, action := range stop.Actions {
		built, actionErr := toEditAction(action)
		if actionErr != nil {
			return commands.EditStop{}, actionErr
		}
		actions = append(actions, built)
	}

	return commands.EditStop{
		Sequence: stop.Sequence,
		Address:  address,
		Window:   window,
		Contact: order.Contact{
			Name:      stop.Contact.Name,
			Phone:     stop.Contact.Phone,
			AvatarURL: stop.Contact.AvatarURL,
		},
		Actions: actions,
	}, nil
}

func toEditStep(step EditStep) (commands.EditStep, error) {
	stops := make([]commands.EditStop, 0, len(step.Stops))
	for i, stop := range step.Stops {
		built, err := toEditStop(stop)
		if err != nil {
			return commands.EditStep{}, err
		}
		if built.Sequence == 0 {
			built.Sequence = i + 1
		}
		stops = append(stops, built)
	}
	return commands.EditStep{
		Sequence: step.Sequence,
		Linked:   step.Linked,
		Stops:    stops,
	}, nil
}

func toEditAction(action EditActionRequest) (commands.EditAction, error) {
	built, err := toDraftAction(action.DraftAction)
	if err != nil {
		return commands.EditAction{}, err
	}

	converted := commands.EditAction{
		Kind:           built.Kind,
		Quantity:       built.Quantity,
		ServiceTimeSec: built.ServiceTimeSec,
		NewItem:        built.Item,
		Rules:          built.Rules,
	}
	if action.TransitItemID != nil {
		itemID, idErr := kernel.UUIDFromString(*action.TransitItemID)
		if idErr != nil {
			return commands.EditAction{}, idErr
		}
		converted.TransitItemID = &itemID
	}
	return converted, nil
}

func toPushResponse(outcome order.PushOutcome) PushResponse {
	response := PushResponse{
		Applied:   outcome.Applied,
		Conflicts: make([]PushConflict, 0, len(outcome.Conflicts)),
		NoOp:      outcome.NoOp,
		Replayed:  outcome.Replayed,
	}
	for _, conflict := range outcome.Conflicts {
		response.Conflicts = append(response.Conflicts, PushConflict{
			Entity: conflict.Entity,
			ID:     conflict.ID,
			Op:     conflict.Op,
			Reason: conflict.Reason,
		})
	}
	return response
}

// OrderView is the body of GET /api/v1/orders/:orderId.
type OrderView struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	DriverID      *string    `json:"driver_id,omitempty"`
	PendingChange bool       `json:"pending_change"`
	RouteStale    bool       `json:"route_stale"`
	LastPushKey   string     `json:"last_push_key,omitempty"`
	Steps         []StepView `json:"steps"`
}

// StepView is one step of the visit plan.
type StepView struct {
	ID            string     `json:"id"`
	Sequence      int        `json:"sequence"`
	Linked        bool       `json:"linked"`
	PendingChange bool       `json:"pending_change"`
	Stops         []StopView `json:"stops"`
}

// StopView is one stop of the visit plan, overlay markers included.
type StopView struct {
	ID             string       `json:"id"`
	Sequence       int          `json:"sequence"`
	AddressLabel   string       `json:"address_label"`
	Status         string       `json:"status"`
	Held           bool         `json:"held"`
	PendingChange  bool         `json:"pending_change"`
	DeleteRequired bool         `json:"delete_required"`
	StagedNew      bool         `json:"staged_new"`
	OriginalID     *string      `json:"original_id,omitempty"`
	Actions        []ActionView `json:"actions"`
}

// ActionView is one action at a stop.
type ActionView struct {
	ID             string  `json:"id"`
	Kind           string  `json:"kind"`
	Quantity       int     `json:"quantity"`
	Status         string  `json:"status"`
	PendingChange  bool    `json:"pending_change"`
	DeleteRequired bool    `json:"delete_required"`
	StagedNew      bool    `json:"staged_new"`
	OriginalID     *string `json:"original_id,omitempty"`
}

func uuidStringPtr(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func toOrderView(resp queries.GetOrderQueryResponse) OrderView {
	view := OrderView{
		ID:            resp.ID.String(),
		Status:        resp.Status,
		DriverID:      uuidStringPtr(resp.DriverID),
		PendingChange: resp.PendingChange,
		RouteStale:    resp.RouteStale,
		LastPushKey:   resp.LastPushKey,
		Steps:         make([]StepView, 0, len(resp.Steps)),
	}
	for _, step := range resp.Steps {
		stepView := StepView{
			ID:            step.ID.String(),
			Sequence:      step.Sequence,
			Linked:        step.Linked,
			PendingChange: step.PendingChange,
			Stops:         make([]StopView, 0, len(step.Stops)),
		}
		for _, stop := range step.Stops {
			stopView := StopView{
				ID:             stop.ID.String(),
				Sequence:       stop.Sequence,
				AddressLabel:   stop.AddressLabel,
				Status:         stop.Status,
				Held:           stop.Held,
				PendingChange:  stop.PendingChange,
				DeleteRequired: stop.DeleteRequired,
				StagedNew:      stop.StagedNew,
				OriginalID:     uuidStringPtr(stop.OriginalID),
				Actions:        make([]ActionView, 0, len(stop.Actions)),
			}
			for _, action := range stop.Actions {
				stopView.Actions = append(stopView.Actions, ActionView{
					ID:             action.ID.String(),
					Kind:           action.Kind,
					Quantity:       action.Quantity,
					Status:         action.Status,
					PendingChange:  action.PendingChange,
					DeleteRequired: action.DeleteRequired,
					StagedNew:      action.StagedNew,
					OriginalID:     uuidStringPtr(action.OriginalID),
				})
			}
			stepView.Stops = append(stepView.Stops, stopView)
		}
		view.Steps = append(view.Steps, stepView)
	}
	return view
}

func toPendingMissions(responses []queries.GetPendingMissionsQueryResponse) []PendingMission {
	missions := make([]PendingMission, 0, len(responses))
	for _, resp := range responses {
		missions = append(missions, PendingMission{
			ID:             resp.ID.String(),
			AssignmentMode: resp.AssignmentMode,
			StopsTotal:     resp.StopsTotal,
		})
	}
	return missions
}

func toActiveOrders(responses []queries.GetActiveOrdersQueryResponse) []ActiveOrder {
	orders := make([]ActiveOrder, 0, len(responses))
	for _, resp := range responses {
		entry := ActiveOrder{
			ID:            resp.ID.String(),
			Status:        resp.Status,
			StopsTotal:    resp.StopsTotal,
			StopsClosed:   resp.StopsClosed,
			PendingChange: resp.PendingChange,
			RouteStale:    resp.RouteStale,
		}
		if resp.DriverID != nil {
			id := resp.DriverID.String()
			entry.DriverID = &id
		}
		orders = append(orders, entry)
	}
	return orders
}
