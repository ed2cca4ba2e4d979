package order

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of the step/stop/action/transit-item hierarchy.
// It owns the three coupled lifecycle machines (order, stop, action), the
// pending-change overlay used to stage office edits against an in-flight
// order, and the push protocol that applies staged edits to the execution
// record.
//
// Ownership follows the lifecycle: the office owns the whole tree until the
// order leaves Draft; afterwards the office owns structure (via the overlay)
// while the field owns execution state (via the stop/action machines). The
// overlay never mutates execution status, and field operations never touch
// staged entities.
type Order struct {
	id             kernel.UUID
	status         Status
	assignmentMode AssignmentMode
	driverID       *kernel.UUID
	steps          []*Step
	transitItems   []*TransitItem

	route      Route
	routeStale bool

	pendingChange bool
	lastPushKey   string
	history       []StatusHistoryEntry

	isConstructed bool
}

// PushOutcome reports what a push did: how many staged edits were applied,
// which edits were dropped as conflicts, and whether the push was an
// idempotent replay or a no-op.
type PushOutcome struct {
	Applied    int
	Conflicts  []errs.PushConflict
	NoOp       bool
	Replayed   bool
	RouteStale bool
}

// NewOrder creates a Draft order from an assembled hierarchy.
// The hierarchy must satisfy referential integrity: every delivery action's
// transit item must be created by a pickup action in the same order, and every
// pickup's item must be present in the item list.
func NewOrder(
	id kernel.UUID,
	assignmentMode AssignmentMode,
	driverID *kernel.UUID,
	steps []*Step,
	transitItems []*TransitItem,
) (*Order, error) {
	o := &Order{
		status:        StatusDraft,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setAssignmentMode(assignmentMode),
		o.setDriverID(driverID),
	); err != nil {
		return nil, err
	}
	if err := o.setHierarchy(steps, transitItems); err != nil {
		return nil, err
	}

	o.history = append(o.history, newHistoryEntry(StatusDraft.String(), ""))
	return o, nil
}

// RestoreOrder reconstructs an order from persistence.
func RestoreOrder(
	id kernel.UUID,
	status Status,
	assignmentMode AssignmentMode,
	driverID *kernel.UUID,
	steps []*Step,
	transitItems []*TransitItem,
	route Route,
	routeStale bool,
	pendingChange bool,
	lastPushKey string,
	history []StatusHistoryEntry,
) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	o, err := NewOrder(id, assignmentMode, driverID, steps, transitItems)
	if err != nil {
		return nil, err
	}

	o.status = status
	o.route = route
	o.routeStale = routeStale
	o.pendingChange = pendingChange
	o.lastPushKey = lastPushKey
	o.history = append([]StatusHistoryEntry(nil), history...)
	return o, nil
}

// Validate ensures the order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// AssignmentMode returns how the order is offered to drivers.
func (o *Order) AssignmentMode() AssignmentMode {
	return o.assignmentMode
}

// DriverID returns the assigned (or targeted) driver, nil when unassigned.
func (o *Order) DriverID() *kernel.UUID {
	return o.driverID
}

// Steps returns the order's steps in sequence order, staged entities included.
func (o *Order) Steps() []*Step {
	return o.steps
}

// TransitItems returns the order's transit items.
func (o *Order) TransitItems() []*TransitItem {
	return o.transitItems
}

// Route returns the last route computed by the routing collaborator.
func (o *Order) Route() Route {
	return o.route
}

// RouteStale reports whether the route needs recalculation.
func (o *Order) RouteStale() bool {
	return o.routeStale
}

// PendingChange reports whether the order carries unpushed overlay edits.
func (o *Order) PendingChange() bool {
	return o.pendingChange
}

// LastPushKey returns the idempotency key of the last applied push.
func (o *Order) LastPushKey() string {
	return o.lastPushKey
}

// History returns the append-only status transition log.
func (o *Order) History() []StatusHistoryEntry {
	return append([]StatusHistoryEntry(nil), o.history...)
}

// SetRoute stores a freshly computed route and clears the staleness flag.
func (o *Order) SetRoute(route Route) {
	o.route = route
	o.routeStale = false
}

// MarkRouteStale flags the route for asynchronous recalculation.
func (o *Order) MarkRouteStale() {
	o.routeStale = true
}

// ReplaceDraft swaps the whole hierarchy of a Draft order. Draft orders have
// no overlay: edits mutate the tree directly.
func (o *Order) ReplaceDraft(steps []*Step, transitItems []*TransitItem) error {
	if o.status != StatusDraft {
		return errs.NewInvalidStateError("edit draft of", "order", o.status.String())
	}
	return o.setHierarchy(steps, transitItems)
}

// Submit moves the order from Draft into the execution pipeline.
// The hierarchy must contain at least one step with at least one stop, and
// every stop must carry at least one action.
func (o *Order) Submit() error {
	newStatus, err := o.status.Submit()
	if err != nil {
		return err
	}

	hasStop := false
	for _, step := range o.steps {
		for _, stop := range step.Stops() {
			hasStop = true
			if len(stop.Actions()) == 0 {
				return errs.NewValidationError(
					fmt.Sprintf("stop %s has no actions", stop.ID()))
			}
		}
	}
	if !hasStop {
		return errs.NewValidationError("order has no stops")
	}

	o.transitionTo(newStatus, "")
	o.routeStale = true
	return nil
}

// Accept assigns the order to the driver who accepted the mission.
func (o *Order) Accept(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.assignmentMode == AssignmentModeTarget && o.driverID != nil && !o.driverID.IsEqual(driverID) {
		return errs.NewInvalidStateError("accept", "order targeted at another driver", o.status.String())
	}

	newStatus, err := o.status.Accept()
	if err != nil {
		return err
	}

	o.transitionTo(newStatus, "accepted by "+driverID.String())
	o.driverID = &driverID
	return nil
}

// Refuse records a driver's refusal. A targeted order falls back to global
// assignment; the order stays Pending.
func (o *Order) Refuse(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.status != StatusPending {
		return errs.NewInvalidStateError("refuse", "order", o.status.String())
	}

	if o.assignmentMode == AssignmentModeTarget {
		o.assignmentMode = AssignmentModeGlobal
		o.driverID = nil
	}
	o.history = append(o.history, newHistoryEntry(o.status.String(), "refused by "+driverID.String()))
	return nil
}

// Cancel terminates the order from the office side.
func (o *Order) Cancel(note string) error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}
	o.transitionTo(newStatus, note)
	return nil
}

// FinishOrder closes out an accepted order. Every execution-side action must
// be terminal; the outcome is Delivered when at least one action completed,
// Failed otherwise.
func (o *Order) FinishOrder() error {
	anyCompleted := false
	for _, step := range o.executionSteps() {
		for _, stop := range executionStops(step) {
			for _, action := range executionActions(stop) {
				if !action.Status().IsTerminal() {
					return errs.NewInvalidStateError("finish", "order with non-terminal action",
						action.Status().String())
				}
				if action.Status() == ActionStatusCompleted {
					anyCompleted = true
				}
			}
		}
	}

	newStatus, err := o.status.Finish(anyCompleted)
	if err != nil {
		return err
	}
	o.transitionTo(newStatus, "")
	return nil
}

// ArriveAtStop marks the driver's arrival at a stop, advancing the stop and
// its pending actions to Arrived. Steps execute in sequence order; within a
// linked step the stops additionally execute contiguously and in sequence.
func (o *Order) ArriveAtStop(stopID kernel.UUID) error {
	if err := o.requireAccepted("arrive at stop of"); err != nil {
		return err
	}
	step, stop, err := o.findExecutionStop(stopID)
	if err != nil {
		return err
	}

	for _, earlier := range o.executionSteps() {
		if earlier.sequence >= step.sequence {
			continue
		}
		for _, sibling := range executionStops(earlier) {
			if !sibling.Status().IsClosed() {
				return errs.NewInvalidStateError("arrive at", "stop before earlier steps completed",
					sibling.Status().String())
			}
		}
	}
	if active := o.activeLinkedStep(); active != nil && active != step {
		return errs.NewInvalidStateError("arrive at", "stop outside the linked step in progress",
			stop.Status().String())
	}
	if step.Linked() {
		for _, sibling := range executionStops(step) {
			if sibling.Sequence() < stop.Sequence() && !sibling.Status().IsClosed() {
				return errs.NewInvalidStateError("arrive at", "stop before its linked predecessors",
					sibling.Status().String())
			}
		}
	}

	return stop.Arrive()
}

// FreezeStop puts a stop on hold.
func (o *Order) FreezeStop(stopID kernel.UUID, reason string) error {
	if err := o.requireAccepted("freeze stop of"); err != nil {
		return err
	}
	_, stop, err := o.findExecutionStop(stopID)
	if err != nil {
		return err
	}
	return stop.Freeze(reason)
}

// UnfreezeStop releases a stop hold.
func (o *Order) UnfreezeStop(stopID kernel.UUID) error {
	if err := o.requireAccepted("unfreeze stop of"); err != nil {
		return err
	}
	_, stop, err := o.findExecutionStop(stopID)
	if err != nil {
		return err
	}
	return stop.Unfreeze()
}

// CompleteStop closes a stop once every action in it is terminal.
func (o *Order) CompleteStop(stopID kernel.UUID) error {
	if err := o.requireAccepted("complete stop of"); err != nil {
		return err
	}
	_, stop, err := o.findExecutionStop(stopID)
	if err != nil {
		return err
	}
	return stop.Complete()
}

// FailStop fails a stop, failing its remaining non-terminal actions.
func (o *Order) FailStop(stopID kernel.UUID, reason string) error {
	if err := o.requireAccepted("fail stop of"); err != nil {
		return err
	}
	_, stop, err := o.findExecutionStop(stopID)
	if err != nil {
		return err
	}
	return stop.Fail(reason)
}

// Action returns the execution-side action with the given id.
// Staged additions and shadow copies are not part of the execution record.
func (o *Order) Action(actionID kernel.UUID) (*Action, error) {
	_, action, err := o.findExecutionAction(actionID)
	return action, err
}

// CompleteAction completes an action after its proofs were accepted by the
// confirmation evaluator. Captured pickup references are stored on the
// matching rules and propagated to the comparing rules of every other action
// handling the same transit item, so the delivery phase can verify against
// them.
func (o *Order) CompleteAction(actionID kernel.UUID, capturedReferences map[string]string) error {
	if err := o.requireAccepted("complete action of"); err != nil {
		return err
	}
	stop, action, err := o.findExecutionAction(actionID)
	if err != nil {
		return err
	}
	if stop.Held() {
		return errs.NewInvalidStateError("complete", "action of held stop", action.Status().String())
	}
	if err := action.Complete(capturedReferences); err != nil {
		return err
	}
	if action.kind == ActionKindPickup && len(capturedReferences) > 0 {
		o.propagateCapturedReferences(action, capturedReferences)
	}
	return nil
}

// propagateCapturedReferences copies pickup-phase reference values to the
// same-named comparing rules of other actions on the picked-up transit item.
func (o *Order) propagateCapturedReferences(pickup *Action, captured map[string]string) {
	itemID := pickup.transitItemID
	if itemID == nil {
		return
	}
	for _, step := range o.steps {
		for _, stop := range step.stops {
			for _, other := range stop.actions {
				if other == pickup || other.transitItemID == nil || !other.transitItemID.IsEqual(*itemID) {
					continue
				}
				for _, rule := range other.rules {
					if !rule.Compare() {
						continue
					}
					if value, ok := captured[rule.Name()]; ok {
						rule.CaptureReference(value)
					}
				}
			}
		}
	}
}

// FreezeAction puts an action on hold.
func (o *Order) FreezeAction(actionID kernel.UUID, reason string) error {
	if err := o.requireAccepted("freeze action of"); err != nil {
		return err
	}
	_, action, err := o.findExecutionAction(actionID)
	if err != nil {
		return err
	}
	return action.Freeze(reason)
}

// UnfreezeAction reverts a frozen action to the status it froze from.
func (o *Order) UnfreezeAction(actionID kernel.UUID) error {
	if err := o.requireAccepted("unfreeze action of"); err != nil {
		return err
	}
	_, action, err := o.findExecutionAction(actionID)
	if err != nil {
		return err
	}
	return action.Unfreeze()
}

// FailAction fails an action.
func (o *Order) FailAction(actionID kernel.UUID, reason string) error {
	if err := o.requireAccepted("fail action of"); err != nil {
		return err
	}
	_, action, err := o.findExecutionAction(actionID)
	if err != nil {
		return err
	}
	return action.Fail(reason)
}

// CancelAction cancels an action.
func (o *Order) CancelAction(actionID kernel.UUID, reason string) error {
	if err := o.requireAccepted("cancel action of"); err != nil {
		return err
	}
	_, action, err := o.findExecutionAction(actionID)
	if err != nil {
		return err
	}
	return action.Cancel(reason)
}

// RoutePoints returns the resolved coordinates of the execution-side stops in
// execution order, for the routing collaborator.
func (o *Order) RoutePoints() []kernel.GeoPoint {
	var points []kernel.GeoPoint
	for _, step := range o.executionSteps() {
		for _, stop := range executionStops(step) {
			if p := stop.Address().Point; p != nil {
				points = append(points, *p)
			}
		}
	}
	return points
}

func (o *Order) transitionTo(status Status, note string) {
	o.status = status
	o.history = append(o.history, newHistoryEntry(status.String(), note))
}

func (o *Order) requireAccepted(operation string) error {
	if o.status != StatusAccepted {
		return errs.NewInvalidStateError(operation, "order", o.status.String())
	}
	return nil
}

// executionSteps returns the steps that exist on the execution side: staged
// additions are excluded, entities pending deletion are included until pushed.
func (o *Order) executionSteps() []*Step {
	steps := make([]*Step, 0, len(o.steps))
	for _, step := range o.steps {
		if step.StagedNew() || step.OriginalID() != nil {
			continue
		}
		steps = append(steps, step)
	}
	return steps
}

func executionStops(step *Step) []*Stop {
	stops := make([]*Stop, 0, len(step.Stops()))
	for _, stop := range step.Stops() {
		if stop.StagedNew() || stop.OriginalID() != nil {
			continue
		}
		stops = append(stops, stop)
	}
	return stops
}

func executionActions(stop *Stop) []*Action {
	actions := make([]*Action, 0, len(stop.Actions()))
	for _, action := range stop.Actions() {
		if action.StagedNew() || action.OriginalID() != nil {
			continue
		}
		actions = append(actions, action)
	}
	return actions
}

// activeLinkedStep returns the linked step currently in progress: one where
// some stop has started but not every stop is closed. At most one such step
// can be in progress when the linked-step guard is honored.
func (o *Order) activeLinkedStep() *Step {
	for _, step := range o.executionSteps() {
		if !step.Linked() {
			continue
		}
		started, allClosed := false, true
		for _, stop := range executionStops(step) {
			if stop.Status() != StopStatusPending {
				started = true
			}
			if !stop.Status().IsClosed() {
				allClosed = false
			}
		}
		if started && !allClosed {
			return step
		}
	}
	return nil
}

func (o *Order) findExecutionStop(stopID kernel.UUID) (*Step, *Stop, error) {
	for _, step := range o.executionSteps() {
		for _, stop := range executionStops(step) {
			if stop.ID().IsEqual(stopID) {
				return step, stop, nil
			}
		}
	}
	return nil, nil, errs.NewObjectNotFoundError("stopId", stopID.String())
}

func (o *Order) findExecutionAction(actionID kernel.UUID) (*Stop, *Action, error) {
	for _, step := range o.executionSteps() {
		for _, stop := range executionStops(step) {
			for _, action := range executionActions(stop) {
				if action.ID().IsEqual(actionID) {
					return stop, action, nil
				}
			}
		}
	}
	return nil, nil, errs.NewObjectNotFoundError("actionId", actionID.String())
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setAssignmentMode(mode AssignmentMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	o.assignmentMode = mode
	return nil
}

func (o *Order) setDriverID(driverID *kernel.UUID) error {
	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return err
		}
	}
	o.driverID = driverID
	return nil
}

func (o *Order) setHierarchy(steps []*Step, transitItems []*TransitItem) error {
	for _, step := range steps {
		if err := step.Validate(); err != nil {
			return err
		}
	}
	for _, item := range transitItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if err := validateItemReferences(steps, transitItems); err != nil {
		return err
	}

	o.steps = append([]*Step(nil), steps...)
	o.transitItems = append([]*TransitItem(nil), transitItems...)
	return nil
}

// validateItemReferences enforces referential integrity between actions and
// transit items: pickup actions must reference a known item, and delivery
// actions must reference an item some pickup action in the order creates.
func validateItemReferences(steps []*Step, transitItems []*TransitItem) error {
	known := make(map[kernel.UUID]bool, len(transitItems))
	for _, item := range transitItems {
		known[item.ID()] = true
	}

	pickedUp := make(map[kernel.UUID]bool)
	for _, step := range steps {
		for _, stop := range step.Stops() {
			for _, action := range stop.Actions() {
				if action.Kind() == ActionKindPickup {
					itemID := action.TransitItemID()
					if !known[*itemID] {
						return errs.NewValidationError(fmt.Sprintf(
							"pickup action %s references unknown transit item %s",
							action.ID(), itemID))
					}
					pickedUp[*itemID] = true
				}
			}
		}
	}

	for _, step := range steps {
		for _, stop := range step.Stops() {
			for _, action := range stop.Actions() {
				if action.Kind() == ActionKindDelivery {
					itemID := action.TransitItemID()
					if !pickedUp[*itemID] {
						return errs.NewValidationError(fmt.Sprintf(
							"delivery action %s references transit item %s not created by any pickup",
							action.ID(), itemID))
					}
				}
			}
		}
	}
	return nil
}
