package order

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// ErrActionIsNotConstructed is returned when an Action instance was not created
// through NewAction or RestoreAction.
var ErrActionIsNotConstructed = errors.New("Action must be created via NewAction constructor")

// ActionKind describes the unit of work an action performs at a stop.
type ActionKind int

const (
	// ActionKindUnknown represents an invalid or undefined action kind.
	ActionKindUnknown ActionKind = iota

	// ActionKindPickup collects a transit item; it creates the item record.
	ActionKindPickup

	// ActionKindDelivery hands over a transit item picked up earlier in the order.
	ActionKindDelivery

	// ActionKindService performs on-site work without moving goods.
	ActionKindService
)

// Validate checks if the ActionKind value is valid.
func (k ActionKind) Validate() error {
	switch k {
	case ActionKindPickup, ActionKindDelivery, ActionKindService:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("action kind is invalid",
			fmt.Errorf("%d is not a valid action kind", k))
	}
}

// String returns the human-readable name of the action kind.
func (k ActionKind) String() string {
	switch k {
	case ActionKindPickup:
		return "Pickup"
	case ActionKindDelivery:
		return "Delivery"
	case ActionKindService:
		return "Service"
	default:
		return "Unknown"
	}
}

// Action is a unit of work at a stop: a pickup, delivery or service.
// Pickup and delivery actions reference a transit item; service actions do not.
// An action carries its own status machine, its confirmation rules, and the
// staging markers used by the pending-change overlay.
type Action struct {
	id             kernel.UUID
	kind           ActionKind
	quantity       int
	serviceTimeSec int
	transitItemID  *kernel.UUID
	rules          []*ConfirmationRule

	status     ActionStatus
	frozenFrom ActionStatus
	history    []StatusHistoryEntry

	pendingChange  bool
	deleteRequired bool
	stagedNew      bool
	originalID     *kernel.UUID

	isConstructed bool
}

// NewAction creates an action with validation.
// Pickup and delivery actions require a transit item reference; service actions
// must not carry one. Quantity must be positive and service time non-negative.
func NewAction(
	id kernel.UUID,
	kind ActionKind,
	quantity int,
	serviceTimeSec int,
	transitItemID *kernel.UUID,
	rules []*ConfirmationRule,
) (*Action, error) {
	action := &Action{
		status:        ActionStatusPending,
		isConstructed: true,
	}

	if err := errors.Join(
		action.setID(id),
		action.setKind(kind),
		action.setQuantity(quantity),
		action.setServiceTimeSec(serviceTimeSec),
	); err != nil {
		return nil, err
	}

	if err := action.setTransitItemID(transitItemID); err != nil {
		return nil, err
	}
	if err := action.setRules(rules); err != nil {
		return nil, err
	}

	return action, nil
}

// RestoreAction reconstructs an action from persistence, including execution
// state, history and overlay markers.
func RestoreAction(
	id kernel.UUID,
	kind ActionKind,
	quantity int,
	serviceTimeSec int,
	transitItemID *kernel.UUID,
	rules []*ConfirmationRule,
	status ActionStatus,
	frozenFrom ActionStatus,
	history []StatusHistoryEntry,
	markers StagingMarkers,
) (*Action, error) {
	action, err := NewAction(id, kind, quantity, serviceTimeSec, transitItemID, rules)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	action.status = status
	action.frozenFrom = frozenFrom
	action.history = append([]StatusHistoryEntry(nil), history...)
	action.pendingChange = markers.PendingChange
	action.deleteRequired = markers.DeleteRequired
	action.stagedNew = markers.StagedNew
	action.originalID = markers.OriginalID
	return action, nil
}

// Validate ensures the action was created through a constructor.
func (a *Action) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrActionIsNotConstructed
	}
	return nil
}

// ID returns the action's unique identifier.
func (a *Action) ID() kernel.UUID {
	return a.id
}

// Kind returns the action kind.
func (a *Action) Kind() ActionKind {
	return a.kind
}

// Quantity returns the number of units handled by the action.
func (a *Action) Quantity() int {
	return a.quantity
}

// ServiceTimeSec returns the planned on-site handling time in seconds.
func (a *Action) ServiceTimeSec() int {
	return a.serviceTimeSec
}

// TransitItemID returns the referenced transit item, nil for service actions.
func (a *Action) TransitItemID() *kernel.UUID {
	return a.transitItemID
}

// Rules returns the action's confirmation rules in declaration order.
func (a *Action) Rules() []*ConfirmationRule {
	return a.rules
}

// Status returns the current execution status.
func (a *Action) Status() ActionStatus {
	return a.status
}

// FrozenFrom returns the status the action held before it was frozen.
// Meaningful only while the action is Frozen.
func (a *Action) FrozenFrom() ActionStatus {
	return a.frozenFrom
}

// History returns the append-only transition log.
func (a *Action) History() []StatusHistoryEntry {
	return append([]StatusHistoryEntry(nil), a.history...)
}

// PendingChange reports whether the action carries unpushed overlay edits.
func (a *Action) PendingChange() bool {
	return a.pendingChange
}

// DeleteRequired reports whether the next push must delete the action.
func (a *Action) DeleteRequired() bool {
	return a.deleteRequired
}

// StagedNew reports whether the action was added via the overlay and not pushed yet.
func (a *Action) StagedNew() bool {
	return a.stagedNew
}

// OriginalID returns the execution-side entity this action replaces, if it is
// a staged shadow copy; nil otherwise.
func (a *Action) OriginalID() *kernel.UUID {
	return a.originalID
}

// Arrive transitions the action to Arrived and appends history.
func (a *Action) Arrive() error {
	newStatus, err := a.status.Arrive()
	if err != nil {
		return err
	}
	a.transitionTo(newStatus, "")
	return nil
}

// Complete transitions the action to Completed and appends history.
// Proof evaluation must have been performed by the caller; captured pickup
// references are stored against the matching rules.
func (a *Action) Complete(capturedReferences map[string]string) error {
	newStatus, err := a.status.Complete()
	if err != nil {
		return err
	}
	for _, rule := range a.rules {
		if value, ok := capturedReferences[rule.Name()]; ok {
			rule.CaptureReference(value)
		}
	}
	a.transitionTo(newStatus, "")
	return nil
}

// Freeze puts the action on hold, remembering its current status so Unfreeze
// can restore it.
func (a *Action) Freeze(reason string) error {
	newStatus, err := a.status.Freeze()
	if err != nil {
		return err
	}
	a.frozenFrom = a.status
	a.transitionTo(newStatus, reason)
	return nil
}

// Unfreeze reverts a frozen action to the status it froze from.
func (a *Action) Unfreeze() error {
	if a.status != ActionStatusFrozen {
		return errs.NewInvalidStateError("unfreeze", "action", a.status.String())
	}
	restored := a.frozenFrom
	if restored != ActionStatusPending && restored != ActionStatusArrived {
		restored = ActionStatusPending
	}
	a.frozenFrom = ActionStatusUnknown
	a.transitionTo(restored, "unfrozen")
	return nil
}

// Fail transitions the action to Failed and appends history.
func (a *Action) Fail(reason string) error {
	newStatus, err := a.status.Fail()
	if err != nil {
		return err
	}
	a.transitionTo(newStatus, reason)
	return nil
}

// Cancel transitions the action to Cancelled and appends history.
func (a *Action) Cancel(reason string) error {
	newStatus, err := a.status.Cancel()
	if err != nil {
		return err
	}
	a.transitionTo(newStatus, reason)
	return nil
}

func (a *Action) transitionTo(status ActionStatus, note string) {
	a.status = status
	a.history = append(a.history, newHistoryEntry(status.String(), note))
}

func (a *Action) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Action) setKind(kind ActionKind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	a.kind = kind
	return nil
}

func (a *Action) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	a.quantity = quantity
	return nil
}

func (a *Action) setServiceTimeSec(serviceTimeSec int) error {
	if serviceTimeSec < 0 {
		return errs.NewValueIsInvalidErrorWithCause("service time is invalid",
			fmt.Errorf("%d is negative", serviceTimeSec))
	}
	a.serviceTimeSec = serviceTimeSec
	return nil
}

func (a *Action) setTransitItemID(transitItemID *kernel.UUID) error {
	switch a.kind {
	case ActionKindPickup, ActionKindDelivery:
		if transitItemID == nil {
			return errs.NewValueIsRequiredError(
				fmt.Sprintf("transit item reference for %s action", a.kind))
		}
		if err := transitItemID.Validate(); err != nil {
			return err
		}
	case ActionKindService:
		if transitItemID != nil {
			return errs.NewValueIsInvalidErrorWithCause("transit item reference",
				errors.New("service actions carry no transit item"))
		}
	}
	a.transitItemID = transitItemID
	return nil
}

func (a *Action) setRules(rules []*ConfirmationRule) error {
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return err
		}
	}
	a.rules = append([]*ConfirmationRule(nil), rules...)
	return nil
}
