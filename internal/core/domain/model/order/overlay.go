package order

import (
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// The pending-change overlay stages office edits against an order that has
// left Draft. Staged entities live inside the same tree as the execution
// record, distinguished by markers: additions carry stagedNew, modifications
// are shadow copies carrying originalID, deletions flag the execution-side
// entity with deleteRequired. Nothing here ever touches execution status; the
// staged edits become real only when Push applies them.

func (o *Order) requireOverlay(operation string) error {
	if o.status != StatusPending && o.status != StatusAccepted {
		return errs.NewInvalidStateError(operation, "order", o.status.String())
	}
	return nil
}

// AddTransitItem registers a new transit item on the order. Items carry no
// execution state, so the addition is immediate and works both for drafts and
// for in-flight orders (where a staged pickup will reference it).
func (o *Order) AddTransitItem(item *TransitItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return errs.NewInvalidStateError("add transit item to", "order", o.status.String())
	}
	for _, existing := range o.transitItems {
		if existing.ID().IsEqual(item.ID()) {
			return errs.NewValueIsInvalidError("transit item id already present")
		}
	}
	o.transitItems = append(o.transitItems, item)
	return nil
}

// StageAddStep stages a new step, subtree included.
func (o *Order) StageAddStep(step *Step) error {
	if err := o.requireOverlay("stage step addition for"); err != nil {
		return err
	}
	if err := step.Validate(); err != nil {
		return err
	}

	markStepStagedNew(step)
	o.steps = append(o.steps, step)
	if err := o.revalidateOrRollback(func() { o.steps = o.steps[:len(o.steps)-1] }); err != nil {
		return err
	}
	o.pendingChange = true
	return nil
}

// StageAddStop stages a new stop under an existing step.
func (o *Order) StageAddStop(stepID kernel.UUID, stop *Stop) error {
	if err := o.requireOverlay("stage stop addition for"); err != nil {
		return err
	}
	if err := stop.Validate(); err != nil {
		return err
	}

	step := o.findStep(stepID)
	if step == nil {
		return errs.NewObjectNotFoundError("stepId", stepID.String())
	}
	if step.deleteRequired {
		return errs.NewInvalidStateError("stage stop addition for", "step pending deletion", o.status.String())
	}

	markStopStagedNew(stop)
	step.stops = append(step.stops, stop)
	if err := o.revalidateOrRollback(func() { step.stops = step.stops[:len(step.stops)-1] }); err != nil {
		return err
	}
	step.pendingChange = true
	o.pendingChange = true
	return nil
}

// StageAddAction stages a new action under an existing stop.
func (o *Order) StageAddAction(stopID kernel.UUID, action *Action) error {
	if err := o.requireOverlay("stage action addition for"); err != nil {
		return err
	}
	if err := action.Validate(); err != nil {
		return err
	}

	step, stop := o.findStopAnywhere(stopID)
	if stop == nil {
		return errs.NewObjectNotFoundError("stopId", stopID.String())
	}
	if stop.deleteRequired {
		return errs.NewInvalidStateError("stage action addition for", "stop pending deletion", o.status.String())
	}

	action.stagedNew = true
	stop.actions = append(stop.actions, action)
	if err := o.revalidateOrRollback(func() { stop.actions = stop.actions[:len(stop.actions)-1] }); err != nil {
		return err
	}
	stop.pendingChange = true
	step.pendingChange = true
	o.pendingChange = true
	return nil
}

// StageReplaceStop stages a full replacement of a stop. For execution-side
// stops this creates a shadow copy that supersedes the original at push time;
// staged additions and existing shadows are swapped in place.
func (o *Order) StageReplaceStop(stopID kernel.UUID, replacement *Stop) error {
	if err := o.requireOverlay("stage stop replacement for"); err != nil {
		return err
	}
	if err := replacement.Validate(); err != nil {
		return err
	}

	step, target := o.findStopAnywhere(stopID)
	if target == nil {
		return errs.NewObjectNotFoundError("stopId", stopID.String())
	}
	if target.deleteRequired {
		return errs.NewInvalidStateError("stage stop replacement for", "stop pending deletion", o.status.String())
	}

	idx := stopIndex(step, target)
	prev := step.stops[idx]

	switch {
	case target.stagedNew:
		markStopStagedNew(replacement)
		step.stops[idx] = replacement
	case target.originalID != nil:
		replacement.originalID = target.originalID
		replacement.pendingChange = true
		step.stops[idx] = replacement
	default:
		originalID := target.id
		replacement.originalID = &originalID
		replacement.pendingChange = true
		target.pendingChange = true
		step.stops = append(step.stops, nil)
		copy(step.stops[idx+2:], step.stops[idx+1:])
		step.stops[idx+1] = replacement
	}

	if err := o.revalidateOrRollback(func() { o.undoStopReplace(step, idx, prev, target) }); err != nil {
		return err
	}
	step.pendingChange = true
	o.pendingChange = true
	return nil
}

// StageReplaceAction stages a full replacement of an action, following the
// same shadow-copy scheme as StageReplaceStop.
func (o *Order) StageReplaceAction(actionID kernel.UUID, replacement *Action) error {
	if err := o.requireOverlay("stage action replacement for"); err != nil {
		return err
	}
	if err := replacement.Validate(); err != nil {
		return err
	}

	step, stop, target := o.findActionAnywhere(actionID)
	if target == nil {
		return errs.NewObjectNotFoundError("actionId", actionID.String())
	}
	if target.deleteRequired {
		return errs.NewInvalidStateError("stage action replacement for", "action pending deletion", o.status.String())
	}

	idx := actionIndex(stop, target)
	prev := stop.actions[idx]

	switch {
	case target.stagedNew:
		replacement.stagedNew = true
		stop.actions[idx] = replacement
	case target.originalID != nil:
		replacement.originalID = target.originalID
		replacement.pendingChange = true
		stop.actions[idx] = replacement
	default:
		originalID := target.id
		replacement.originalID = &originalID
		replacement.pendingChange = true
		target.pendingChange = true
		stop.actions = append(stop.actions, nil)
		copy(stop.actions[idx+2:], stop.actions[idx+1:])
		stop.actions[idx+1] = replacement
	}

	if err := o.revalidateOrRollback(func() { o.undoActionReplace(stop, idx, prev, target) }); err != nil {
		return err
	}
	stop.pendingChange = true
	step.pendingChange = true
	o.pendingChange = true
	return nil
}

// StageUpdateStep stages a patch of the step's linked flag. Steps carry no
// execution state, so they are patched in place rather than shadow-copied.
func (o *Order) StageUpdateStep(stepID kernel.UUID, linked bool) error {
	if err := o.requireOverlay("stage step update for"); err != nil {
		return err
	}

	step := o.findStep(stepID)
	if step == nil {
		return errs.NewObjectNotFoundError("stepId", stepID.String())
	}
	if step.deleteRequired {
		return errs.NewInvalidStateError("stage step update for", "step pending deletion", o.status.String())
	}

	if step.stagedNew {
		step.linked = linked
		return nil
	}
	step.pendingLinked = &linked
	step.pendingChange = true
	o.pendingChange = true
	return nil
}

// StageRemove stages removal of a step, stop or action. Removing a staged
// addition discards it outright; removing a shadow copy reverts the staged
// modification; removing an execution-side entity flags it for deletion at
// the next push.
func (o *Order) StageRemove(entityID kernel.UUID) error {
	if err := o.requireOverlay("stage removal for"); err != nil {
		return err
	}

	if step := o.findStep(entityID); step != nil {
		return o.stageRemoveStep(step)
	}
	if step, stop := o.findStopAnywhere(entityID); stop != nil {
		return o.stageRemoveStop(step, stop)
	}
	if step, stop, action := o.findActionAnywhere(entityID); action != nil {
		return o.stageRemoveAction(step, stop, action)
	}
	return errs.NewObjectNotFoundError("entityId", entityID.String())
}

func (o *Order) stageRemoveStep(step *Step) error {
	if step.stagedNew {
		o.steps = removeStep(o.steps, step)
		o.recomputePendingChange()
		return nil
	}
	if err := o.guardPickupRemoval(pickupItemsOfStep(step), step.id); err != nil {
		return err
	}
	step.deleteRequired = true
	step.pendingChange = true
	o.pendingChange = true
	return nil
}

func (o *Order) stageRemoveStop(step *Step, stop *Stop) error {
	if stop.stagedNew {
		step.stops = removeStop(step.stops, stop)
		o.recomputePendingChange()
		return nil
	}
	if stop.originalID != nil {
		step.stops = removeStop(step.stops, stop)
		if original := o.findStopByID(*stop.originalID); original != nil {
			original.pendingChange = false
		}
		o.recomputePendingChange()
		return nil
	}
	if err := o.guardPickupRemoval(pickupItemsOfStop(stop), stop.id); err != nil {
		return err
	}
	stop.deleteRequired = true
	stop.pendingChange = true
	step.pendingChange = true
	o.pendingChange = true
	return nil
}

func (o *Order) stageRemoveAction(step *Step, stop *Stop, action *Action) error {
	if action.stagedNew {
		stop.actions = removeAction(stop.actions, action)
		o.recomputePendingChange()
		return nil
	}
	if action.originalID != nil {
		stop.actions = removeAction(stop.actions, action)
		if original := o.findActionByID(*action.originalID); original != nil {
			original.pendingChange = false
		}
		o.recomputePendingChange()
		return nil
	}
	if err := o.guardPickupRemoval(pickupItemsOfAction(action), action.id); err != nil {
		return err
	}
	action.deleteRequired = true
	action.pendingChange = true
	stop.pendingChange = true
	step.pendingChange = true
	o.pendingChange = true
	return nil
}

// guardPickupRemoval rejects staging a removal that would orphan delivery
// actions: items picked up inside the removed subtree must not be referenced
// by deliveries that survive it.
func (o *Order) guardPickupRemoval(removedItems map[kernel.UUID]bool, subtreeRoot kernel.UUID) error {
	if len(removedItems) == 0 {
		return nil
	}
	for _, step := range o.steps {
		for _, stop := range step.stops {
			for _, action := range stop.actions {
				if action.kind != ActionKindDelivery || action.deleteRequired {
					continue
				}
				if inSubtree(step, stop, action, subtreeRoot) {
					continue
				}
				if action.transitItemID != nil && removedItems[*action.transitItemID] {
					return errs.NewValidationError(fmt.Sprintf(
						"cannot remove pickup of transit item %s still referenced by delivery action %s",
						action.transitItemID, action.id))
				}
			}
		}
	}
	return nil
}

// PendingOperations enumerates the staged edits that the next push will try
// to apply, in tree order. Staged subtrees report as a single create.
func (o *Order) PendingOperations() []ChangeOperation {
	var ops []ChangeOperation
	for _, step := range o.steps {
		switch {
		case step.stagedNew:
			ops = append(ops, ChangeOperation{Kind: ChangeOpCreate, Entity: "step", EntityID: step.id, TargetID: step.id})
			continue
		case step.deleteRequired:
			ops = append(ops, ChangeOperation{Kind: ChangeOpDelete, Entity: "step", EntityID: step.id, TargetID: step.id})
			continue
		}
		if step.pendingLinked != nil {
			ops = append(ops, ChangeOperation{Kind: ChangeOpReplace, Entity: "step", EntityID: step.id, TargetID: step.id})
		}
		for _, stop := range step.stops {
			switch {
			case stop.stagedNew:
				ops = append(ops, ChangeOperation{Kind: ChangeOpCreate, Entity: "stop", EntityID: stop.id, TargetID: stop.id})
				continue
			case stop.originalID != nil:
				ops = append(ops, ChangeOperation{Kind: ChangeOpReplace, Entity: "stop", EntityID: stop.id, TargetID: *stop.originalID})
				continue
			case stop.deleteRequired:
				ops = append(ops, ChangeOperation{Kind: ChangeOpDelete, Entity: "stop", EntityID: stop.id, TargetID: stop.id})
				continue
			}
			for _, action := range stop.actions {
				switch {
				case action.stagedNew:
					ops = append(ops, ChangeOperation{Kind: ChangeOpCreate, Entity: "action", EntityID: action.id, TargetID: action.id})
				case action.originalID != nil:
					ops = append(ops, ChangeOperation{Kind: ChangeOpReplace, Entity: "action", EntityID: action.id, TargetID: *action.originalID})
				case action.deleteRequired:
					ops = append(ops, ChangeOperation{Kind: ChangeOpDelete, Entity: "action", EntityID: action.id, TargetID: action.id})
				}
			}
		}
	}
	return ops
}

// Push applies the staged overlay to the execution record as one batch.
// Edits whose target is already terminal or gone are dropped and reported as
// conflicts; everything else lands. Repeating the last idempotency key is a
// recorded no-op, so retried requests cannot double-apply.
func (o *Order) Push(idempotencyKey string) (PushOutcome, error) {
	if err := o.requireOverlay("push changes to"); err != nil {
		return PushOutcome{}, err
	}
	if idempotencyKey != "" && idempotencyKey == o.lastPushKey {
		return PushOutcome{Replayed: true}, nil
	}
	if len(o.PendingOperations()) == 0 {
		o.lastPushKey = idempotencyKey
		return PushOutcome{NoOp: true}, nil
	}

	outcome := PushOutcome{}
	stopsTouched := false

	newSteps := make([]*Step, 0, len(o.steps))
	for _, step := range o.steps {
		switch {
		case step.stagedNew:
			clearStepMarkers(step)
			outcome.Applied++
			stopsTouched = true
			newSteps = append(newSteps, step)
			continue
		case step.deleteRequired:
			if blocked := closedStopOf(step); blocked != nil {
				outcome.Conflicts = append(outcome.Conflicts, errs.PushConflict{
					Entity: "step", ID: step.id.String(), Op: ChangeOpDelete.String(),
					Reason: fmt.Sprintf("stop %s already %s", blocked.id, blocked.status),
				})
				step.deleteRequired = false
				step.pendingChange = false
			} else {
				outcome.Applied++
				stopsTouched = true
				continue
			}
		}

		if step.pendingLinked != nil {
			step.linked = *step.pendingLinked
			step.pendingLinked = nil
			outcome.Applied++
		}

		applied, conflicts, touched := o.pushStops(step)
		outcome.Applied += applied
		outcome.Conflicts = append(outcome.Conflicts, conflicts...)
		stopsTouched = stopsTouched || touched

		step.pendingChange = false
		newSteps = append(newSteps, step)
	}
	o.steps = newSteps

	o.pendingChange = false
	o.lastPushKey = idempotencyKey
	if stopsTouched {
		o.routeStale = true
	}
	outcome.RouteStale = stopsTouched
	return outcome, nil
}

func (o *Order) pushStops(step *Step) (applied int, conflicts []errs.PushConflict, stopsTouched bool) {
	shadows := make(map[kernel.UUID]*Stop)
	isShadow := make(map[*Stop]bool)
	for _, stop := range step.stops {
		if stop.originalID != nil {
			shadows[*stop.originalID] = stop
			isShadow[stop] = true
		}
	}
	consumed := make(map[kernel.UUID]bool)

	newStops := make([]*Stop, 0, len(step.stops))
	for _, stop := range step.stops {
		// Skip shadows by identity: applying a replacement clears the
		// shadow's originalID before the loop reaches it.
		if isShadow[stop] {
			continue
		}

		if stop.deleteRequired {
			if stop.status.IsClosed() {
				conflicts = append(conflicts, errs.PushConflict{
					Entity: "stop", ID: stop.id.String(), Op: ChangeOpDelete.String(),
					Reason: "already " + stop.status.String(),
				})
				stop.deleteRequired = false
				stop.pendingChange = false
				newStops = append(newStops, stop)
			} else {
				applied++
				stopsTouched = true
			}
			continue
		}

		if shadow, ok := shadows[stop.id]; ok {
			consumed[stop.id] = true
			if stop.status.IsClosed() {
				conflicts = append(conflicts, errs.PushConflict{
					Entity: "stop", ID: stop.id.String(), Op: ChangeOpReplace.String(),
					Reason: "already " + stop.status.String(),
				})
				stop.pendingChange = false
				newStops = append(newStops, stop)
			} else {
				clearStopMarkers(shadow)
				applied++
				stopsTouched = true
				newStops = append(newStops, shadow)
			}
			continue
		}

		if stop.stagedNew {
			clearStopMarkers(stop)
			applied++
			stopsTouched = true
			newStops = append(newStops, stop)
			continue
		}

		a, c := pushActions(stop)
		applied += a
		conflicts = append(conflicts, c...)
		stop.pendingChange = false
		newStops = append(newStops, stop)
	}

	// Shadows whose original vanished in the same batch are conflicts too.
	for originalID := range shadows {
		if !consumed[originalID] {
			conflicts = append(conflicts, errs.PushConflict{
				Entity: "stop", ID: originalID.String(), Op: ChangeOpReplace.String(),
				Reason: "target no longer exists",
			})
		}
	}

	step.stops = newStops
	return applied, conflicts, stopsTouched
}

func pushActions(stop *Stop) (applied int, conflicts []errs.PushConflict) {
	shadows := make(map[kernel.UUID]*Action)
	isShadow := make(map[*Action]bool)
	for _, action := range stop.actions {
		if action.originalID != nil {
			shadows[*action.originalID] = action
			isShadow[action] = true
		}
	}
	consumed := make(map[kernel.UUID]bool)

	newActions := make([]*Action, 0, len(stop.actions))
	for _, action := range stop.actions {
		if isShadow[action] {
			continue
		}

		if action.deleteRequired {
			if action.status.IsTerminal() {
				conflicts = append(conflicts, errs.PushConflict{
					Entity: "action", ID: action.id.String(), Op: ChangeOpDelete.String(),
					Reason: "already " + action.status.String(),
				})
				action.deleteRequired = false
				action.pendingChange = false
				newActions = append(newActions, action)
			} else {
				applied++
			}
			continue
		}

		if shadow, ok := shadows[action.id]; ok {
			consumed[action.id] = true
			if action.status.IsTerminal() {
				conflicts = append(conflicts, errs.PushConflict{
					Entity: "action", ID: action.id.String(), Op: ChangeOpReplace.String(),
					Reason: "already " + action.status.String(),
				})
				action.pendingChange = false
				newActions = append(newActions, action)
			} else {
				clearActionMarkers(shadow)
				applied++
				newActions = append(newActions, shadow)
			}
			continue
		}

		if action.stagedNew {
			clearActionMarkers(action)
			applied++
			newActions = append(newActions, action)
			continue
		}

		action.pendingChange = false
		newActions = append(newActions, action)
	}

	for originalID := range shadows {
		if !consumed[originalID] {
			conflicts = append(conflicts, errs.PushConflict{
				Entity: "action", ID: originalID.String(), Op: ChangeOpReplace.String(),
				Reason: "target no longer exists",
			})
		}
	}

	stop.actions = newActions
	return applied, conflicts
}

// revalidateOrRollback re-checks referential integrity after a staged
// structural edit and undoes the edit when the tree no longer holds together.
func (o *Order) revalidateOrRollback(rollback func()) error {
	if err := validateItemReferences(o.steps, o.transitItems); err != nil {
		rollback()
		return err
	}
	return nil
}

func (o *Order) undoStopReplace(step *Step, idx int, prev, target *Stop) {
	stops := make([]*Stop, 0, len(step.stops))
	for _, stop := range step.stops {
		if stop.originalID != nil && stop.originalID.IsEqual(target.id) && stop != prev {
			continue
		}
		stops = append(stops, stop)
	}
	if idx < len(stops) {
		stops[idx] = prev
	}
	step.stops = stops
	target.pendingChange = false
}

func (o *Order) undoActionReplace(stop *Stop, idx int, prev, target *Action) {
	actions := make([]*Action, 0, len(stop.actions))
	for _, action := range stop.actions {
		if action.originalID != nil && action.originalID.IsEqual(target.id) && action != prev {
			continue
		}
		actions = append(actions, action)
	}
	if idx < len(actions) {
		actions[idx] = prev
	}
	stop.actions = actions
	target.pendingChange = false
}

// recomputePendingChange rebuilds the order-level flag after a staged edit
// was discarded, since the discarded edit may have been the last one.
func (o *Order) recomputePendingChange() {
	o.pendingChange = len(o.PendingOperations()) > 0
}

func (o *Order) findStep(stepID kernel.UUID) *Step {
	for _, step := range o.steps {
		if step.id.IsEqual(stepID) {
			return step
		}
	}
	return nil
}

func (o *Order) findStopAnywhere(stopID kernel.UUID) (*Step, *Stop) {
	for _, step := range o.steps {
		for _, stop := range step.stops {
			if stop.id.IsEqual(stopID) {
				return step, stop
			}
		}
	}
	return nil, nil
}

func (o *Order) findActionAnywhere(actionID kernel.UUID) (*Step, *Stop, *Action) {
	for _, step := range o.steps {
		for _, stop := range step.stops {
			for _, action := range stop.actions {
				if action.id.IsEqual(actionID) {
					return step, stop, action
				}
			}
		}
	}
	return nil, nil, nil
}

func (o *Order) findStopByID(stopID kernel.UUID) *Stop {
	_, stop := o.findStopAnywhere(stopID)
	return stop
}

func (o *Order) findActionByID(actionID kernel.UUID) *Action {
	_, _, action := o.findActionAnywhere(actionID)
	return action
}

func stopIndex(step *Step, target *Stop) int {
	for i, stop := range step.stops {
		if stop == target {
			return i
		}
	}
	return -1
}

func actionIndex(stop *Stop, target *Action) int {
	for i, action := range stop.actions {
		if action == target {
			return i
		}
	}
	return -1
}

func removeStep(steps []*Step, target *Step) []*Step {
	out := steps[:0]
	for _, step := range steps {
		if step != target {
			out = append(out, step)
		}
	}
	return out
}

func removeStop(stops []*Stop, target *Stop) []*Stop {
	out := stops[:0]
	for _, stop := range stops {
		if stop != target {
			out = append(out, stop)
		}
	}
	return out
}

func removeAction(actions []*Action, target *Action) []*Action {
	out := actions[:0]
	for _, action := range actions {
		if action != target {
			out = append(out, action)
		}
	}
	return out
}

func markStepStagedNew(step *Step) {
	step.stagedNew = true
	for _, stop := range step.stops {
		markStopStagedNew(stop)
	}
}

func markStopStagedNew(stop *Stop) {
	stop.stagedNew = true
	for _, action := range stop.actions {
		action.stagedNew = true
	}
}

func clearStepMarkers(step *Step) {
	step.pendingChange = false
	step.stagedNew = false
	step.originalID = nil
	step.pendingLinked = nil
	for _, stop := range step.stops {
		clearStopMarkers(stop)
	}
}

func clearStopMarkers(stop *Stop) {
	stop.pendingChange = false
	stop.stagedNew = false
	stop.originalID = nil
	for _, action := range stop.actions {
		clearActionMarkers(action)
	}
}

func clearActionMarkers(action *Action) {
	action.pendingChange = false
	action.stagedNew = false
	action.originalID = nil
}

func closedStopOf(step *Step) *Stop {
	for _, stop := range step.stops {
		if stop.originalID == nil && !stop.stagedNew && stop.status.IsClosed() {
			return stop
		}
	}
	return nil
}

func pickupItemsOfStep(step *Step) map[kernel.UUID]bool {
	items := make(map[kernel.UUID]bool)
	for _, stop := range step.stops {
		for id := range pickupItemsOfStop(stop) {
			items[id] = true
		}
	}
	return items
}

func pickupItemsOfStop(stop *Stop) map[kernel.UUID]bool {
	items := make(map[kernel.UUID]bool)
	for _, action := range stop.actions {
		for id := range pickupItemsOfAction(action) {
			items[id] = true
		}
	}
	return items
}

func pickupItemsOfAction(action *Action) map[kernel.UUID]bool {
	items := make(map[kernel.UUID]bool)
	if action.kind == ActionKindPickup && action.transitItemID != nil && action.originalID == nil {
		items[*action.transitItemID] = true
	}
	return items
}

func inSubtree(step *Step, stop *Stop, action *Action, root kernel.UUID) bool {
	return step.id.IsEqual(root) || stop.id.IsEqual(root) || action.id.IsEqual(root)
}
