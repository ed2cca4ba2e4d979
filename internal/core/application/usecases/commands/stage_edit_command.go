package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/guard"
)

var (
	ErrStageEditCommandIsNotConstructed = errors.New(
		"StageEditCommand must be created via a NewStage*Command constructor",
	)
	ErrEditPayloadIsRequired = errors.New("edit payload is required")
)

// EditKind classifies a staged edit request.
type EditKind int

const (
	EditKindUnknown EditKind = iota
	EditKindAddStep
	EditKindAddStop
	EditKindAddAction
	EditKindReplaceStop
	EditKindReplaceAction
	EditKindUpdateStep
	EditKindRemove
)

// EditStep describes a step to stage, subtree included.
type EditStep struct {
	Sequence int
	Linked   bool
	Stops    []EditStop
}

// EditStop describes a stop to stage or a full replacement of one.
type EditStop struct {
	Sequence int
	Address  order.Address
	Window   *kernel.TimeWindow
	Contact  order.Contact
	Actions  []EditAction
}

// EditAction describes an action to stage. The transit item is referenced by
// id when it already exists on the order, or declared inline via NewItem.
type EditAction struct {
	Kind           order.ActionKind
	Quantity       int
	ServiceTimeSec int
	TransitItemID  *kernel.UUID
	NewItem        *services.DraftItem
	Rules          []services.DraftRule
}

// StageEditCommand represents one staged edit against an in-flight order.
// Staged edits accumulate in the order's pending-change overlay and take
// effect only when pushed.
type StageEditCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	kind     EditKind
	targetID kernel.UUID

	step   *EditStep
	stop   *EditStop
	action *EditAction
	linked bool

	guard guard.ConstructorGuard
}

// NewStageAddStepCommand creates a command staging the addition of a step.
func NewStageAddStepCommand(orderID kernel.UUID, step EditStep) (StageEditCommand, error) {
	cmd := StageEditCommand{kind: EditKindAddStep, step: &step, guard: guard.NewConstructorGuard()}
	if err := cmd.setOrderID(orderID); err != nil {
		return StageEditCommand{}, err
	}
	return cmd, nil
}

// NewStageAddStopCommand creates a command staging the addition of a stop
// under the given step.
func NewStageAddStopCommand(orderID, stepID kernel.UUID, stop EditStop) (StageEditCommand, error) {
	cmd := StageEditCommand{kind: EditKindAddStop, stop: &stop, guard: guard.NewConstructorGuard()}
	if err := errors.Join(cmd.setOrderID(orderID), cmd.setTargetID(stepID)); err != nil {
		return StageEditCommand{}, err
	}
	return cmd, nil
}

// NewStageAddActionCommand creates a command staging the addition of an
// action under the given stop.
func NewStageAddActionCommand(orderID, stopID kernel.UUID, action EditAction) (StageEditCommand, error) {
	cmd := StageEditCommand{kind: EditKindAddAction, action: &action, guard: guard.NewConstructorGuard()}
	if err := errors.Join(cmd.setOrderID(orderID), cmd.setTargetID(stopID)); err != nil {
		return StageEditCommand{}, err
	}
	return cmd, nil
}

// NewStageReplaceStopCommand creates a command staging a full replacement of
// the given stop.
func NewStageReplaceStopCommand(orderID, stopID kernel.UUID, stop EditStop) (StageEditCommand, error) {
	cmd := StageEditCommand{kind: EditKindReplaceStop, stop: &stop, guard: guard.NewConstructorGuard()}
	if err := errors.Join(cmd.setOrderID(orderID), cmd.setTargetID(stopID)); err != nil {
		return StageEditCommand{}, err
	}
	return cmd, nil
}

// NewStageReplaceActionCommand creates a command staging a full replacement
// of the given action.
func NewStageReplaceActionCommand(orderID, actionID kernel.UUID, action EditAction) (StageEditCommand, error) {
	cmd := StageEditCommand{kind: EditKindReplaceAction, action: &action, guard: guard.NewConstructorGuard()}
	if err := errors.Join(cmd.setOrderID(orderID), cmd.setTargetID(actionID)); err != nil {
		return StageEditCommand{}, err
	}
	return cmd, nil
}

// NewStageUpdateStepCommand creates a command staging a patch of the given
// step's linked flag.
func NewStageUpdateStepCommand(orderID, stepID kernel.UUID, linked bool) (StageEditCommand, error) {
	cmd := StageEditCommand{kind: EditKindUpdateStep, linked: linked, guard: guard.NewConstructorGuard()}
	if err := errors.Join(cmd.setOrderID(orderID), cmd.setTargetID(stepID)); err != nil {
		return StageEditCommand{}, err
	}
	return cmd, nil
}

// NewStageRemoveCommand creates a command staging removal of a step, stop or
// action.
func NewStageRemoveCommand(orderID, entityID kernel.UUID) (StageEditCommand, error) {
	cmd := StageEditCommand{kind: EditKindRemove, guard: guard.NewConstructorGuard()}
	if err := errors.Join(cmd.setOrderID(orderID), cmd.setTargetID(entityID)); err != nil {
		return StageEditCommand{}, err
	}
	return cmd, nil
}

// Validate ensures the command was created through a constructor.
func (c StageEditCommand) Validate() error {
	return c.guard.Validate(ErrStageEditCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c StageEditCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Kind returns the staged edit's kind.
func (c StageEditCommand) Kind() EditKind {
	return c.kind
}

// TargetID returns the entity the edit is aimed at. Zero for step additions.
func (c StageEditCommand) TargetID() kernel.UUID {
	return c.targetID
}

// Step returns the step payload for step additions, nil otherwise.
func (c StageEditCommand) Step() *EditStep {
	return c.step
}

// Stop returns the stop payload for stop additions and replacements, nil otherwise.
func (c StageEditCommand) Stop() *EditStop {
	return c.stop
}

// Action returns the action payload for action additions and replacements, nil otherwise.
func (c StageEditCommand) Action() *EditAction {
	return c.action
}

// Linked returns the staged linked flag for step updates.
func (c StageEditCommand) Linked() bool {
	return c.linked
}

func (c *StageEditCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *StageEditCommand) setTargetID(targetID kernel.UUID) error {
	if err := targetID.Validate(); err != nil {
		return err
	}

	c.targetID = targetID
	return nil
}
