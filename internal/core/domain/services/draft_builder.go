package services

import (
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// DraftInput is the office's description of a new order. Transit items are
// declared inline on pickup actions and referenced by a caller-chosen local id
// from delivery actions; the builder hoists them to order level.
type DraftInput struct {
	OrderID   kernel.UUID
	FleetOnly bool
	DriverID  *kernel.UUID
	Steps     []DraftStep
}

// DraftStep describes one step of the draft, stops in travel order.
type DraftStep struct {
	Linked bool
	Stops  []DraftStop
}

// DraftStop describes one stop of the draft, actions included.
type DraftStop struct {
	Address order.Address
	Window  *kernel.TimeWindow
	Contact order.Contact
	Actions []DraftAction
}

// DraftAction describes one action. Pickup actions declare the item they
// create via Item; delivery actions reference one via ItemRef; service
// actions carry neither.
type DraftAction struct {
	Kind           order.ActionKind
	Quantity       int
	ServiceTimeSec int
	Item           *DraftItem
	ItemRef        string
	Rules          []DraftRule
}

// DraftItem describes a transit item declared on a pickup action. LocalID
// correlates the declaration with delivery references; declaring the same
// LocalID twice is allowed and merges into a single item.
type DraftItem struct {
	LocalID         string
	Name            string
	Description     string
	Packaging       order.PackagingType
	WeightKg        float64
	VolumeM3        float64
	Dimensions      order.Dimensions
	UnitPriceCents  int64
	RequirementTags []string
	ProductTags     []string
}

// DraftRule describes a confirmation requirement on an action.
type DraftRule struct {
	Name       string
	Kind       order.ProofKind
	AtPickup   bool
	AtDelivery bool
	Compare    bool
}

// DraftBuilder assembles a Draft order from office input: it hoists inline
// item declarations to order level, resolves delivery references against
// them, reindexes step and stop sequences, and derives the assignment mode.
type DraftBuilder struct{}

// NewDraftBuilder creates a new DraftBuilder instance.
func NewDraftBuilder() *DraftBuilder {
	return &DraftBuilder{}
}

// Build assembles and validates the draft. Every stop must carry at least one
// action, every pickup must declare its item, and every delivery reference
// must resolve to a declared item.
func (b *DraftBuilder) Build(input DraftInput) (*order.Order, error) {
	items, itemIDs, err := hoistItems(input.Steps)
	if err != nil {
		return nil, err
	}

	steps := make([]*order.Step, 0, len(input.Steps))
	for stepIdx, draftStep := range input.Steps {
		stops := make([]*order.Stop, 0, len(draftStep.Stops))
		for stopIdx, draftStop := range draftStep.Stops {
			if len(draftStop.Actions) == 0 {
				return nil, errs.NewValidationError(fmt.Sprintf(
					"stop %d of step %d has no actions", stopIdx, stepIdx))
			}

			actions := make([]*order.Action, 0, len(draftStop.Actions))
			for _, draftAction := range draftStop.Actions {
				action, err := buildAction(draftAction, itemIDs)
				if err != nil {
					return nil, err
				}
				actions = append(actions, action)
			}

			stop, err := order.NewStop(kernel.NewUUID(), stopIdx,
				draftStop.Address, draftStop.Window, draftStop.Contact, actions)
			if err != nil {
				return nil, err
			}
			stops = append(stops, stop)
		}

		step, err := order.NewStep(kernel.NewUUID(), stepIdx, draftStep.Linked, stops)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	return order.NewOrder(input.OrderID, deriveAssignmentMode(input), input.DriverID, steps, items)
}

func deriveAssignmentMode(input DraftInput) order.AssignmentMode {
	switch {
	case input.DriverID != nil:
		return order.AssignmentModeTarget
	case input.FleetOnly:
		return order.AssignmentModeInternal
	default:
		return order.AssignmentModeGlobal
	}
}

// hoistItems collects the inline item declarations of pickup actions into
// order-level transit items, deduplicated by local id.
func hoistItems(steps []DraftStep) ([]*order.TransitItem, map[string]kernel.UUID, error) {
	items := make([]*order.TransitItem, 0)
	itemIDs := make(map[string]kernel.UUID)

	for _, step := range steps {
		for _, stop := range step.Stops {
			for _, action := range stop.Actions {
				if action.Kind != order.ActionKindPickup {
					continue
				}
				if action.Item == nil {
					return nil, nil, errs.NewValueIsRequiredError("pickup action item")
				}
				if action.Item.LocalID == "" {
					return nil, nil, errs.NewValueIsRequiredError("transit item local id")
				}
				if _, ok := itemIDs[action.Item.LocalID]; ok {
					continue
				}

				item, err := order.NewTransitItem(
					kernel.NewUUID(),
					action.Item.Name,
					action.Item.Description,
					action.Item.Packaging,
					action.Item.WeightKg,
					action.Item.VolumeM3,
					action.Item.Dimensions,
					action.Item.UnitPriceCents,
					action.Item.RequirementTags,
					action.Item.ProductTags,
				)
				if err != nil {
					return nil, nil, err
				}
				items = append(items, item)
				itemIDs[action.Item.LocalID] = item.ID()
			}
		}
	}
	return items, itemIDs, nil
}

func buildAction(draft DraftAction, itemIDs map[string]kernel.UUID) (*order.Action, error) {
	rules := make([]*order.ConfirmationRule, 0, len(draft.Rules))
	for _, draftRule := range draft.Rules {
		rule, err := order.NewConfirmationRule(
			draftRule.Name, draftRule.Kind, draftRule.AtPickup, draftRule.AtDelivery, draftRule.Compare)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	var itemID *kernel.UUID
	switch draft.Kind {
	case order.ActionKindPickup:
		id := itemIDs[draft.Item.LocalID]
		itemID = &id
	case order.ActionKindDelivery:
		id, ok := itemIDs[draft.ItemRef]
		if !ok {
			return nil, errs.NewValidationError(fmt.Sprintf(
				"delivery action references undeclared item %q", draft.ItemRef))
		}
		itemID = &id
	}

	return order.NewAction(kernel.NewUUID(), draft.Kind, draft.Quantity, draft.ServiceTimeSec, itemID, rules)
}
