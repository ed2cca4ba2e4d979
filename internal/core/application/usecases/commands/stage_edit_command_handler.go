package commands

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// StageEditCommandHandler materializes edit payloads into domain entities and
// records them in the order's pending-change overlay. Nothing here reaches
// the execution record; that happens when the overlay is pushed.
type StageEditCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewStageEditCommandHandler creates a handler for staged edit operations.
func NewStageEditCommandHandler(uowFactory OrderUoWFactory) StageEditCommandHandler {
	return StageEditCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes one staged edit.
func (h *StageEditCommandHandler) Handle(ctx context.Context, cmd StageEditCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = applyEdit(aggregate, cmd); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func applyEdit(aggregate *order.Order, cmd StageEditCommand) error {
	switch cmd.Kind() {
	case EditKindAddStep:
		step, err := buildEditStep(aggregate, cmd.Step())
		if err != nil {
			return err
		}
		return aggregate.StageAddStep(step)

	case EditKindAddStop:
		stop, err := buildEditStop(aggregate, cmd.Stop())
		if err != nil {
			return err
		}
		return aggregate.StageAddStop(cmd.TargetID(), stop)

	case EditKindAddAction:
		action, err := buildEditAction(aggregate, cmd.Action())
		if err != nil {
			return err
		}
		return aggregate.StageAddAction(cmd.TargetID(), action)

	case EditKindReplaceStop:
		stop, err := buildEditStop(aggregate, cmd.Stop())
		if err != nil {
			return err
		}
		return aggregate.StageReplaceStop(cmd.TargetID(), stop)

	case EditKindReplaceAction:
		action, err := buildEditAction(aggregate, cmd.Action())
		if err != nil {
			return err
		}
		return aggregate.StageReplaceAction(cmd.TargetID(), action)

	case EditKindUpdateStep:
		return aggregate.StageUpdateStep(cmd.TargetID(), cmd.Linked())

	case EditKindRemove:
		return aggregate.StageRemove(cmd.TargetID())

	default:
		return ErrEditPayloadIsRequired
	}
}

func buildEditStep(aggregate *order.Order, payload *EditStep) (*order.Step, error) {
	if payload == nil {
		return nil, ErrEditPayloadIsRequired
	}

	stops := make([]*order.Stop, 0, len(payload.Stops))
	for _, stopPayload := range payload.Stops {
		stop, err := buildEditStop(aggregate, &stopPayload)
		if err != nil {
			return nil, err
		}
		stops = append(stops, stop)
	}

	return order.NewStep(kernel.NewUUID(), payload.Sequence, payload.Linked, stops)
}

func buildEditStop(aggregate *order.Order, payload *EditStop) (*order.Stop, error) {
	if payload == nil {
		return nil, ErrEditPayloadIsRequired
	}

	actions := make([]*order.Action, 0, len(payload.Actions))
	for _, actionPayload := range payload.Actions {
		action, err := buildEditAction(aggregate, &actionPayload)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}

	return order.NewStop(kernel.NewUUID(), payload.Sequence,
		payload.Address, payload.Window, payload.Contact, actions)
}

func buildEditAction(aggregate *order.Order, payload *EditAction) (*order.Action, error) {
	if payload == nil {
		return nil, ErrEditPayloadIsRequired
	}

	itemID := payload.TransitItemID
	if payload.NewItem != nil {
		item, err := order.NewTransitItem(
			kernel.NewUUID(),
			payload.NewItem.Name,
			payload.NewItem.Description,
			payload.NewItem.Packaging,
			payload.NewItem.WeightKg,
			payload.NewItem.VolumeM3,
			payload.NewItem.Dimensions,
			payload.NewItem.UnitPriceCents,
			payload.NewItem.RequirementTags,
			payload.NewItem.ProductTags,
		)
		if err != nil {
			return nil, err
		}
		if err = aggregate.AddTransitItem(item); err != nil {
			return nil, err
		}
		id := item.ID()
		itemID = &id
	}

	rules := make([]*order.ConfirmationRule, 0, len(payload.Rules))
	for _, rulePayload := range payload.Rules {
		rule, err := order.NewConfirmationRule(rulePayload.Name, rulePayload.Kind,
			rulePayload.AtPickup, rulePayload.AtDelivery, rulePayload.Compare)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return order.NewAction(kernel.NewUUID(), payload.Kind,
		payload.Quantity, payload.ServiceTimeSec, itemID, rules)
}
