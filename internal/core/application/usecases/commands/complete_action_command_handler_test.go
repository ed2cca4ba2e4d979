package commands_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubPhotoMatcher struct{ match bool }

func (s stubPhotoMatcher) Match(_, _ string) (bool, error) {
	return s.match, nil
}

// codeConfirmedOrder builds an accepted order whose single item travels under
// a comparing handover code, with the driver already arrived at the pickup.
func codeConfirmedOrder(t *testing.T) *order.Order {
	t.Helper()
	steps := draftSteps(t)
	rule := services.DraftRule{
		Name:       "handover-code",
		Kind:       order.ProofKindCode,
		AtPickup:   true,
		AtDelivery: true,
		Compare:    true,
	}
	steps[0].Stops[0].Actions[0].Rules = []services.DraftRule{rule}
	steps[0].Stops[1].Actions[0].Rules = []services.DraftRule{rule}

	aggregate, err := services.NewDraftBuilder().Build(services.DraftInput{
		OrderID: kernel.NewUUID(),
		Steps:   steps,
	})
	require.NoError(t, err)
	require.NoError(t, aggregate.Submit())
	require.NoError(t, aggregate.Accept(kernel.NewUUID()))
	require.NoError(t, aggregate.ArriveAtStop(aggregate.Steps()[0].Stops()[0].ID()))
	return aggregate
}

func TestCompleteActionCommandHandler_Handle_CapturesPickupCode(t *testing.T) {
	ctx := t.Context()
	aggregate := codeConfirmedOrder(t)
	pickupAction := aggregate.Steps()[0].Stops()[0].Actions()[0]

	cmd, err := commands.NewCompleteActionCommand(aggregate.ID(), pickupAction.ID(),
		map[string]string{"handover-code": "4471"})
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("Update", ctx, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteActionCommandHandler(factory, stubPhotoMatcher{match: true})
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.ActionStatusCompleted, pickupAction.Status())
	assert.Equal(t, "4471", pickupAction.Rules()[0].Reference())

	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCompleteActionCommandHandler_Handle_DeliveryVerifiesPickupCode(t *testing.T) {
	ctx := t.Context()
	aggregate := codeConfirmedOrder(t)
	pickupStop := aggregate.Steps()[0].Stops()[0]
	deliveryStop := aggregate.Steps()[0].Stops()[1]
	pickupAction := pickupStop.Actions()[0]
	deliveryAction := deliveryStop.Actions()[0]

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)

	uow.On("Begin", ctx).Return(nil).Twice()
	uow.On("OrderRepository").Return(orderRepo).Twice()
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Twice()
	orderRepo.On("Update", ctx, aggregate).Return(nil).Twice()
	uow.On("Commit", ctx).Return(nil).Twice()
	uow.On("Rollback", ctx).Return(nil).Twice()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Twice()

	handler := commands.NewCompleteActionCommandHandler(factory, stubPhotoMatcher{match: true})

	// The courier hands over the code at pickup.
	pickupCmd, err := commands.NewCompleteActionCommand(aggregate.ID(), pickupAction.ID(),
		map[string]string{"handover-code": "4471"})
	require.NoError(t, err)
	require.NoError(t, handler.Handle(ctx, pickupCmd))
	require.NoError(t, aggregate.CompleteStop(pickupStop.ID()))
	require.NoError(t, aggregate.ArriveAtStop(deliveryStop.ID()))

	// The same code confirms the delivery.
	deliveryCmd, err := commands.NewCompleteActionCommand(aggregate.ID(), deliveryAction.ID(),
		map[string]string{"handover-code": "4471"})
	require.NoError(t, err)
	require.NoError(t, handler.Handle(ctx, deliveryCmd))

	assert.Equal(t, order.ActionStatusCompleted, deliveryAction.Status())
	assert.Equal(t, "4471", deliveryAction.Rules()[0].Reference())

	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCompleteActionCommandHandler_Handle_MissingProof(t *testing.T) {
	ctx := t.Context()
	aggregate := codeConfirmedOrder(t)
	pickupAction := aggregate.Steps()[0].Stops()[0].Actions()[0]

	cmd, err := commands.NewCompleteActionCommand(aggregate.ID(), pickupAction.ID(), nil)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteActionCommandHandler(factory, stubPhotoMatcher{match: true})
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrProofValidation)
	assert.Equal(t, order.ActionStatusArrived, pickupAction.Status())
	orderRepo.AssertNotCalled(t, "Update", ctx, aggregate)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestCompleteActionCommandHandler_Handle_StagedActionNotFound(t *testing.T) {
	ctx := t.Context()
	aggregate := codeConfirmedOrder(t)
	pickupStop := aggregate.Steps()[0].Stops()[0]
	require.NoError(t, aggregate.StageAddAction(pickupStop.ID(), mustAction(t, aggregate)))
	stagedID := pickupStop.Actions()[1].ID()

	cmd, err := commands.NewCompleteActionCommand(aggregate.ID(), stagedID, nil)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCompleteActionCommandHandler(factory, stubPhotoMatcher{match: true})
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func mustAction(t *testing.T, aggregate *order.Order) *order.Action {
	t.Helper()
	itemID := aggregate.TransitItems()[0].ID()
	action, err := order.NewAction(kernel.NewUUID(), order.ActionKindPickup, 1, 0, &itemID, nil)
	require.NoError(t, err)
	return action
}
