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

func TestStageEditCommandHandler_Handle_ReplaceStop(t *testing.T) {
	ctx := t.Context()
	aggregate := acceptedOrder(t)
	deliveryStop := aggregate.Steps()[0].Stops()[1]

	point, err := kernel.NewGeoPoint(52.54, 13.42)
	require.NoError(t, err)
	itemID := aggregate.TransitItems()[0].ID()

	cmd, err := commands.NewStageReplaceStopCommand(aggregate.ID(), deliveryStop.ID(), commands.EditStop{
		Address: order.Address{Label: "New customer address", Point: &point},
		Actions: []commands.EditAction{{
			Kind:          order.ActionKindDelivery,
			Quantity:      1,
			TransitItemID: &itemID,
		}},
	})
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

	handler := commands.NewStageEditCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	operations := aggregate.PendingOperations()
	require.Len(t, operations, 1)
	assert.Equal(t, order.ChangeOpReplace, operations[0].Kind)
	// The execution record still shows the original stop.
	assert.Equal(t, "Customer", aggregate.Steps()[0].Stops()[1].Address().Label)

	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestStageEditCommandHandler_Handle_AddActionWithNewItem(t *testing.T) {
	ctx := t.Context()
	aggregate := acceptedOrder(t)
	pickupStop := aggregate.Steps()[0].Stops()[0]

	cmd, err := commands.NewStageAddActionCommand(aggregate.ID(), pickupStop.ID(), commands.EditAction{
		Kind:     order.ActionKindPickup,
		Quantity: 2,
		NewItem: &services.DraftItem{
			LocalID:   "gadget",
			Name:      "Gadget",
			Packaging: order.PackagingBox,
			WeightKg:  0.4,
			VolumeM3:  0.002,
		},
	})
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

	handler := commands.NewStageEditCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	// Inline item declarations land on the order immediately.
	require.Len(t, aggregate.TransitItems(), 2)
	require.Len(t, aggregate.PendingOperations(), 1)

	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestStageEditCommandHandler_Handle_DomainError(t *testing.T) {
	ctx := t.Context()
	aggregate := acceptedOrder(t)
	pickupStop := aggregate.Steps()[0].Stops()[0]

	// Removing the pickup would orphan the delivery of the same item.
	cmd, err := commands.NewStageRemoveCommand(aggregate.ID(), pickupStop.ID())
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

	handler := commands.NewStageEditCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValidation)
	orderRepo.AssertNotCalled(t, "Update", ctx, aggregate)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestStageEditCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.StageEditCommand{} // not constructed properly

	factory := new(MockOrderUoWFactory)
	handler := commands.NewStageEditCommandHandler(factory)
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrStageEditCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestStageEditCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, err := commands.NewStageRemoveCommand(orderID, kernel.NewUUID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, orderID).
			Return(nil, errs.NewObjectNotFoundError("orderID", orderID)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStageEditCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertNotCalled(t, "Commit", ctx)
}
