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

func pendingOrder(t *testing.T, driverID *kernel.UUID) *order.Order {
	t.Helper()
	aggregate, err := services.NewDraftBuilder().Build(services.DraftInput{
		OrderID:  kernel.NewUUID(),
		DriverID: driverID,
		Steps:    draftSteps(t),
	})
	require.NoError(t, err)
	require.NoError(t, aggregate.Submit())
	return aggregate
}

func TestAcceptMissionCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrder(t, nil)
	driverID := kernel.NewUUID()

	cmd, err := commands.NewAcceptMissionCommand(aggregate.ID(), driverID)
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

	publisher := new(MockEventPublisher)
	publisher.On("PublishOrderChanged", ctx, aggregate).Return(nil).Once()

	handler := commands.NewAcceptMissionCommandHandler(factory, publisher)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StatusAccepted, aggregate.Status())
	require.NotNil(t, aggregate.DriverID())
	assert.True(t, aggregate.DriverID().IsEqual(driverID))

	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestAcceptMissionCommandHandler_Handle_WrongTargetDriver(t *testing.T) {
	ctx := t.Context()
	targetDriver := kernel.NewUUID()
	aggregate := pendingOrder(t, &targetDriver)

	cmd, err := commands.NewAcceptMissionCommand(aggregate.ID(), kernel.NewUUID())
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

	publisher := new(MockEventPublisher)

	handler := commands.NewAcceptMissionCommandHandler(factory, publisher)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Equal(t, order.StatusPending, aggregate.Status())
	orderRepo.AssertNotCalled(t, "Update", ctx, aggregate)
	uow.AssertNotCalled(t, "Commit", ctx)
	publisher.AssertNotCalled(t, "PublishOrderChanged", ctx, aggregate)
}

func TestAcceptMissionCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.AcceptMissionCommand{} // not constructed properly

	factory := new(MockOrderUoWFactory)
	publisher := new(MockEventPublisher)
	handler := commands.NewAcceptMissionCommandHandler(factory, publisher)
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrAcceptMissionCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestAcceptMissionCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, err := commands.NewAcceptMissionCommand(orderID, kernel.NewUUID())
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

	publisher := new(MockEventPublisher)

	handler := commands.NewAcceptMissionCommandHandler(factory, publisher)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	publisher.AssertNotCalled(t, "PublishOrderChanged", ctx, aggregateAny())
}

// aggregateAny returns the matcher used when the aggregate never loaded.
func aggregateAny() any {
	return mock.AnythingOfType("*order.Order")
}
