package commands_test

import (
	"errors"
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPushChangesCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := acceptedOrder(t)
	deliveryStop := aggregate.Steps()[0].Stops()[1]
	require.NoError(t, aggregate.StageRemove(deliveryStop.ID()))

	cmd, err := commands.NewPushChangesCommand(aggregate.ID(), "push-1")
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

	handler := commands.NewPushChangesCommandHandler(factory, publisher)
	outcome, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Applied)
	assert.Empty(t, outcome.Conflicts)
	assert.True(t, outcome.RouteStale)
	assert.Equal(t, "push-1", aggregate.LastPushKey())

	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestPushChangesCommandHandler_Handle_Replay(t *testing.T) {
	ctx := t.Context()
	aggregate := acceptedOrder(t)
	deliveryStop := aggregate.Steps()[0].Stops()[1]
	require.NoError(t, aggregate.StageRemove(deliveryStop.ID()))

	_, err := aggregate.Push("push-1")
	require.NoError(t, err)

	cmd, err := commands.NewPushChangesCommand(aggregate.ID(), "push-1")
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

	handler := commands.NewPushChangesCommandHandler(factory, publisher)
	outcome, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, outcome.Replayed)
	orderRepo.AssertNotCalled(t, "Update", ctx, aggregate)
	uow.AssertNotCalled(t, "Commit", ctx)
	publisher.AssertNotCalled(t, "PublishOrderChanged", ctx, aggregate)
}

func TestPushChangesCommandHandler_Handle_ConflictsCommitted(t *testing.T) {
	ctx := t.Context()
	aggregate := acceptedOrder(t)
	pickupStop := aggregate.Steps()[0].Stops()[0]
	deliveryStop := aggregate.Steps()[0].Stops()[1]
	require.NoError(t, aggregate.StageRemove(deliveryStop.ID()))

	// The driver closes the delivery stop before the office pushes.
	require.NoError(t, aggregate.ArriveAtStop(pickupStop.ID()))
	require.NoError(t, aggregate.CompleteAction(pickupStop.Actions()[0].ID(), nil))
	require.NoError(t, aggregate.CompleteStop(pickupStop.ID()))
	require.NoError(t, aggregate.ArriveAtStop(deliveryStop.ID()))
	require.NoError(t, aggregate.FailStop(deliveryStop.ID(), "recipient refused"))

	cmd, err := commands.NewPushChangesCommand(aggregate.ID(), "push-2")
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

	handler := commands.NewPushChangesCommandHandler(factory, publisher)
	outcome, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrPushConflict)
	var conflictErr *errs.PushConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, 0, conflictErr.Applied)
	assert.Equal(t, 0, outcome.Applied)
	require.Len(t, outcome.Conflicts, 1)
	assert.Contains(t, outcome.Conflicts[0].Reason, "Failed")
	assert.Empty(t, aggregate.PendingOperations())
	publisher.AssertNotCalled(t, "PublishOrderChanged", ctx, aggregate)

	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestPushChangesCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.PushChangesCommand{} // not constructed properly

	factory := new(MockOrderUoWFactory)
	publisher := new(MockEventPublisher)
	handler := commands.NewPushChangesCommandHandler(factory, publisher)
	outcome, err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrPushChangesCommandIsNotConstructed)
	assert.Equal(t, order.PushOutcome{}, outcome)
	factory.AssertNotCalled(t, "Create")
}

func TestPushChangesCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	aggregate := acceptedOrder(t)
	cmd, err := commands.NewPushChangesCommand(aggregate.ID(), "push-1")
	require.NoError(t, err)

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(errors.New("connect failed")).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)

	handler := commands.NewPushChangesCommandHandler(factory, publisher)
	_, err = handler.Handle(ctx, cmd)

	require.EqualError(t, err, "connect failed")
	uow.AssertExpectations(t)
}
