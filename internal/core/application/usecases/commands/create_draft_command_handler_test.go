package commands_test

import (
	"errors"
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateDraftCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateDraftCommand(orderID, false, nil, draftSteps(t))
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateDraftCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)

	added := orderRepo.Calls[0].Arguments.Get(1).(*order.Order)
	require.Equal(t, order.StatusDraft, added.Status())
	require.True(t, added.ID().IsEqual(orderID))
	require.Len(t, added.TransitItems(), 1)
}

func TestCreateDraftCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateDraftCommand{} // not constructed properly

	factory := new(MockOrderUoWFactory)
	handler := commands.NewCreateDraftCommandHandler(factory)
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrCreateDraftCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateDraftCommandHandler_Handle_BuildError(t *testing.T) {
	ctx := t.Context()

	// Delivery without a matching pickup declaration.
	steps := draftSteps(t)
	steps[0].Stops = steps[0].Stops[1:]
	cmd, err := commands.NewCreateDraftCommand(kernel.NewUUID(), false, nil, steps)
	require.NoError(t, err)

	factory := new(MockOrderUoWFactory)
	handler := commands.NewCreateDraftCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateDraftCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateDraftCommand(kernel.NewUUID(), false, nil, draftSteps(t))
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
			Return(errors.New("insert failed")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateDraftCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.EqualError(t, err, "insert failed")
	uow.AssertNotCalled(t, "Commit", ctx)
}
