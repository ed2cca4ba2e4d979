package order_test

import (
	"testing"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStaging(t *testing.T) {
	t.Run("should reject staging on a draft", func(t *testing.T) {
		f := newDraftFixture(t)
		replacement := newTestStop(t, 0, "Moved warehouse")

		err := f.order.StageReplaceStop(f.pickupStop.ID(), replacement)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("should stage stop replacement without touching execution", func(t *testing.T) {
		f := newAcceptedFixture(t)
		itemID := f.item.ID()
		replacement := newTestStop(t, 1, "New customer address",
			newTestAction(t, order.ActionKindDelivery, &itemID))

		require.NoError(t, f.order.StageReplaceStop(f.deliveryStop.ID(), replacement))

		assert.True(t, f.order.PendingChange())
		assert.True(t, f.deliveryStop.PendingChange())
		require.NotNil(t, replacement.OriginalID())
		assert.True(t, replacement.OriginalID().IsEqual(f.deliveryStop.ID()))

		// The field still sees the original.
		require.NoError(t, f.order.ArriveAtStop(f.pickupStop.ID()))
		ops := f.order.PendingOperations()
		require.Len(t, ops, 1)
		assert.Equal(t, order.ChangeOpReplace, ops[0].Kind)
		assert.Equal(t, "stop", ops[0].Entity)
	})

	t.Run("should discard a staged addition on remove", func(t *testing.T) {
		f := newAcceptedFixture(t)
		itemID := f.item.ID()
		extra := newTestAction(t, order.ActionKindPickup, &itemID)
		require.NoError(t, f.order.StageAddAction(f.pickupStop.ID(), extra))
		require.True(t, f.order.PendingChange())

		require.NoError(t, f.order.StageRemove(extra.ID()))

		assert.Empty(t, f.order.PendingOperations())
		assert.False(t, f.order.PendingChange())
	})

	t.Run("should revert a staged modification on remove of the shadow", func(t *testing.T) {
		f := newAcceptedFixture(t)
		itemID := f.item.ID()
		replacement := newTestStop(t, 1, "New customer address",
			newTestAction(t, order.ActionKindDelivery, &itemID))
		require.NoError(t, f.order.StageReplaceStop(f.deliveryStop.ID(), replacement))

		require.NoError(t, f.order.StageRemove(replacement.ID()))

		assert.Empty(t, f.order.PendingOperations())
		assert.False(t, f.deliveryStop.PendingChange())
	})

	t.Run("should reject removing a pickup still referenced by a delivery", func(t *testing.T) {
		f := newAcceptedFixture(t)

		err := f.order.StageRemove(f.pickupAction.ID())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Contains(t, err.Error(), "still referenced by delivery")
	})

	t.Run("should reject a staged delivery without a pickup", func(t *testing.T) {
		f := newAcceptedFixture(t)
		orphanID := kernel.NewUUID()
		item, err := order.NewTransitItem(orphanID, "Orphan", "", order.PackagingBox,
			1, 0.01, order.Dimensions{LengthCm: 1, WidthCm: 1, HeightCm: 1}, 0, nil, nil)
		require.NoError(t, err)
		require.NoError(t, f.order.AddTransitItem(item))
		delivery := newTestAction(t, order.ActionKindDelivery, &orphanID)

		err = f.order.StageAddAction(f.deliveryStop.ID(), delivery)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Empty(t, f.order.PendingOperations())
	})

	t.Run("should patch step linked flag only at push time", func(t *testing.T) {
		f := newAcceptedFixture(t)

		require.NoError(t, f.order.StageUpdateStep(f.step.ID(), false))
		assert.True(t, f.step.Linked())

		outcome, err := f.order.Push("k1")
		require.NoError(t, err)
		assert.Equal(t, 1, outcome.Applied)
		assert.False(t, f.step.Linked())
	})
}

func TestOrderPush(t *testing.T) {
	t.Run("should apply a staged stop replacement atomically", func(t *testing.T) {
		f := newAcceptedFixture(t)
		itemID := f.item.ID()
		replacement := newTestStop(t, 1, "New customer address",
			newTestAction(t, order.ActionKindDelivery, &itemID))
		require.NoError(t, f.order.StageReplaceStop(f.deliveryStop.ID(), replacement))

		outcome, err := f.order.Push("push-1")

		require.NoError(t, err)
		assert.Equal(t, 1, outcome.Applied)
		assert.Empty(t, outcome.Conflicts)
		assert.True(t, outcome.RouteStale)
		assert.True(t, f.order.RouteStale())
		assert.False(t, f.order.PendingChange())
		assert.Equal(t, "push-1", f.order.LastPushKey())

		stops := f.order.Steps()[0].Stops()
		require.Len(t, stops, 2)
		assert.True(t, stops[1].ID().IsEqual(replacement.ID()))
		assert.Nil(t, stops[1].OriginalID())

		// The replacement is now execution-side.
		require.NoError(t, f.order.ArriveAtStop(f.pickupStop.ID()))
	})

	t.Run("should swap in a staged action replacement exactly once", func(t *testing.T) {
		f := newAcceptedFixture(t)
		itemID := f.item.ID()
		replacement := newTestAction(t, order.ActionKindDelivery, &itemID)
		require.NoError(t, f.order.StageReplaceAction(f.deliveryAction.ID(), replacement))

		outcome, err := f.order.Push("push-1")

		require.NoError(t, err)
		assert.Equal(t, 1, outcome.Applied)
		assert.Empty(t, outcome.Conflicts)

		actions := f.order.Steps()[0].Stops()[1].Actions()
		require.Len(t, actions, 1)
		assert.True(t, actions[0].ID().IsEqual(replacement.ID()))
		assert.Nil(t, actions[0].OriginalID())
		assert.False(t, actions[0].StagedNew())
	})

	t.Run("should replay the same idempotency key as a no-op", func(t *testing.T) {
		f := newAcceptedFixture(t)
		itemID := f.item.ID()
		extra := newTestAction(t, order.ActionKindPickup, &itemID)
		require.NoError(t, f.order.StageAddAction(f.pickupStop.ID(), extra))

		first, err := f.order.Push("retry-key")
		require.NoError(t, err)
		require.Equal(t, 1, first.Applied)

		second, err := f.order.Push("retry-key")
		require.NoError(t, err)
		assert.True(t, second.Replayed)
		assert.Zero(t, second.Applied)
		assert.Len(t, f.pickupStop.Actions(), 2)
	})

	t.Run("should push an empty overlay as a no-op", func(t *testing.T) {
		f := newAcceptedFixture(t)

		outcome, err := f.order.Push("k1")

		require.NoError(t, err)
		assert.True(t, outcome.NoOp)
		assert.Zero(t, outcome.Applied)
		assert.Equal(t, "k1", f.order.LastPushKey())
	})

	t.Run("should delete an execution stop and then have nothing left to push", func(t *testing.T) {
		f := newAcceptedFixture(t)
		require.NoError(t, f.order.StageRemove(f.deliveryStop.ID()))
		assert.True(t, f.deliveryStop.DeleteRequired())

		outcome, err := f.order.Push("k1")
		require.NoError(t, err)
		assert.Equal(t, 1, outcome.Applied)
		require.Len(t, f.order.Steps()[0].Stops(), 1)

		again, err := f.order.Push("k2")
		require.NoError(t, err)
		assert.True(t, again.NoOp)
	})

	t.Run("should drop edits whose target completed on the field side", func(t *testing.T) {
		f := newAcceptedFixture(t)
		itemID := f.item.ID()
		replacement := newTestStop(t, 0, "Other warehouse",
			newTestAction(t, order.ActionKindPickup, &itemID))
		require.NoError(t, f.order.StageReplaceStop(f.pickupStop.ID(), replacement))

		require.NoError(t, f.order.ArriveAtStop(f.pickupStop.ID()))
		require.NoError(t, f.order.CompleteAction(f.pickupAction.ID(), nil))
		require.NoError(t, f.order.CompleteStop(f.pickupStop.ID()))

		outcome, err := f.order.Push("k1")

		require.NoError(t, err)
		assert.Zero(t, outcome.Applied)
		require.Len(t, outcome.Conflicts, 1)
		assert.Equal(t, "replace", outcome.Conflicts[0].Op)
		assert.Equal(t, f.pickupStop.ID().String(), outcome.Conflicts[0].ID)
		assert.Contains(t, outcome.Conflicts[0].Reason, "Completed")

		// The overlay is drained either way.
		assert.False(t, f.order.PendingChange())
		assert.Empty(t, f.order.PendingOperations())
		stops := f.order.Steps()[0].Stops()
		require.Len(t, stops, 2)
		assert.True(t, stops[0].ID().IsEqual(f.pickupStop.ID()))
	})

	t.Run("should apply surviving edits alongside dropped ones", func(t *testing.T) {
		f := newAcceptedFixture(t)
		itemID := f.item.ID()

		// One edit against a stop the field closes, one against an open stop.
		doomed := newTestStop(t, 0, "Other warehouse",
			newTestAction(t, order.ActionKindPickup, &itemID))
		require.NoError(t, f.order.StageReplaceStop(f.pickupStop.ID(), doomed))
		extra := newTestAction(t, order.ActionKindDelivery, &itemID)
		require.NoError(t, f.order.StageAddAction(f.deliveryStop.ID(), extra))

		require.NoError(t, f.order.ArriveAtStop(f.pickupStop.ID()))
		require.NoError(t, f.order.CompleteAction(f.pickupAction.ID(), nil))
		require.NoError(t, f.order.CompleteStop(f.pickupStop.ID()))

		outcome, err := f.order.Push("k1")

		require.NoError(t, err)
		assert.Equal(t, 1, outcome.Applied)
		require.Len(t, outcome.Conflicts, 1)
		assert.Len(t, f.deliveryStop.Actions(), 2)
	})

	t.Run("should stage and push a whole new step", func(t *testing.T) {
		f := newAcceptedFixture(t)
		itemID := f.item.ID()
		extraStop := newTestStop(t, 0, "Second customer",
			newTestAction(t, order.ActionKindDelivery, &itemID))
		extraStep, err := order.NewStep(kernel.NewUUID(), 1, false, []*order.Stop{extraStop})
		require.NoError(t, err)

		require.NoError(t, f.order.StageAddStep(extraStep))
		assert.True(t, extraStep.StagedNew())

		// Not part of the execution record until pushed.
		listedErr := f.order.ArriveAtStop(extraStop.ID())
		require.Error(t, listedErr)
		assert.ErrorIs(t, listedErr, errs.ErrObjectNotFound)

		outcome, err := f.order.Push("k1")
		require.NoError(t, err)
		assert.Equal(t, 1, outcome.Applied)
		assert.False(t, extraStep.StagedNew())
		require.Len(t, f.order.Steps(), 2)
	})

	t.Run("should reject pushing a terminal order", func(t *testing.T) {
		f := newAcceptedFixture(t)
		require.NoError(t, f.order.Cancel(""))

		_, err := f.order.Push("k1")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})
}
