package services_test

import (
	"testing"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMatcher struct {
	matched bool
	err     error
}

func (m *stubMatcher) Match(reference, candidate string) (bool, error) {
	return m.matched, m.err
}

func newProofAction(t *testing.T, kind order.ActionKind, rules ...*order.ConfirmationRule) *order.Action {
	t.Helper()
	itemID := kernel.NewUUID()
	action, err := order.NewAction(kernel.NewUUID(), kind, 1, 0, &itemID, rules)
	require.NoError(t, err)
	return action
}

func newRule(t *testing.T, name string, kind order.ProofKind, atPickup, atDelivery, compare bool) *order.ConfirmationRule {
	t.Helper()
	rule, err := order.NewConfirmationRule(name, kind, atPickup, atDelivery, compare)
	require.NoError(t, err)
	return rule
}

func TestProofEvaluator(t *testing.T) {
	t.Run("should capture comparing references at pickup", func(t *testing.T) {
		evaluator := services.NewProofEvaluator(&stubMatcher{})
		rule := newRule(t, "handover-code", order.ProofKindCode, true, true, true)
		action := newProofAction(t, order.ActionKindPickup, rule)

		captured, err := evaluator.Evaluate(action, map[string]string{"handover-code": "4471"})

		require.NoError(t, err)
		assert.Equal(t, map[string]string{"handover-code": "4471"}, captured)
	})

	t.Run("should require proofs for applicable rules", func(t *testing.T) {
		evaluator := services.NewProofEvaluator(&stubMatcher{})
		rule := newRule(t, "doorstep-photo", order.ProofKindPhoto, false, true, false)
		action := newProofAction(t, order.ActionKindDelivery, rule)

		_, err := evaluator.Evaluate(action, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrProofValidation)
		assert.Contains(t, err.Error(), "proof is required")
	})

	t.Run("should ignore rules of the other phase", func(t *testing.T) {
		evaluator := services.NewProofEvaluator(&stubMatcher{})
		rule := newRule(t, "loading-photo", order.ProofKindPhoto, true, false, false)
		action := newProofAction(t, order.ActionKindDelivery, rule)

		_, err := evaluator.Evaluate(action, nil)

		require.NoError(t, err)
	})

	t.Run("should compare codes exactly at delivery", func(t *testing.T) {
		evaluator := services.NewProofEvaluator(&stubMatcher{})
		rule, err := order.RestoreConfirmationRule("handover-code", order.ProofKindCode, true, true, true, "4471")
		require.NoError(t, err)
		action := newProofAction(t, order.ActionKindDelivery, rule)

		_, err = evaluator.Evaluate(action, map[string]string{"handover-code": "4471"})
		require.NoError(t, err)

		_, err = evaluator.Evaluate(action, map[string]string{"handover-code": "9999"})
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrProofValidation)
		assert.Contains(t, err.Error(), "code does not match")
	})

	t.Run("should reject comparison without a captured reference", func(t *testing.T) {
		evaluator := services.NewProofEvaluator(&stubMatcher{})
		rule := newRule(t, "handover-code", order.ProofKindCode, true, true, true)
		action := newProofAction(t, order.ActionKindDelivery, rule)

		_, err := evaluator.Evaluate(action, map[string]string{"handover-code": "4471"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no pickup reference captured")
	})

	t.Run("should delegate photo comparison to the matcher", func(t *testing.T) {
		rule, err := order.RestoreConfirmationRule("item-photo", order.ProofKindPhoto, true, true, true, "ref-object-key")
		require.NoError(t, err)
		action := newProofAction(t, order.ActionKindDelivery, rule)

		_, err = services.NewProofEvaluator(&stubMatcher{matched: true}).
			Evaluate(action, map[string]string{"item-photo": "candidate-object-key"})
		require.NoError(t, err)

		_, err = services.NewProofEvaluator(&stubMatcher{matched: false}).
			Evaluate(action, map[string]string{"item-photo": "candidate-object-key"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "photo does not match")
	})
}
