package services

import (
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// PhotoMatcher decides whether a delivery-phase photo matches the reference
// photo captured at pickup. Implementations live in the adapter layer.
type PhotoMatcher interface {
	Match(reference, candidate string) (bool, error)
}

// ProofEvaluator checks the supplied proofs of an action against its
// confirmation rules before the action may complete.
//
// The phase is derived from the action kind: pickup actions evaluate
// pickup-phase rules, everything else evaluates delivery-phase rules. For
// comparing rules the pickup phase captures the proof value as the reference;
// the delivery phase verifies the supplied proof against it, exactly for
// codes and via the photo matcher for photos.
type ProofEvaluator struct {
	matcher PhotoMatcher
}

// NewProofEvaluator creates a new ProofEvaluator instance.
func NewProofEvaluator(matcher PhotoMatcher) *ProofEvaluator {
	return &ProofEvaluator{matcher: matcher}
}

// Evaluate validates proofs, keyed by rule name, against the action's rules.
// It returns the pickup-phase reference values to store on the rules; the
// returned map is empty for delivery-phase evaluations.
func (e *ProofEvaluator) Evaluate(action *order.Action, proofs map[string]string) (map[string]string, error) {
	if err := action.Validate(); err != nil {
		return nil, err
	}

	atPickup := action.Kind() == order.ActionKindPickup
	captured := make(map[string]string)

	for _, rule := range action.Rules() {
		if atPickup && !rule.AtPickup() {
			continue
		}
		if !atPickup && !rule.AtDelivery() {
			continue
		}

		value, ok := proofs[rule.Name()]
		if !ok || value == "" {
			return nil, errs.NewProofValidationError(rule.Name(), "proof is required")
		}

		if atPickup {
			if rule.Compare() {
				captured[rule.Name()] = value
			}
			continue
		}

		if rule.Compare() {
			if err := e.compare(rule, value); err != nil {
				return nil, err
			}
		}
	}
	return captured, nil
}

func (e *ProofEvaluator) compare(rule *order.ConfirmationRule, value string) error {
	reference := rule.Reference()
	if reference == "" {
		return errs.NewProofValidationError(rule.Name(), "no pickup reference captured")
	}

	switch rule.Kind() {
	case order.ProofKindCode:
		if value != reference {
			return errs.NewProofValidationError(rule.Name(), "code does not match pickup reference")
		}
	case order.ProofKindPhoto:
		matched, err := e.matcher.Match(reference, value)
		if err != nil {
			return errs.NewProofValidationError(rule.Name(), err.Error())
		}
		if !matched {
			return errs.NewProofValidationError(rule.Name(), "photo does not match pickup reference")
		}
	}
	return nil
}
