package order

import (
	"errors"
	"fmt"

	"orderflow/internal/pkg/errs"
)

// ErrConfirmationRuleIsNotConstructed is returned when a ConfirmationRule was not
// created through NewConfirmationRule or RestoreConfirmationRule.
var ErrConfirmationRuleIsNotConstructed = errors.New(
	"ConfirmationRule must be created via NewConfirmationRule constructor")

// ProofKind describes the kind of proof a confirmation rule demands.
type ProofKind int

const (
	// ProofKindUnknown represents an invalid or undefined proof kind.
	ProofKindUnknown ProofKind = iota

	// ProofKindPhoto requires a photo capture.
	ProofKindPhoto

	// ProofKindCode requires an alphanumeric code.
	ProofKindCode
)

// Validate checks if the ProofKind value is valid.
func (k ProofKind) Validate() error {
	if k != ProofKindPhoto && k != ProofKindCode {
		return errs.NewValueIsInvalidErrorWithCause("proof kind is invalid",
			fmt.Errorf("%d is not a valid proof kind", k))
	}
	return nil
}

// String returns the human-readable name of the proof kind.
func (k ProofKind) String() string {
	switch k {
	case ProofKindPhoto:
		return "Photo"
	case ProofKindCode:
		return "Code"
	default:
		return "Unknown"
	}
}

// ConfirmationRule describes one proof required to complete an action: a photo
// or a code, applicable at pickup, at delivery, or both. When compare is set,
// the delivery-phase proof must match the reference captured at pickup.
type ConfirmationRule struct {
	name       string
	kind       ProofKind
	atPickup   bool
	atDelivery bool
	compare    bool
	reference  string

	isConstructed bool
}

// NewConfirmationRule creates a confirmation rule with validation.
// The rule must apply to at least one phase; a compare rule must apply to both
// phases, since the pickup proof is the reference the delivery proof is
// checked against.
func NewConfirmationRule(name string, kind ProofKind, atPickup, atDelivery, compare bool) (*ConfirmationRule, error) {
	if name == "" {
		return nil, errs.NewValueIsRequiredError("confirmation rule name")
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if !atPickup && !atDelivery {
		return nil, errs.NewValueIsInvalidErrorWithCause("confirmation rule",
			fmt.Errorf("rule %q applies to no phase", name))
	}
	if compare && (!atPickup || !atDelivery) {
		return nil, errs.NewValueIsInvalidErrorWithCause("confirmation rule",
			fmt.Errorf("compare rule %q must apply at pickup and delivery", name))
	}

	return &ConfirmationRule{
		name:          name,
		kind:          kind,
		atPickup:      atPickup,
		atDelivery:    atDelivery,
		compare:       compare,
		isConstructed: true,
	}, nil
}

// RestoreConfirmationRule reconstructs a rule from persistence, including a
// previously captured reference value.
func RestoreConfirmationRule(
	name string, kind ProofKind, atPickup, atDelivery, compare bool, reference string,
) (*ConfirmationRule, error) {
	rule, err := NewConfirmationRule(name, kind, atPickup, atDelivery, compare)
	if err != nil {
		return nil, err
	}
	rule.reference = reference
	return rule, nil
}

// Validate ensures the rule was created through a constructor.
func (r *ConfirmationRule) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrConfirmationRuleIsNotConstructed
	}
	return nil
}

// Name returns the rule's name; proofs are supplied keyed by it.
func (r *ConfirmationRule) Name() string {
	return r.name
}

// Kind returns the kind of proof the rule demands.
func (r *ConfirmationRule) Kind() ProofKind {
	return r.kind
}

// AtPickup reports whether the rule applies at the pickup phase.
func (r *ConfirmationRule) AtPickup() bool {
	return r.atPickup
}

// AtDelivery reports whether the rule applies at the delivery phase.
func (r *ConfirmationRule) AtDelivery() bool {
	return r.atDelivery
}

// Compare reports whether the delivery proof must match the pickup reference.
func (r *ConfirmationRule) Compare() bool {
	return r.compare
}

// Reference returns the proof value captured at pickup, empty until captured.
func (r *ConfirmationRule) Reference() string {
	return r.reference
}

// CaptureReference stores the pickup-phase proof value for later comparison.
func (r *ConfirmationRule) CaptureReference(value string) {
	r.reference = value
}
