package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrObjectNotFound indicates that a requested object does not exist.
	ErrObjectNotFound = errors.New("object not found")

	// ErrValueIsInvalid indicates that a supplied value failed validation.
	ErrValueIsInvalid = errors.New("value is invalid")

	// ErrValueIsOutOfRange indicates that a numeric value is outside its allowed bounds.
	ErrValueIsOutOfRange = errors.New("value is out of range")

	// ErrValueIsRequired indicates that a required value is missing.
	ErrValueIsRequired = errors.New("value is required")

	// ErrValidation indicates that a draft or request is malformed and must be
	// corrected by the caller before it can be accepted.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState indicates that an operation was attempted in a lifecycle
	// state that does not permit it. The caller should refresh and retry.
	ErrInvalidState = errors.New("invalid state")

	// ErrProofValidation indicates that the proofs supplied to complete an action
	// are missing or do not match their references. Retryable with corrected proofs.
	ErrProofValidation = errors.New("proof validation failed")

	// ErrPushConflict indicates that some staged edits could not be applied because
	// their targets no longer exist or are terminal. The rest of the batch applied.
	ErrPushConflict = errors.New("push conflict")
)

// sanitize collapses newlines so error messages stay single-line in logs.
func sanitize(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "\r", " ")
}

// ObjectNotFoundError is returned when an object referenced by ID cannot be found.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without an underlying cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping an underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError is returned when a value fails domain validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without an underlying cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping an underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError is returned when a numeric value lies outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without an underlying cause.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping an underlying cause.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v (cause: %s)",
			ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max))
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError is returned when a required value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without an underlying cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping an underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValidationError is returned when a draft or request is structurally malformed.
// These errors are fixable by the caller and never indicate server-side faults.
type ValidationError struct {
	Message string
	Cause   error
}

// NewValidationError creates a ValidationError without an underlying cause.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NewValidationErrorWithCause creates a ValidationError wrapping an underlying cause.
func NewValidationErrorWithCause(message string, cause error) *ValidationError {
	return &ValidationError{Message: message, Cause: cause}
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValidation, e.Message, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValidation, e.Message))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// InvalidStateError is returned when an operation is attempted against an entity
// whose lifecycle state does not permit it.
type InvalidStateError struct {
	Operation string
	Entity    string
	State     string
}

// NewInvalidStateError creates an InvalidStateError describing the rejected operation.
func NewInvalidStateError(operation, entity, state string) *InvalidStateError {
	return &InvalidStateError{Operation: operation, Entity: entity, State: state}
}

func (e *InvalidStateError) Error() string {
	return sanitize(fmt.Sprintf("%s: cannot %s %s in status %s", ErrInvalidState, e.Operation, e.Entity, e.State))
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// ProofValidationError is returned when an action's completion proofs are missing
// or do not match their stored references.
type ProofValidationError struct {
	RuleName string
	Reason   string
}

// NewProofValidationError creates a ProofValidationError for the named confirmation rule.
func NewProofValidationError(ruleName, reason string) *ProofValidationError {
	return &ProofValidationError{RuleName: ruleName, Reason: reason}
}

func (e *ProofValidationError) Error() string {
	return sanitize(fmt.Sprintf("%s: rule %q: %s", ErrProofValidation, e.RuleName, e.Reason))
}

func (e *ProofValidationError) Unwrap() error {
	return ErrProofValidation
}

// PushConflict describes a single staged edit that could not be applied.
type PushConflict struct {
	Entity string
	ID     string
	Op     string
	Reason string
}

// PushConflictError is returned when a push partially applies: the listed edits
// were dropped because their targets were terminal or missing; everything else landed.
type PushConflictError struct {
	Applied   int
	Conflicts []PushConflict
}

// NewPushConflictError creates a PushConflictError listing dropped edits.
func NewPushConflictError(applied int, conflicts []PushConflict) *PushConflictError {
	return &PushConflictError{Applied: applied, Conflicts: conflicts}
}

func (e *PushConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s %s %s (%s)", c.Op, c.Entity, c.ID, c.Reason))
	}
	return sanitize(fmt.Sprintf("%s: %d edits applied, %d dropped: %s",
		ErrPushConflict, e.Applied, len(e.Conflicts), strings.Join(parts, "; ")))
}

func (e *PushConflictError) Unwrap() error {
	return ErrPushConflict
}
