// Package errs provides standardized error types for the order coordination engine.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package covers two groups of errors:
//   - Constructor validation errors: ValueIsRequiredError, ValueIsInvalidError,
//     ValueIsOutOfRangeError, ObjectNotFoundError
//   - Lifecycle errors: ValidationError (malformed draft, fixable by the caller),
//     InvalidStateError (operation attempted in the wrong lifecycle state),
//     ProofValidationError (completion blocked until corrected proofs are supplied),
//     PushConflictError (staged edits partially applied, conflicts enumerated)
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrInvalidState)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
package errs
