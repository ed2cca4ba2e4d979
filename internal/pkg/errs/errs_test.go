package errs_test

import (
	"errors"
	"testing"

	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "123")

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("orderId", "123", cause)

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: orderId, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("quantity")

		assert.Equal(t, "quantity", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: quantity", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("quantity", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: quantity (cause: invalid format)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("sequence", 150, 0, 120)

		assert.Equal(t, "sequence", err.ParamName)
		assert.Equal(t, 150, err.Value)
		assert.Equal(t, 0, err.Min)
		assert.Equal(t, 120, err.Max)
		assert.Equal(t, "value is invalid: 150 is sequence, min value is 0, max value is 120", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("name")

	assert.Equal(t, "name", err.ParamName)
	assert.Equal(t, "value is required: name", err.Error())
	assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
}

func TestValidationError(t *testing.T) {
	t.Run("NewValidationError", func(t *testing.T) {
		err := errs.NewValidationError("stop has no actions")

		assert.Equal(t, "validation failed: stop has no actions", err.Error())
		assert.Equal(t, errs.ErrValidation, err.Unwrap())
	})

	t.Run("NewValidationErrorWithCause", func(t *testing.T) {
		cause := errors.New("missing transit item")
		err := errs.NewValidationErrorWithCause("delivery is unresolved", cause)

		assert.Equal(t, "validation failed: delivery is unresolved (cause: missing transit item)", err.Error())
	})
}

func TestInvalidStateError(t *testing.T) {
	err := errs.NewInvalidStateError("submit", "order", "Pending")

	assert.Equal(t, "invalid state: cannot submit order in status Pending", err.Error())
	assert.Equal(t, errs.ErrInvalidState, err.Unwrap())
}

func TestProofValidationError(t *testing.T) {
	err := errs.NewProofValidationError("door-code", "value does not match reference")

	assert.Equal(t, `proof validation failed: rule "door-code": value does not match reference`, err.Error())
	assert.Equal(t, errs.ErrProofValidation, err.Unwrap())
}

func TestPushConflictError(t *testing.T) {
	err := errs.NewPushConflictError(3, []errs.PushConflict{
		{Entity: "stop", ID: "abc", Op: "delete", Reason: "already completed"},
	})

	assert.Equal(t, 3, err.Applied)
	assert.Len(t, err.Conflicts, 1)
	assert.Equal(t, "push conflict: 3 edits applied, 1 dropped: delete stop abc (already completed)", err.Error())
	assert.Equal(t, errs.ErrPushConflict, err.Unwrap())
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	require.ErrorIs(t, errs.NewObjectNotFoundError("orderId", "123"), errs.ErrObjectNotFound)
	require.ErrorIs(t, errs.NewValueIsInvalidError("quantity"), errs.ErrValueIsInvalid)
	require.ErrorIs(t, errs.NewValueIsOutOfRangeError("sequence", 5, 0, 3), errs.ErrValueIsOutOfRange)
	require.ErrorIs(t, errs.NewValueIsRequiredError("name"), errs.ErrValueIsRequired)
	require.ErrorIs(t, errs.NewValidationError("bad draft"), errs.ErrValidation)
	require.ErrorIs(t, errs.NewInvalidStateError("push", "order", "Draft"), errs.ErrInvalidState)
	require.ErrorIs(t, errs.NewProofValidationError("photo", "missing"), errs.ErrProofValidation)
	require.ErrorIs(t, errs.NewPushConflictError(0, nil), errs.ErrPushConflict)
}
