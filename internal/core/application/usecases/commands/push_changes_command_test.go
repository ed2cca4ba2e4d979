package commands_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPushChangesCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()

	cmd, err := commands.NewPushChangesCommand(orderID, "push-7")
	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, "push-7", cmd.IdempotencyKey())
}

func TestNewPushChangesCommand_EmptyKeyIsAllowed(t *testing.T) {
	// An empty key just disables replay detection for this push.
	cmd, err := commands.NewPushChangesCommand(kernel.NewUUID(), "")
	require.NoError(t, err)
	assert.Empty(t, cmd.IdempotencyKey())
}

func TestNewPushChangesCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewPushChangesCommand(kernel.UUID{}, "push-7")
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestPushChangesCommand_NotConstructed(t *testing.T) {
	var cmd commands.PushChangesCommand
	err := cmd.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrPushChangesCommandIsNotConstructed)
}
