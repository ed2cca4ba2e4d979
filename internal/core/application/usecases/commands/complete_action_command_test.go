package commands_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompleteActionCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()
	actionID := kernel.NewUUID()
	proofs := map[string]string{"handover-code": "4471"}

	cmd, err := commands.NewCompleteActionCommand(orderID, actionID, proofs)
	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, actionID, cmd.ActionID())
	assert.Equal(t, proofs, cmd.Proofs())
}

func TestNewCompleteActionCommand_NilProofsAreAllowed(t *testing.T) {
	// Actions without confirmation rules complete without proofs.
	cmd, err := commands.NewCompleteActionCommand(kernel.NewUUID(), kernel.NewUUID(), nil)
	require.NoError(t, err)
	assert.Empty(t, cmd.Proofs())
}

func TestNewCompleteActionCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewCompleteActionCommand(kernel.UUID{}, kernel.NewUUID(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCompleteActionCommand_InvalidActionID(t *testing.T) {
	_, err := commands.NewCompleteActionCommand(kernel.NewUUID(), kernel.UUID{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}
