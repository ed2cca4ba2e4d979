package commands_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateDraftCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()
	steps := draftSteps(t)

	cmd, err := commands.NewCreateDraftCommand(id, true, nil, steps)
	require.NoError(t, err)
	assert.Equal(t, id, cmd.OrderID())
	assert.True(t, cmd.FleetOnly())
	assert.Nil(t, cmd.DriverID())
	assert.Len(t, cmd.Steps(), 1)
}

func TestNewCreateDraftCommand_TargetedDriver(t *testing.T) {
	id := kernel.NewUUID()
	driverID := kernel.NewUUID()

	cmd, err := commands.NewCreateDraftCommand(id, false, &driverID, draftSteps(t))
	require.NoError(t, err)
	require.NotNil(t, cmd.DriverID())
	assert.Equal(t, driverID, *cmd.DriverID())
}

func TestNewCreateDraftCommand_InvalidOrderID(t *testing.T) {
	invalidID := kernel.UUID{} // zero value, should trigger validation error
	_, err := commands.NewCreateDraftCommand(invalidID, true, nil, draftSteps(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCreateDraftCommand_InvalidDriverID(t *testing.T) {
	id := kernel.NewUUID()
	invalidDriverID := kernel.UUID{}
	_, err := commands.NewCreateDraftCommand(id, false, &invalidDriverID, draftSteps(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCreateDraftCommand_EmptySteps(t *testing.T) {
	id := kernel.NewUUID()
	_, err := commands.NewCreateDraftCommand(id, true, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrDraftStepsAreRequired)
}
