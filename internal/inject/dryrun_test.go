package inject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frudas24/touchmouse/internal/command"
)

// TestNew_DryRunNeverTouchesPlatform verifies DRY_RUN selects the logging injector.
func TestNew_DryRunNeverTouchesPlatform(t *testing.T) {
	inj, err := New(true)
	require.NoError(t, err)
	_, ok := inj.(*DryRun)
	assert.True(t, ok)
	assert.NoError(t, inj.Close())
}

// TestDryRun_TracksHeldButtons verifies down/up/click leave the expected state.
func TestDryRun_TracksHeldButtons(t *testing.T) {
	d := NewDryRun()
	require.NoError(t, d.Button(command.Left, command.Down))
	assert.True(t, d.Held(command.Left))

	require.NoError(t, d.Button(command.Left, command.Up))
	assert.False(t, d.Held(command.Left))

	require.NoError(t, d.Button(command.Right, command.Click))
	assert.False(t, d.Held(command.Right))

	assert.Error(t, d.Button(command.Middle, command.Action("hold")))
	assert.NoError(t, d.MoveRel(1, -1))
	assert.NoError(t, d.Wheel(-2))
}
