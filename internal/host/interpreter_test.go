package host

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frudas24/touchmouse/internal/command"
	"github.com/frudas24/touchmouse/internal/testutil"
)

// TestAccumulator_CarriesFractions verifies fractional deltas add up to whole pixels.
func TestAccumulator_CarriesFractions(t *testing.T) {
	var a Accumulator
	got := []int{a.Take(0.4), a.Take(0.4), a.Take(0.4)}
	assert.Equal(t, []int{0, 0, 1}, got)

	var b Accumulator
	assert.Equal(t, -1, b.Take(-1.5))
	assert.Equal(t, -2, b.Take(-1.5))
}

// TestExecute_TouchAccumulates verifies relative moves keep fractional error.
func TestExecute_TouchAccumulates(t *testing.T) {
	inj := &testutil.FakeInjector{}
	in := NewInterpreter(inj, DefaultConfig())
	ctx := context.Background()

	require.NoError(t, in.Handle(ctx, "touch 1.5 1.5"))
	require.NoError(t, in.Handle(ctx, "touch 1.5 1.5"))
	require.NoError(t, in.Handle(ctx, "touch 0.2 0"))

	x, y := inj.Moved()
	assert.Equal(t, 3, x)
	assert.Equal(t, 3, y)
	assert.Len(t, inj.Calls(), 2)
}

// TestExecute_ButtonsAndWheel verifies button and scroll commands reach the injector.
func TestExecute_ButtonsAndWheel(t *testing.T) {
	inj := &testutil.FakeInjector{}
	in := NewInterpreter(inj, DefaultConfig())
	ctx := context.Background()

	for _, line := range []string{"left down", "left up", "right click", "scroll 1", "scroll 0.5", "scroll 0.5", "scroll -1"} {
		require.NoError(t, in.Handle(ctx, line), line)
	}
	var got []string
	for _, c := range inj.Calls() {
		got = append(got, c.String())
	}
	assert.Equal(t, []string{
		"Button left down",
		"Button left up",
		"Button right click",
		"Wheel 1",
		"Wheel 1",
		"Wheel -1",
	}, got)
}

// TestExecute_RejectsMalformed verifies parse errors are returned without side effects.
func TestExecute_RejectsMalformed(t *testing.T) {
	inj := &testutil.FakeInjector{}
	in := NewInterpreter(inj, DefaultConfig())
	err := in.Handle(context.Background(), "touch x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, command.ErrBadArgs))
	assert.Empty(t, inj.Calls())
	assert.NoError(t, in.Handle(context.Background(), "# Warning: pad says hi"))
}

// TestSpin_DecaysAndStops verifies momentum scales down and ends.
func TestSpin_DecaysAndStops(t *testing.T) {
	inj := &testutil.FakeInjector{}
	cfg := DefaultConfig()
	in := NewInterpreter(inj, cfg)
	ctx := context.Background()

	require.NoError(t, in.Handle(ctx, "spin 100 0"))
	require.True(t, in.Spinning())

	total := float32(1/cfg.Friction) / float32(cfg.RefreshHz)
	in.step(total / 2)
	x, _ := inj.Moved()
	assert.Equal(t, 5, x)

	in.step(total)
	assert.False(t, in.Spinning())
}

// TestSpin_TouchAndZeroCancel verifies touch and spin 0 0 stop momentum.
func TestSpin_TouchAndZeroCancel(t *testing.T) {
	inj := &testutil.FakeInjector{}
	in := NewInterpreter(inj, DefaultConfig())
	ctx := context.Background()

	require.NoError(t, in.Handle(ctx, "spin 10 10"))
	require.NoError(t, in.Handle(ctx, "spin 0 0"))
	assert.False(t, in.Spinning())

	require.NoError(t, in.Handle(ctx, "spin 10 10"))
	require.NoError(t, in.Handle(ctx, "touch 1 0"))
	assert.False(t, in.Spinning())
	in.step(0.01)
	assert.Len(t, inj.Calls(), 1)
}

// TestSleep_HonorsContext verifies sleep returns early on cancellation.
func TestSleep_HonorsContext(t *testing.T) {
	in := NewInterpreter(&testutil.FakeInjector{}, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := in.Handle(ctx, "sleep 5000")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)

	require.NoError(t, in.Handle(context.Background(), "sleep 1"))
}

// TestEaseByName_Lookup verifies tuning names resolve.
func TestEaseByName_Lookup(t *testing.T) {
	fn, err := EaseByName(" Linear ")
	require.NoError(t, err)
	assert.NotNil(t, fn)
	_, err = EaseByName("bounce-forever")
	assert.Error(t, err)
}
