package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct{ now time.Time }

// Now returns the manual time.
func (m *manualClock) Now() time.Time { return m.now }

// TestWrap_BurstPassesFirstOnly verifies a burst inside one window reaches fn once with the first value.
func TestWrap_BurstPassesFirstOnly(t *testing.T) {
	clock := &manualClock{now: time.Unix(0, 0)}
	var got []int
	fn := Wrap(func(v int) { got = append(got, v) }, 100, clock)

	for i := 1; i <= 5; i++ {
		fn(i)
		clock.now = clock.now.Add(time.Millisecond)
	}
	require.Equal(t, []int{1}, got)
}

// TestWrap_NextWindowPasses verifies a call after the window is admitted immediately.
func TestWrap_NextWindowPasses(t *testing.T) {
	clock := &manualClock{now: time.Unix(0, 0)}
	var got []int
	fn := Wrap(func(v int) { got = append(got, v) }, 10, clock)

	fn(1)
	clock.now = clock.now.Add(50 * time.Millisecond)
	fn(2)
	clock.now = clock.now.Add(50 * time.Millisecond)
	fn(3)
	clock.now = clock.now.Add(99 * time.Millisecond)
	fn(4)
	assert.Equal(t, []int{1, 3}, got)
}

// TestLimiter_ResetAndDisabled verifies Reset and the disabled rate.
func TestLimiter_ResetAndDisabled(t *testing.T) {
	clock := &manualClock{now: time.Unix(0, 0)}
	l := New(1, clock)
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
	l.Reset()
	assert.True(t, l.Allow())

	off := New(0, clock)
	for i := 0; i < 3; i++ {
		assert.True(t, off.Allow())
	}
}
