package scroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frudas24/touchmouse/internal/command"
	"github.com/frudas24/touchmouse/internal/gesture"
	"github.com/frudas24/touchmouse/internal/indicator"
	"github.com/frudas24/touchmouse/internal/motion"
	"github.com/frudas24/touchmouse/internal/sampler"
	"github.com/frudas24/touchmouse/internal/testutil"
)

type sent struct {
	at  time.Time
	cmd command.Command
}

// timedSender records commands with the virtual time they were sent.
type timedSender struct {
	clock *testutil.Clock
	log   []sent
}

// Send records c at the current virtual time.
func (s *timedSender) Send(c command.Command) {
	s.log = append(s.log, sent{at: s.clock.Now(), cmd: c})
}

// Ready always reports true.
func (s *timedSender) Ready() bool { return true }

// kind returns the commands of kind k.
func (s *timedSender) kind(k command.Kind) []sent {
	var out []sent
	for _, e := range s.log {
		if e.cmd.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

type harness struct {
	clock *testutil.Clock
	out   *timedSender
	e     *Engine
	ms    float64
}

// newHarness returns an engine on a virtual clock with the given wheel sensitivity.
func newHarness(wheel float64) *harness {
	clock := testutil.NewClock()
	out := &timedSender{clock: clock}
	cfg := DefaultConfig()
	cfg.WheelMapper = motion.Linear(wheel)
	return &harness{clock: clock, out: out, e: New(clock, out, indicator.Nop{}, sampler.New(), cfg)}
}

// at advances virtual time by d and feeds one event at (0, y).
func (h *harness) at(d time.Duration, phase gesture.Phase, y float64) {
	h.clock.Advance(d)
	h.ms += float64(d) / float64(time.Millisecond)
	h.e.HandleEvent(phase, sampler.Event{Type: "touch", X: 100, Y: y, TimeStamp: h.ms})
}

// drag presses at y0, moves to y1 in steps, and releases after hold.
func (h *harness) drag(y0, y1 float64, steps int, release bool) {
	h.at(0, gesture.Press, y0)
	for i := 1; i <= steps; i++ {
		h.at(20*time.Millisecond, gesture.Move, y0+(y1-y0)*float64(i)/float64(steps))
	}
	if release {
		h.at(20*time.Millisecond, gesture.Release, y1)
	}
}

// tap presses and releases in place.
func (h *harness) tap() {
	h.at(0, gesture.Press, 300)
	h.at(50*time.Millisecond, gesture.Release, 300)
}

// TestWheel_OneNotchPerSecond verifies 50px up at 0.02 scrolls up about once per second.
func TestWheel_OneNotchPerSecond(t *testing.T) {
	h := newHarness(0.02)
	h.drag(500, 450, 10, false)
	require.InDelta(t, 1.0, h.e.Speed(), 1e-9)
	assert.Equal(t, "▲ 1.00Hz", h.e.SpeedText())

	h.clock.Advance(3 * time.Second)
	notches := h.out.kind(command.KindScroll)
	require.Len(t, notches, 3)
	for _, n := range notches {
		assert.Equal(t, "scroll 1", n.cmd.String())
	}
}

// TestWheel_NeverFasterThanSpeed verifies the minimum gap between notches.
func TestWheel_NeverFasterThanSpeed(t *testing.T) {
	h := newHarness(DefaultWheelSensitivity)
	h.drag(100, 250, 5, false)
	speed := h.e.Speed()
	require.Less(t, speed, 0.0)

	h.clock.Advance(2 * time.Second)
	notches := h.out.kind(command.KindScroll)
	require.Greater(t, len(notches), 5)
	minGap := time.Duration(float64(time.Second) / -speed)
	for i := 1; i < len(notches); i++ {
		assert.GreaterOrEqual(t, notches[i].at.Sub(notches[i-1].at), minGap)
		assert.Equal(t, "scroll -1", notches[i].cmd.String())
	}
}

// TestWheel_ReleaseStopsTimer verifies no notch follows a release.
func TestWheel_ReleaseStopsTimer(t *testing.T) {
	h := newHarness(0.02)
	h.drag(500, 300, 10, true)
	require.False(t, h.e.Running())
	assert.Zero(t, h.clock.Pending())

	before := len(h.out.kind(command.KindScroll))
	h.clock.Advance(5 * time.Second)
	assert.Len(t, h.out.kind(command.KindScroll), before)
	assert.False(t, h.e.State().Active)
}

// TestSmooth_SessionSumsToZero verifies the desktop deltas of a full smooth session cancel out.
func TestSmooth_SessionSumsToZero(t *testing.T) {
	h := newHarness(0.02)
	h.e.SetMode(Smooth)
	h.at(0, gesture.Press, 400)
	for _, y := range []float64{390, 370, 330, 345, 290, 260, 281.5} {
		h.at(20*time.Millisecond, gesture.Move, y)
	}
	accumulated := h.e.State().DesktopDeltaY
	require.NotZero(t, accumulated)
	h.at(20*time.Millisecond, gesture.Release, 281.5)

	var sum float64
	downs, ups := 0, 0
	for _, s := range h.out.log {
		switch {
		case s.cmd.Kind == command.KindTouch:
			sum += s.cmd.DY
		case s.cmd == command.ButtonCmd(command.Middle, command.Down):
			downs++
		case s.cmd == command.ButtonCmd(command.Middle, command.Up):
			ups++
		}
	}
	assert.Zero(t, sum)
	assert.Equal(t, 1, downs)
	assert.Equal(t, 1, ups)

	last := h.out.log[len(h.out.log)-1].cmd
	assert.Equal(t, command.Touch(0, -accumulated), last)
	assert.Zero(t, h.clock.Pending())
}

// TestSmooth_EmitsIncrements verifies each move emits the change since the previous one.
func TestSmooth_EmitsIncrements(t *testing.T) {
	h := newHarness(0.02)
	h.e.SetMode(Smooth)
	h.at(0, gesture.Press, 0)
	h.out.log = nil

	h.at(20*time.Millisecond, gesture.Move, 20)
	h.at(20*time.Millisecond, gesture.Move, 40)
	touches := h.out.kind(command.KindTouch)
	require.Len(t, touches, 2)
	// 20 * 20 * 0.015 = 6, then 40 * 40 * 0.015 = 24
	assert.Equal(t, 6.0, touches[0].cmd.DY)
	assert.Equal(t, 18.0, touches[1].cmd.DY)
	assert.Equal(t, "▼ 0.60", h.e.SpeedText())
}

// TestAuto_TapAfterDragStartsAndTapStops verifies tap-after-drag auto scroll and its cancellation.
func TestAuto_TapAfterDragStartsAndTapStops(t *testing.T) {
	h := newHarness(0.02)
	h.drag(500, 450, 5, true)
	snap, ok := h.e.Last()
	require.True(t, ok)
	assert.Equal(t, Snapshot{Mode: Wheel, DeltaY: -50}, snap)

	h.tap()
	st := h.e.State()
	require.True(t, st.Auto)
	require.True(t, h.e.Running())
	assert.Equal(t, -50.0, st.DeltaY)

	before := len(h.out.kind(command.KindScroll))
	h.clock.Advance(2100 * time.Millisecond)
	assert.Len(t, h.out.kind(command.KindScroll), before+2)

	h.tap()
	assert.False(t, h.e.State().Active)
	assert.False(t, h.e.Running())
	assert.Zero(t, h.clock.Pending())
}

// TestAuto_TapWithoutSnapshotStops verifies a tap with no remembered drag does nothing lasting.
func TestAuto_TapWithoutSnapshotStops(t *testing.T) {
	h := newHarness(0.02)
	h.tap()
	assert.False(t, h.e.State().Active)
	assert.Zero(t, h.clock.Pending())
	assert.Empty(t, h.out.kind(command.KindScroll))
}

// TestAuto_SmoothRestoresOffsetAndCompensates verifies smooth auto scroll balances on stop.
func TestAuto_SmoothRestoresOffsetAndCompensates(t *testing.T) {
	h := newHarness(0.02)
	h.e.SetMode(Smooth)
	h.drag(200, 100, 4, true)
	h.tap()
	require.True(t, h.e.State().Auto)
	assert.Equal(t, -150.0, h.e.State().DesktopDeltaY)

	h.tap()
	var sum float64
	for _, s := range h.out.kind(command.KindTouch) {
		sum += s.cmd.DY
	}
	assert.Zero(t, sum)
	assert.False(t, h.e.State().Active)
}

// TestPress_SupersedesRunningScroll verifies a new press never leaves a second timer behind.
func TestPress_SupersedesRunningScroll(t *testing.T) {
	h := newHarness(0.02)
	h.drag(500, 400, 3, false)
	h.drag(500, 450, 3, false)
	assert.Equal(t, 1, h.clock.Pending())

	h.e.StopAll()
	assert.Zero(t, h.clock.Pending())
	assert.Equal(t, State{Mode: Wheel}, h.e.State())
}

// TestMove_RateLimited verifies moves closer than the rate window are ignored.
func TestMove_RateLimited(t *testing.T) {
	h := newHarness(0.02)
	h.at(0, gesture.Press, 100)
	h.at(10*time.Millisecond, gesture.Move, 90)
	h.at(time.Millisecond, gesture.Move, 50)
	assert.Equal(t, -10.0, h.e.State().DeltaY)
}
