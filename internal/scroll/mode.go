package scroll

import (
	"math"

	"github.com/frudas24/touchmouse/internal/command"
)

// Mode selects how a scroll gesture is emitted.
type Mode int

const (
	// Wheel emits discrete notches from a periodic timer.
	Wheel Mode = iota
	// Smooth holds a virtual middle button and moves the cursor.
	Smooth
)

// String returns the lower-case name of m.
func (m Mode) String() string {
	if m == Smooth {
		return "smooth"
	}
	return "wheel"
}

// behavior is what differs between the scroll modes.
type behavior interface {
	// begin starts emission for a freshly activated state.
	begin(e *Engine)
	// track reacts to a new DeltaY.
	track(e *Engine)
	// compensate undoes the side effects of begin and track.
	compensate(e *Engine)
	// speed converts a finger delta into a mode-specific speed.
	speed(e *Engine, deltaY float64) float64
	// unit is the suffix shown after the speed.
	unit() string
}

// behavior returns the implementation for m.
func (m Mode) behavior() behavior {
	if m == Smooth {
		return smoothMode{}
	}
	return wheelMode{}
}

type wheelMode struct{}

// begin arms the notch timer.
func (wheelMode) begin(e *Engine) {
	e.timerStart = e.sched.Now()
	e.timer = e.sched.Every(e.cfg.Interval, e.wheelTick)
}

// track does nothing; the timer reads the latest DeltaY.
func (wheelMode) track(*Engine) {}

// compensate does nothing; notches are not reversible.
func (wheelMode) compensate(*Engine) {}

// speed returns notches per second. Dragging up scrolls up.
func (wheelMode) speed(e *Engine, deltaY float64) float64 {
	return -e.cfg.WheelMapper.Map(deltaY)
}

// unit returns the notch frequency unit.
func (wheelMode) unit() string { return "Hz" }

type smoothMode struct{}

// begin presses the virtual middle button and, in auto mode, restores the remembered offset.
func (smoothMode) begin(e *Engine) {
	command.SendAll(e.out, command.MiddleBracket(command.Down, e.cfg.Wiggle, e.cfg.BracketDelay))
	if e.state.Auto {
		smoothMode{}.track(e)
	}
}

// track moves the cursor by the change of the desktop offset since the last move.
func (smoothMode) track(e *Engine) {
	sp := smoothMode{}.speed(e, e.state.DeltaY)
	target := math.Round(e.state.DeltaY * math.Abs(sp))
	step := target - e.state.DesktopDeltaY
	if step == 0 {
		return
	}
	e.out.Send(command.Touch(0, step))
	e.state.DesktopDeltaY += step
}

// compensate releases the middle button and moves the cursor back.
func (smoothMode) compensate(e *Engine) {
	command.SendAll(e.out, command.MiddleBracket(command.Up, e.cfg.Wiggle, e.cfg.BracketDelay))
	if e.state.DesktopDeltaY != 0 {
		e.out.Send(command.Touch(0, -e.state.DesktopDeltaY))
	}
}

// speed returns the smooth scroll factor.
func (smoothMode) speed(e *Engine, deltaY float64) float64 {
	return e.cfg.SmoothMapper.Map(deltaY)
}

// unit is empty for smooth scrolling.
func (smoothMode) unit() string { return "" }
