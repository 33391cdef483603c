// Package scroll implements wheel, smooth and auto scrolling driven by a touch area.
package scroll

import (
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/frudas24/touchmouse/internal/command"
	"github.com/frudas24/touchmouse/internal/gesture"
	"github.com/frudas24/touchmouse/internal/indicator"
	"github.com/frudas24/touchmouse/internal/loop"
	"github.com/frudas24/touchmouse/internal/motion"
	"github.com/frudas24/touchmouse/internal/ratelimit"
	"github.com/frudas24/touchmouse/internal/sampler"
)

const (
	// DefaultWheelSensitivity converts drag pixels into wheel notches per second.
	DefaultWheelSensitivity = 0.04
	// DefaultSmoothSensitivity scales drag pixels into desktop pixels in smooth mode.
	DefaultSmoothSensitivity = 0.015
	// DefaultInterval is the tick of the wheel timer.
	DefaultInterval = 20 * time.Millisecond
	// DefaultRateHz caps how often scroll drags are processed.
	DefaultRateHz = 120.0
)

// Config tunes the scroll engine.
type Config struct {
	WheelMapper  motion.Mapper
	SmoothMapper motion.Mapper
	Classifier   gesture.Classifier
	// Interval is the wheel timer period.
	Interval     time.Duration
	Wiggle       float64
	BracketDelay time.Duration
	// RateHz limits how often move events are processed.
	RateHz float64
}

// DefaultConfig returns the default tuning.
func DefaultConfig() Config {
	return Config{
		WheelMapper:  motion.Linear(DefaultWheelSensitivity),
		SmoothMapper: motion.Linear(DefaultSmoothSensitivity),
		Classifier:   gesture.DefaultClassifier(),
		Interval:     DefaultInterval,
		Wiggle:       command.DefaultWiggle,
		BracketDelay: command.DefaultBracketDelay,
		RateHz:       DefaultRateHz,
	}
}

// State is the scroll state visible to callers.
type State struct {
	Mode          Mode
	Active        bool
	Auto          bool
	DeltaY        float64
	PrevDeltaY    float64
	DesktopDeltaY float64
}

// Snapshot remembers the end of the previous manual scroll.
type Snapshot struct {
	Mode   Mode
	DeltaY float64
}

// Engine is the scroll state machine. All methods must be called from the event loop.
type Engine struct {
	sched   loop.Scheduler
	out     command.Sender
	ind     indicator.Indicator
	samp    *sampler.Sampler
	cfg     Config
	limiter *ratelimit.Limiter

	mode         Mode
	state        State
	timer        loop.Timer
	timerStart   time.Time
	last         *Snapshot
	pressWasAuto bool
}

// New returns an idle engine in Wheel mode.
func New(sched loop.Scheduler, out command.Sender, ind indicator.Indicator, samp *sampler.Sampler, cfg Config) *Engine {
	if ind == nil {
		ind = indicator.Nop{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Classifier.TapRadius <= 0 {
		cfg.Classifier = gesture.DefaultClassifier()
	}
	return &Engine{
		sched:   sched,
		out:     out,
		ind:     ind,
		samp:    samp,
		cfg:     cfg,
		limiter: ratelimit.New(cfg.RateHz, sched),
	}
}

// SetMode selects the mode used by the next manual scroll.
func (e *Engine) SetMode(m Mode) {
	e.mode = m
}

// Mode returns the mode used by the next manual scroll.
func (e *Engine) Mode() Mode {
	return e.mode
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return e.state
}

// Last returns the remembered manual scroll, if any.
func (e *Engine) Last() (Snapshot, bool) {
	if e.last == nil {
		return Snapshot{}, false
	}
	return *e.last, true
}

// Running reports whether the periodic timer is armed.
func (e *Engine) Running() bool {
	return e.timer != nil
}

// Speed returns the speed for the current DeltaY in the active mode.
func (e *Engine) Speed() float64 {
	return e.state.Mode.behavior().speed(e, e.state.DeltaY)
}

// SpeedText formats the current speed with a direction glyph.
func (e *Engine) SpeedText() string {
	glyph := "▼"
	if e.state.DeltaY < 0 {
		glyph = "▲"
	}
	b := e.state.Mode.behavior()
	return fmt.Sprintf("%s %.2f%s", glyph, math.Abs(b.speed(e, e.state.DeltaY)), b.unit())
}

// HandleEvent advances the engine for one scroll area event.
func (e *Engine) HandleEvent(phase gesture.Phase, ev sampler.Event) {
	switch phase {
	case gesture.Press:
		e.press(ev)
	case gesture.Move:
		e.move(ev)
	case gesture.Release:
		e.release(ev)
	}
}

// StopAll compensates the active mode, cancels the timer and clears transient state.
func (e *Engine) StopAll() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if e.state.Active {
		e.state.Mode.behavior().compensate(e)
	}
	e.state = State{Mode: e.state.Mode}
	e.timerStart = time.Time{}
	e.ind.Clear(indicator.AreaScroll)
}

// press stops whatever is running and starts a manual scroll.
func (e *Engine) press(ev sampler.Event) {
	e.pressWasAuto = e.state.Auto
	e.StopAll()
	e.samp.RecordStart(ev)
	e.limiter.Reset()
	e.start(e.mode, 0, false)
	e.ind.ShowPosition(indicator.AreaScroll, ev.X, ev.Y)
}

// move updates DeltaY from the gesture start.
func (e *Engine) move(ev sampler.Event) {
	if !e.state.Active || e.state.Auto {
		return
	}
	if !e.limiter.Allow() {
		return
	}
	d := e.samp.Delta(ev, "")
	e.state.PrevDeltaY = e.state.DeltaY
	e.state.DeltaY = d.DY
	e.state.Mode.behavior().track(e)
	start := e.samp.Start(ev)
	e.ind.ShowVector(indicator.AreaScroll, start.X, start.Y, 0, d.DY)
	e.ind.ShowText(indicator.AreaScroll, e.SpeedText(), false)
}

// release decides between auto scroll, stopping, and remembering the drag.
func (e *Engine) release(ev sampler.Event) {
	if !e.state.Active {
		return
	}
	d := e.samp.Delta(ev, "")
	tap := e.cfg.Classifier.IsTap(d)
	switch {
	case tap && !e.pressWasAuto && e.last != nil:
		snap := *e.last
		e.StopAll()
		e.start(snap.Mode, snap.DeltaY, true)
		e.ind.ShowText(indicator.AreaScroll, e.SpeedText(), true)
		log.WithFields(log.Fields{"mode": snap.Mode, "deltaY": snap.DeltaY}).Debug("scroll: auto started")
	case tap:
		e.StopAll()
	default:
		e.last = &Snapshot{Mode: e.state.Mode, DeltaY: e.state.DeltaY}
		e.StopAll()
	}
	e.pressWasAuto = false
}

// start activates mode with an initial DeltaY.
func (e *Engine) start(m Mode, deltaY float64, auto bool) {
	e.state = State{Mode: m, Active: true, Auto: auto, DeltaY: deltaY}
	m.behavior().begin(e)
}

// wheelTick emits a notch once the interval for the current speed has elapsed.
func (e *Engine) wheelTick() {
	sp := e.Speed()
	if sp == 0 {
		return
	}
	now := e.sched.Now()
	required := time.Duration(float64(time.Second) / math.Abs(sp))
	if now.Sub(e.timerStart) < required {
		return
	}
	e.out.Send(command.Scroll(signOf(sp)))
	e.timerStart = now
}

// signOf returns -1 or 1.
func signOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
