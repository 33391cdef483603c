package gesture

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/frudas24/touchmouse/internal/command"
	"github.com/frudas24/touchmouse/internal/indicator"
	"github.com/frudas24/touchmouse/internal/loop"
	"github.com/frudas24/touchmouse/internal/sampler"
)

// ButtonState is the state of one logical button.
type ButtonState struct {
	Held    bool
	Toggled bool
	timer   loop.Timer
}

// Pending reports whether the hold timer is still armed.
func (s ButtonState) Pending() bool {
	return s.timer != nil
}

// Buttons runs the press/hold/toggle state machine for the logical buttons.
// All methods must be called from the event loop.
type Buttons struct {
	sched  loop.Scheduler
	out    command.Sender
	ind    indicator.Indicator
	samp   *sampler.Sampler
	cfg    ButtonsConfig
	states map[command.Button]*ButtonState
	active command.Button
}

// ButtonsConfig tunes the button state machine.
type ButtonsConfig struct {
	Classifier Classifier
	// Hold is how long a stationary press lasts before it toggles.
	Hold time.Duration
	// UntoggleClicks makes a tap on a toggled button emit click after the up.
	UntoggleClicks bool
}

// NewButtons returns idle state for every logical button.
func NewButtons(sched loop.Scheduler, out command.Sender, ind indicator.Indicator, samp *sampler.Sampler, cfg ButtonsConfig) *Buttons {
	if ind == nil {
		ind = indicator.Nop{}
	}
	if cfg.Hold <= 0 {
		cfg.Hold = DefaultTapDuration
	}
	if cfg.Classifier.TapRadius <= 0 {
		cfg.Classifier = DefaultClassifier()
	}
	b := &Buttons{
		sched:  sched,
		out:    out,
		ind:    ind,
		samp:   samp,
		cfg:    cfg,
		states: make(map[command.Button]*ButtonState, len(command.Buttons)),
	}
	for _, name := range command.Buttons {
		b.states[name] = &ButtonState{}
	}
	return b
}

// HandleEvent advances the state machine for button name.
func (b *Buttons) HandleEvent(name command.Button, phase Phase, ev sampler.Event) {
	if _, ok := b.states[name]; !ok {
		log.WithField("button", name).Warn("buttons: unknown button")
		return
	}
	switch phase {
	case Press:
		b.press(name, ev)
	case Move:
		b.move(name, ev)
	case Release:
		b.release(name, ev)
	}
}

// State returns a copy of the state of name.
func (b *Buttons) State(name command.Button) ButtonState {
	if st, ok := b.states[name]; ok {
		return *st
	}
	return ButtonState{}
}

// Active reports the button with an unfinished gesture, if any.
func (b *Buttons) Active() (command.Button, bool) {
	return b.active, b.active != ""
}

// Tap clicks name directly, untoggling it first when needed.
func (b *Buttons) Tap(name command.Button) {
	st, ok := b.states[name]
	if !ok {
		return
	}
	b.click(name, st)
}

// Abandon ends the active button gesture without emitting anything.
func (b *Buttons) Abandon() {
	if b.active == "" {
		return
	}
	name := b.active
	st := b.states[name]
	b.cancel(st)
	st.Held = false
	b.active = ""
	b.ind.ShowButton(name, false, st.Toggled)
}

// ReleaseAll abandons the active gesture and releases every toggled button.
func (b *Buttons) ReleaseAll() {
	b.Abandon()
	for _, name := range command.Buttons {
		st := b.states[name]
		if st.Toggled {
			st.Toggled = false
			b.out.Send(command.ButtonCmd(name, command.Up))
			b.ind.ShowButton(name, false, false)
		}
	}
}

// press enters Held and arms the hold timer.
func (b *Buttons) press(name command.Button, ev sampler.Event) {
	b.Abandon()
	st := b.states[name]
	b.samp.RecordStart(ev)
	st.Held = true
	st.timer = b.sched.AfterFunc(b.cfg.Hold, func() { b.fire(name) })
	b.active = name
	b.ind.ShowButton(name, true, st.Toggled)
}

// move abandons the press once the pointer leaves the tap radius.
func (b *Buttons) move(name command.Button, ev sampler.Event) {
	if b.active != name {
		return
	}
	if !b.cfg.Classifier.IsWithinTapRadius(b.samp.Delta(ev, "")) {
		log.WithField("button", name).Debug("buttons: moved beyond tap radius")
		b.Abandon()
	}
}

// release clicks when the hold timer has not fired yet.
func (b *Buttons) release(name command.Button, ev sampler.Event) {
	if b.active != name {
		return
	}
	st := b.states[name]
	pending := st.timer != nil
	within := b.cfg.Classifier.IsWithinTapRadius(b.samp.Delta(ev, ""))
	b.cancel(st)
	st.Held = false
	b.active = ""
	b.samp.End()
	if pending && within {
		b.click(name, st)
		return
	}
	b.ind.ShowButton(name, false, st.Toggled)
}

// fire converts a held press into a toggle.
func (b *Buttons) fire(name command.Button) {
	st := b.states[name]
	st.timer = nil
	if !st.Held {
		return
	}
	st.Toggled = !st.Toggled
	action := command.Up
	if st.Toggled {
		action = command.Down
	}
	b.out.Send(command.ButtonCmd(name, action))
	b.ind.ShowButton(name, true, st.Toggled)
}

// click untoggles a toggled button, otherwise clicks it.
func (b *Buttons) click(name command.Button, st *ButtonState) {
	if st.Toggled {
		st.Toggled = false
		b.out.Send(command.ButtonCmd(name, command.Up))
		if !b.cfg.UntoggleClicks {
			b.ind.ShowButton(name, false, false)
			return
		}
	}
	b.out.Send(command.ButtonCmd(name, command.Click))
	b.ind.ShowButton(name, false, false)
}

// cancel stops the hold timer of st.
func (b *Buttons) cancel(st *ButtonState) {
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
}
