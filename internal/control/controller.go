package control

import (
	log "github.com/sirupsen/logrus"

	"github.com/frudas24/touchmouse/internal/command"
	"github.com/frudas24/touchmouse/internal/gesture"
	"github.com/frudas24/touchmouse/internal/indicator"
	"github.com/frudas24/touchmouse/internal/loop"
	"github.com/frudas24/touchmouse/internal/sampler"
	"github.com/frudas24/touchmouse/internal/scroll"
	"github.com/frudas24/touchmouse/internal/spin"
)

// ControllerConfig collects the tuning of every pad subsystem.
type ControllerConfig struct {
	Buttons    gesture.ButtonsConfig
	Pointer    PointerConfig
	Scroll     scroll.Config
	Spin       spin.Config
	HistoryCap int
}

// DefaultControllerConfig returns the built-in tuning.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		Buttons:    gesture.ButtonsConfig{Classifier: gesture.DefaultClassifier(), Hold: gesture.DefaultTapDuration},
		Pointer:    DefaultPointerConfig(),
		Scroll:     scroll.DefaultConfig(),
		Spin:       spin.DefaultConfig(),
		HistoryCap: sampler.DefaultHistoryCap,
	}
}

// Controller owns all gesture state of one pad and routes events to the area
// that produced them. Only one gesture is active at a time. All methods must be
// called from the event loop.
type Controller struct {
	samp    *sampler.Sampler
	buttons *gesture.Buttons
	pointer *Pointer
	scroll  *scroll.Engine
	area    string
	button  command.Button
	enabled bool
}

// NewController builds the gesture subsystems around a single sampler.
func NewController(sched loop.Scheduler, out command.Sender, ind indicator.Indicator, cfg ControllerConfig) *Controller {
	if ind == nil {
		ind = indicator.Nop{}
	}
	samp := sampler.New()
	buttons := gesture.NewButtons(sched, out, ind, samp, cfg.Buttons)
	eng := scroll.New(sched, out, ind, samp, cfg.Scroll)
	det := spin.NewDetector(out, ind, cfg.Spin, cfg.HistoryCap)
	return &Controller{
		samp:    samp,
		buttons: buttons,
		scroll:  eng,
		pointer: NewPointer(sched, out, ind, samp, buttons, eng, det, cfg.Pointer),
		enabled: true,
	}
}

// Handle dispatches one decoded event from area. button names the logical
// button for the button area.
func (c *Controller) Handle(area, button string, ev sampler.Event) {
	if !c.enabled {
		return
	}
	phase, ok := gesture.PhaseOf(ev.Type)
	if !ok {
		log.WithField("type", ev.Type).Debug("control: ignoring event type")
		return
	}
	if phase == gesture.Press {
		c.supersede()
	} else if area != c.area || (area == AreaButton && command.Button(button) != c.button) {
		return
	}

	switch area {
	case AreaMove:
		c.pointer.HandleEvent(phase, ev)
	case AreaScroll:
		c.scroll.HandleEvent(phase, ev)
	case AreaButton:
		c.buttons.HandleEvent(command.Button(button), phase, ev)
	default:
		log.WithField("area", area).Warn("control: unknown area")
		return
	}

	switch phase {
	case gesture.Press:
		c.area = area
		c.button = command.Button(button)
	case gesture.Release:
		c.area = ""
		c.button = ""
		c.samp.End()
	}
}

// SetSmooth selects smooth or wheel mode for the next scroll.
func (c *Controller) SetSmooth(on bool) {
	mode := scroll.Wheel
	if on {
		mode = scroll.Smooth
	}
	c.scroll.SetMode(mode)
}

// Smooth reports whether smooth mode is selected.
func (c *Controller) Smooth() bool {
	return c.scroll.Mode() == scroll.Smooth
}

// SetInputEnabled stops every gesture when input is disabled.
func (c *Controller) SetInputEnabled(on bool) {
	if c.enabled == on {
		return
	}
	c.enabled = on
	if !on {
		c.Reset()
	}
}

// Reset stops scrolling, cancels hold timers and releases toggled buttons.
func (c *Controller) Reset() {
	c.scroll.StopAll()
	c.buttons.ReleaseAll()
	c.pointer.Abandon()
	c.samp.End()
	c.area = ""
	c.button = ""
}

// Scroll returns the scroll engine.
func (c *Controller) Scroll() *scroll.Engine {
	return c.scroll
}

// Buttons returns the button state machine.
func (c *Controller) Buttons() *gesture.Buttons {
	return c.buttons
}

// supersede ends a gesture left unterminated by a lost release.
func (c *Controller) supersede() {
	switch c.area {
	case "":
		return
	case AreaMove:
		c.pointer.Abandon()
	case AreaScroll:
		c.scroll.StopAll()
	case AreaButton:
		c.buttons.Abandon()
	}
	log.WithField("area", c.area).Debug("control: superseding unterminated gesture")
	c.samp.End()
	c.area = ""
	c.button = ""
}
