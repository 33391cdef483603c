package control

import (
	log "github.com/sirupsen/logrus"

	"github.com/frudas24/touchmouse/internal/command"
	"github.com/frudas24/touchmouse/internal/gesture"
	"github.com/frudas24/touchmouse/internal/indicator"
	"github.com/frudas24/touchmouse/internal/loop"
	"github.com/frudas24/touchmouse/internal/motion"
	"github.com/frudas24/touchmouse/internal/ratelimit"
	"github.com/frudas24/touchmouse/internal/sampler"
	"github.com/frudas24/touchmouse/internal/scroll"
	"github.com/frudas24/touchmouse/internal/spin"
)

const (
	// DefaultMoveSensitivity scales finger pixels into pointer pixels.
	DefaultMoveSensitivity = 2.0
	// DefaultMoveRateHz caps how often touch commands are sent.
	DefaultMoveRateHz = 120.0

	moveKey = "move"
)

// PointerConfig tunes the move area.
type PointerConfig struct {
	Mapper     motion.Mapper
	Classifier gesture.Classifier
	RateHz     float64
	// TapLeftClick makes a tap on the move area click the left button.
	TapLeftClick bool
}

// DefaultPointerConfig returns the default move area tuning.
func DefaultPointerConfig() PointerConfig {
	return PointerConfig{
		Mapper:       motion.Linear(DefaultMoveSensitivity),
		Classifier:   gesture.DefaultClassifier(),
		RateHz:       DefaultMoveRateHz,
		TapLeftClick: true,
	}
}

// Pointer turns drags on the move area into touch commands and flings into spins.
// All methods must be called from the event loop.
type Pointer struct {
	cfg     PointerConfig
	out     command.Sender
	ind     indicator.Indicator
	samp    *sampler.Sampler
	buttons *gesture.Buttons
	scroll  *scroll.Engine
	spin    *spin.Detector
	limiter *ratelimit.Limiter
	active  bool
}

// NewPointer wires the move area to the shared sampler, buttons and scroll engine.
func NewPointer(sched loop.Scheduler, out command.Sender, ind indicator.Indicator, samp *sampler.Sampler,
	buttons *gesture.Buttons, eng *scroll.Engine, det *spin.Detector, cfg PointerConfig) *Pointer {
	if ind == nil {
		ind = indicator.Nop{}
	}
	if cfg.Classifier.TapRadius <= 0 {
		cfg.Classifier = gesture.DefaultClassifier()
	}
	return &Pointer{
		cfg:     cfg,
		out:     out,
		ind:     ind,
		samp:    samp,
		buttons: buttons,
		scroll:  eng,
		spin:    det,
		limiter: ratelimit.New(cfg.RateHz, sched),
	}
}

// HandleEvent advances the move area for one event.
func (p *Pointer) HandleEvent(phase gesture.Phase, ev sampler.Event) {
	switch phase {
	case gesture.Press:
		p.press(ev)
	case gesture.Move:
		p.move(ev)
	case gesture.Release:
		p.release(ev)
	}
}

// Active reports whether a drag is in progress.
func (p *Pointer) Active() bool {
	return p.active
}

// Abandon ends the drag without clicking or spinning.
func (p *Pointer) Abandon() {
	if !p.active {
		return
	}
	p.active = false
	p.ind.Clear(indicator.AreaMove)
}

// press stops scrolling and starts a new drag with a fresh motion history.
func (p *Pointer) press(ev sampler.Event) {
	p.scroll.StopAll()
	start := p.samp.RecordStart(ev)
	p.spin.Begin(start)
	p.limiter.Reset()
	p.active = true
	p.ind.ShowPosition(indicator.AreaMove, ev.X, ev.Y)
}

// move records the sample and sends the rate limited relative motion.
func (p *Pointer) move(ev sampler.Event) {
	if !p.active {
		return
	}
	p.spin.Add(p.samp.Sample(ev))
	if !p.limiter.Allow() {
		return
	}
	d := p.samp.Delta(ev, moveKey)
	dx, dy := p.cfg.Mapper.MapXY(d.DX, d.DY)
	if dx == 0 && dy == 0 {
		return
	}
	p.out.Send(command.Touch(dx, dy))
	p.ind.ShowPosition(indicator.AreaMove, ev.X, ev.Y)
}

// release clicks on a tap, otherwise looks for a fling.
func (p *Pointer) release(ev sampler.Event) {
	if !p.active {
		return
	}
	p.active = false
	d := p.samp.Delta(ev, "")
	if p.cfg.TapLeftClick && p.cfg.Classifier.IsTap(d) {
		p.samp.End()
		log.Debug("pointer: tap on move area")
		p.buttons.Tap(command.Left)
		return
	}
	p.spin.Release(p.samp.Sample(ev))
	p.samp.End()
}
