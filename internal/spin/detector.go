package spin

import (
	log "github.com/sirupsen/logrus"

	"github.com/frudas24/touchmouse/internal/command"
	"github.com/frudas24/touchmouse/internal/indicator"
	"github.com/frudas24/touchmouse/internal/sampler"
)

// Detector owns the motion history of the move area and emits spin commands.
type Detector struct {
	cfg  Config
	hist *sampler.History
	out  command.Sender
	ind  indicator.Indicator
}

// NewDetector returns a detector keeping up to historyCap samples.
func NewDetector(out command.Sender, ind indicator.Indicator, cfg Config, historyCap int) *Detector {
	if ind == nil {
		ind = indicator.Nop{}
	}
	return &Detector{cfg: cfg, hist: sampler.NewHistory(historyCap), out: out, ind: ind}
}

// Begin clears the history and cancels any momentum on the host.
func (d *Detector) Begin(p sampler.PositionSample) {
	d.hist.Reset()
	d.hist.Add(p)
	d.out.Send(command.Spin(0, 0))
}

// Add records a drag sample.
func (d *Detector) Add(p sampler.PositionSample) {
	d.hist.Add(p)
}

// Len returns the number of recorded samples.
func (d *Detector) Len() int {
	return d.hist.Len()
}

// Release records the final sample and sends a spin when the fling is fast enough.
func (d *Detector) Release(p sampler.PositionSample) Result {
	d.hist.Add(p)
	r := Detect(d.hist.Samples(), d.cfg)
	d.hist.Reset()
	if !r.Spin {
		log.WithField("speed", r.Speed).Debug("spin: no motion")
		d.ind.ShowText(indicator.AreaMove, "no motion", false)
		return r
	}
	d.out.Send(command.Spin(r.VX, r.VY))
	d.ind.ShowVector(indicator.AreaMove, r.Start.X, r.Start.Y, r.DX, r.DY)
	return r
}
