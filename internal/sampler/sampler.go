// Package sampler turns raw pointer and touch events into timestamped positions.
package sampler

import (
	"math"

	log "github.com/sirupsen/logrus"
)

// startKey is the reference that stays fixed at the gesture start.
const startKey = ""

// PositionSample is a pixel position with a millisecond timestamp.
type PositionSample struct {
	X         float64
	Y         float64
	TimeStamp float64
}

// Delta is the difference between two samples.
type Delta struct {
	DX float64
	DY float64
	DT float64
}

// Distance returns the Euclidean length of the delta.
func (d Delta) Distance() float64 {
	return math.Hypot(d.DX, d.DY)
}

// Sampler records the start of the active gesture and keyed reference points.
type Sampler struct {
	refs map[string]PositionSample
}

// New returns a sampler with no active gesture.
func New() *Sampler {
	return &Sampler{refs: make(map[string]PositionSample)}
}

// Sample converts an event into a position sample.
func (s *Sampler) Sample(ev Event) PositionSample {
	return PositionSample{X: ev.X, Y: ev.Y, TimeStamp: ev.TimeStamp}
}

// RecordStart begins a new gesture at ev, discarding every stored reference.
func (s *Sampler) RecordStart(ev Event) PositionSample {
	clear(s.refs)
	p := s.Sample(ev)
	s.refs[startKey] = p
	return p
}

// End clears the gesture.
func (s *Sampler) End() {
	clear(s.refs)
}

// Active reports whether a gesture start is recorded.
func (s *Sampler) Active() bool {
	_, ok := s.refs[startKey]
	return ok
}

// Start returns the gesture start, synthesizing one at ev when none was recorded.
func (s *Sampler) Start(ev Event) PositionSample {
	p, ok := s.refs[startKey]
	if !ok {
		log.WithField("type", ev.Type).Warn("sampler: gesture start not recorded, using current position")
		p = s.Sample(ev)
		s.refs[startKey] = p
	}
	return p
}

// Delta returns the movement of ev relative to the reference for key. The empty key
// always measures against the gesture start. Other keys measure against the position
// recorded by the previous call with the same key, or the start on the first call.
func (s *Sampler) Delta(ev Event, key string) Delta {
	prev, ok := s.refs[key]
	if !ok || key == startKey {
		prev = s.Start(ev)
	}
	cur := s.Sample(ev)
	if key != startKey {
		s.refs[key] = cur
	}
	return Delta{
		DX: cur.X - prev.X,
		DY: cur.Y - prev.Y,
		DT: cur.TimeStamp - prev.TimeStamp,
	}
}
