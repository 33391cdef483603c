// Package gesture classifies presses into taps, holds and drags.
package gesture

import (
	"time"

	"github.com/frudas24/touchmouse/internal/sampler"
)

const (
	// DefaultTapRadius is the largest movement, in pixels, that still counts as a tap.
	DefaultTapRadius = 20.0
	// DefaultTapDuration is the longest press that still counts as a tap.
	DefaultTapDuration = 200 * time.Millisecond
)

// Kind is the classification of a gesture so far.
type Kind int

const (
	Drag Kind = iota
	Tap
	Hold
)

// String returns the lower-case name of k.
func (k Kind) String() string {
	switch k {
	case Tap:
		return "tap"
	case Hold:
		return "hold"
	default:
		return "drag"
	}
}

// Classifier decides tap, hold or drag from a delta measured against the gesture start.
type Classifier struct {
	TapRadius   float64
	TapDuration time.Duration
}

// DefaultClassifier returns a classifier with the default thresholds.
func DefaultClassifier() Classifier {
	return Classifier{TapRadius: DefaultTapRadius, TapDuration: DefaultTapDuration}
}

// IsWithinTapRadius reports whether the pointer stayed close to the start.
func (c Classifier) IsWithinTapRadius(d sampler.Delta) bool {
	return d.Distance() < c.TapRadius
}

// IsShortEnough reports whether the gesture is younger than the tap duration.
// Sample timestamps are in milliseconds.
func (c Classifier) IsShortEnough(d sampler.Delta) bool {
	return d.DT < float64(c.TapDuration)/float64(time.Millisecond)
}

// IsTap reports a short stationary gesture.
func (c Classifier) IsTap(d sampler.Delta) bool {
	return c.IsWithinTapRadius(d) && c.IsShortEnough(d)
}

// IsHold reports a long stationary gesture.
func (c Classifier) IsHold(d sampler.Delta) bool {
	return c.IsWithinTapRadius(d) && !c.IsShortEnough(d)
}

// Classify returns the kind of gesture d describes.
func (c Classifier) Classify(d sampler.Delta) Kind {
	switch {
	case c.IsTap(d):
		return Tap
	case c.IsHold(d):
		return Hold
	default:
		return Drag
	}
}
