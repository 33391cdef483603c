// Package motion maps pixel deltas to command magnitudes.
package motion

import (
	"math"

	"github.com/frudas24/touchmouse/internal/command"
)

const (
	minCurveSpeed = 0.01
	maxCurveSpeed = 1000.0
)

// Curve is the exponential acceleration curve (exp(|s|*A)*B - 1) * sign(s).
type Curve struct {
	A float64 `yaml:"a" toml:"a"`
	B float64 `yaml:"b" toml:"b"`
}

// Enabled reports whether the curve has usable parameters.
func (c Curve) Enabled() bool {
	return c.A != 0 && c.B != 0
}

// Apply maps a signed speed through the curve. Zero stays zero.
func (c Curve) Apply(s float64) float64 {
	if s == 0 || math.IsNaN(s) {
		return 0
	}
	mag := math.Min(math.Max(math.Abs(s), minCurveSpeed), maxCurveSpeed)
	return (math.Exp(mag*c.A)*c.B - 1) * sign(s)
}

// Mapper scales deltas linearly, or through a curve when one is set.
type Mapper struct {
	Sensitivity float64
	Curve       *Curve
}

// Linear returns a mapper that multiplies by sensitivity.
func Linear(sensitivity float64) Mapper {
	return Mapper{Sensitivity: sensitivity}
}

// Accelerated returns a mapper that applies c to speed before scaling.
func Accelerated(sensitivity float64, c Curve) Mapper {
	return Mapper{Sensitivity: sensitivity, Curve: &c}
}

// Map converts a raw delta into an output magnitude.
func (m Mapper) Map(v float64) float64 {
	if m.Curve != nil && m.Curve.Enabled() {
		v = m.Curve.Apply(v)
	}
	return v * m.Sensitivity
}

// MapXY converts a 2D delta and fixes both components for transmission.
func (m Mapper) MapXY(dx, dy float64) (float64, float64) {
	return Fixed(m.Map(dx)), Fixed(m.Map(dy))
}

// Fixed rounds v to the wire precision.
func Fixed(v float64) float64 {
	scale := math.Pow10(command.Decimals)
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0
	}
	return r
}

// sign returns -1 for negative values and 1 otherwise.
func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
