package host

import "math"

// Accumulator truncates fractional deltas to whole units and carries the
// remainder into the next call, so no motion is lost to rounding.
type Accumulator struct {
	err float64
}

// Take returns the whole part of d plus any whole unit the carried error has reached.
func (a *Accumulator) Take(d float64) int {
	whole, frac := math.Modf(d)
	carry, rest := math.Modf(a.err + frac)
	a.err = rest
	return int(whole + carry)
}

// Reset discards the carried error.
func (a *Accumulator) Reset() {
	a.err = 0
}
