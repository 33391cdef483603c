// Package spin detects momentum flings at the end of a drag.
package spin

import (
	"math"

	"github.com/frudas24/touchmouse/internal/sampler"
)

const (
	// DefaultThreshold is the slowest fling, in px/ms, that still spins.
	DefaultThreshold = 0.1
	// DefaultSpeedTolerance is the fraction of the peak speed a fling segment must keep.
	DefaultSpeedTolerance = 0.8
	// DefaultAngleTolerance is the largest turn, in degrees, between fling segments.
	DefaultAngleTolerance = 10.0
	// DefaultScale converts fling speed into the spin vector length.
	DefaultScale = 100.0
)

// Config tunes fling detection.
type Config struct {
	// Threshold is the minimum fling speed in px/ms.
	Threshold float64
	// SpeedTolerance is the fraction of the peak segment speed below which the scan stops.
	SpeedTolerance float64
	// AngleTolerance is the direction change in degrees that stops the scan.
	AngleTolerance float64
	// Scale multiplies the speed into the spin magnitude.
	Scale float64
}

// DefaultConfig returns the default tuning.
func DefaultConfig() Config {
	return Config{
		Threshold:      DefaultThreshold,
		SpeedTolerance: DefaultSpeedTolerance,
		AngleTolerance: DefaultAngleTolerance,
		Scale:          DefaultScale,
	}
}

// Result describes the fling found in a motion history.
type Result struct {
	Start   sampler.PositionSample
	End     sampler.PositionSample
	DX      float64
	DY      float64
	Length  float64
	Elapsed float64
	Speed   float64
	// Spin is false when the fling is too slow.
	Spin bool
	// VX and VY are the spin vector to send.
	VX float64
	VY float64
}

// Detect scans samples backward from the release to find where the fling began.
func Detect(samples []sampler.PositionSample, cfg Config) Result {
	n := len(samples)
	if n < 2 {
		return Result{}
	}
	start := flingStart(samples, cfg)
	a, b := samples[start], samples[n-1]
	r := Result{Start: a, End: b, DX: b.X - a.X, DY: b.Y - a.Y, Elapsed: b.TimeStamp - a.TimeStamp}
	r.Length = math.Hypot(r.DX, r.DY)
	if r.Elapsed <= 0 || r.Length == 0 {
		return r
	}
	r.Speed = r.Length / r.Elapsed
	if r.Speed < cfg.Threshold {
		return r
	}
	mag := r.Speed * cfg.Scale
	r.Spin = true
	r.VX = r.DX / r.Length * mag
	r.VY = r.DY / r.Length * mag
	return r
}

// flingStart returns the index of the first sample of the fling. Segment k joins
// samples k-1 and k. Trailing samples that repeat the previous position, such as
// a release reported where the last move ended, are not part of the scan.
func flingStart(samples []sampler.PositionSample, cfg Config) int {
	last := len(samples) - 1
	for last > 0 && samePosition(samples[last-1], samples[last]) {
		last--
	}
	if last == 0 {
		return len(samples) - 2
	}
	start := 0
	peak := 0.0
	for k := last; k >= 1; k-- {
		sk := segmentSpeed(samples, k)
		peak = math.Max(peak, sk)
		limit := peak * cfg.SpeedTolerance
		if sk < limit {
			start = k
			break
		}
		if k+1 <= last {
			if segmentSpeed(samples, k+1) < limit {
				start = k + 1
				break
			}
			if segmentAngle(samples, k, k+1) > cfg.AngleTolerance {
				start = k
				break
			}
		}
	}
	return min(start, last-1)
}

// samePosition reports whether two samples share coordinates.
func samePosition(a, b sampler.PositionSample) bool {
	return a.X == b.X && a.Y == b.Y
}

// segmentSpeed returns the speed of segment k in px/ms.
func segmentSpeed(samples []sampler.PositionSample, k int) float64 {
	a, b := samples[k-1], samples[k]
	dist := math.Hypot(b.X-a.X, b.Y-a.Y)
	dt := b.TimeStamp - a.TimeStamp
	if dt <= 0 {
		if dist == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return dist / dt
}

// segmentAngle returns the angle in degrees between segments i and j.
func segmentAngle(samples []sampler.PositionSample, i, j int) float64 {
	ax, ay := samples[i].X-samples[i-1].X, samples[i].Y-samples[i-1].Y
	bx, by := samples[j].X-samples[j-1].X, samples[j].Y-samples[j-1].Y
	if (ax == 0 && ay == 0) || (bx == 0 && by == 0) {
		return 0
	}
	cross := ax*by - ay*bx
	dot := ax*bx + ay*by
	return math.Abs(math.Atan2(cross, dot)) * 180 / math.Pi
}
