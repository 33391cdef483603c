// Package ratelimit throttles handlers to a maximum call rate.
package ratelimit

import (
	"time"

	"golang.org/x/time/rate"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Limiter passes the first call of each window and drops the rest. It reads
// time from its Clock so virtual schedulers drive it.
type Limiter struct {
	clock Clock
	limit rate.Limit
	lim   *rate.Limiter
}

// New returns a limiter admitting at most hz calls per second. hz <= 0 disables limiting.
func New(hz float64, clock Clock) *Limiter {
	limit := rate.Inf
	if hz > 0 {
		limit = rate.Limit(hz)
	}
	l := &Limiter{clock: clock, limit: limit}
	l.Reset()
	return l
}

// Allow reports whether a call may pass now. Denied calls are not queued.
func (l *Limiter) Allow() bool {
	return l.lim.AllowN(l.clock.Now(), 1)
}

// Reset reopens the limiter so the next call passes.
func (l *Limiter) Reset() {
	l.lim = rate.NewLimiter(l.limit, 1)
}

// Wrap returns fn throttled to hz. Suppressed calls are dropped, never replayed.
func Wrap[T any](fn func(T), hz float64, clock Clock) func(T) {
	l := New(hz, clock)
	return func(v T) {
		if l.Allow() {
			fn(v)
		}
	}
}
