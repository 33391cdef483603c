// Package testutil provides fakes shared by package tests.
package testutil

import (
	"sync"
	"time"

	"github.com/frudas24/touchmouse/internal/loop"
)

// Clock is a manual loop.Scheduler. Callbacks only run inside Advance, on the caller's goroutine.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*clockTimer
}

var _ loop.Scheduler = (*Clock)(nil)

// NewClock returns a clock starting at the Unix epoch.
func NewClock() *Clock {
	return &Clock{now: time.Unix(0, 0)}
}

// Now returns the virtual time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules fn once after d.
func (c *Clock) AfterFunc(d time.Duration, fn func()) loop.Timer {
	return c.add(d, 0, fn)
}

// Every schedules fn every d.
func (c *Clock) Every(d time.Duration, fn func()) loop.Timer {
	if d <= 0 {
		d = time.Millisecond
	}
	return c.add(d, d, fn)
}

// Advance moves time forward by d, firing due callbacks in time order.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		next := c.nextDue(target)
		if next == nil {
			break
		}
		c.now = next.at
		if next.period > 0 {
			next.at = next.at.Add(next.period)
		} else {
			next.stopped = true
		}
		c.mu.Unlock()
		next.fn()
		c.mu.Lock()
	}
	c.now = target
	c.prune()
	c.mu.Unlock()
}

// Pending returns how many timers are still scheduled.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// add registers a timer.
func (c *Clock) add(d, period time.Duration, fn func()) *clockTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &clockTimer{clock: c, at: c.now.Add(d), period: period, fn: fn, seq: c.seq}
	c.timers = append(c.timers, t)
	return t
}

// nextDue returns the earliest live timer due at or before target.
func (c *Clock) nextDue(target time.Time) *clockTimer {
	var best *clockTimer
	for _, t := range c.timers {
		if t.stopped || t.at.After(target) {
			continue
		}
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

// prune drops stopped timers.
func (c *Clock) prune() {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	c.timers = live
}

type clockTimer struct {
	clock   *Clock
	at      time.Time
	period  time.Duration
	fn      func()
	seq     int
	stopped bool
}

// Stop cancels the timer.
func (t *clockTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}
