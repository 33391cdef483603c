// Package loop runs gesture handlers and timer callbacks on a single goroutine.
package loop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const defaultQueueSize = 256

// Timer is a cancellable scheduled task.
type Timer interface {
	// Stop cancels the task. It reports false when the task already ran or was stopped.
	Stop() bool
}

// Scheduler schedules callbacks on the event loop.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
}

// Loop executes posted closures strictly sequentially.
type Loop struct {
	queue    chan func()
	done     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// New returns an idle loop. Call Run to start processing.
func New() *Loop {
	return &Loop{
		queue: make(chan func(), defaultQueueSize),
		done:  make(chan struct{}),
		now:   time.Now,
	}
}

// Run processes posted closures until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stopOnce.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.queue:
			fn()
		}
	}
}

// Post queues fn for execution on the loop. It reports false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case <-l.done:
		return false
	case l.queue <- fn:
		return true
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(fn func()) bool {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// Now returns the loop clock.
func (l *Loop) Now() time.Time {
	return l.now()
}

// AfterFunc runs fn on the loop once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	timer := time.AfterFunc(d, func() {
		l.Post(func() {
			if t.stopped.Swap(true) {
				return
			}
			fn()
		})
	})
	t.cancel = func() { timer.Stop() }
	return t
}

// Every runs fn on the loop once per period until stopped.
func (l *Loop) Every(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	ticker := time.NewTicker(d)
	quit := make(chan struct{})
	go func() {
		for {
			select {
			case <-quit:
				return
			case <-l.done:
				ticker.Stop()
				return
			case <-ticker.C:
				l.Post(func() {
					if !t.stopped.Load() {
						fn()
					}
				})
			}
		}
	}()
	t.cancel = func() {
		ticker.Stop()
		close(quit)
	}
	return t
}

type loopTimer struct {
	stopped atomic.Bool
	cancel  func()
}

// Stop cancels the timer. Callbacks already queued on the loop are skipped.
func (t *loopTimer) Stop() bool {
	if t.stopped.Swap(true) {
		return false
	}
	t.cancel()
	return true
}
