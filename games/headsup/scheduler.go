/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package headsup

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// Cancel stops a scheduled callback. It is safe to call more than once, and
// a callback already queued on the owner's loop becomes a no-op.
type Cancel func()

// Scheduler runs callbacks later, on the owner's thread of control.
type Scheduler interface {
	After(d time.Duration, fn func()) Cancel
	Every(d time.Duration, fn func()) Cancel
}

// ClockScheduler waits on clockwork timers and hands each due callback to
// post, which is expected to run it on the goroutine that owns the round.
type ClockScheduler struct {
	clock clockwork.Clock
	post  func(func())
}

// NewScheduler panics if post is nil: running callbacks on the timer
// goroutines would race with the owner.
func NewScheduler(clock clockwork.Clock, post func(func())) *ClockScheduler {
	if post == nil {
		panic("headsup: NewScheduler requires a post function")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &ClockScheduler{
		clock: clock,
		post:  post,
	}
}

func (s *ClockScheduler) After(d time.Duration, fn func()) Cancel {
	timer := s.clock.NewTimer(d)
	h := newHandle()

	go func() {
		select {
		case <-timer.Chan():
			s.dispatch(h, fn)
		case <-h.done:
			stopAndDrainTimer(timer)
		}
	}()

	return h.cancel
}

func (s *ClockScheduler) Every(d time.Duration, fn func()) Cancel {
	ticker := s.clock.NewTicker(d)
	h := newHandle()

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.Chan():
				s.dispatch(h, fn)
			case <-h.done:
				return
			}
		}
	}()

	return h.cancel
}

func (s *ClockScheduler) dispatch(h *handle, fn func()) {
	if h.stopped.Load() {
		return
	}

	s.post(func() {
		if h.stopped.Load() {
			return
		}
		fn()
	})
}

type handle struct {
	once    sync.Once
	stopped atomic.Bool
	done    chan struct{}
}

func newHandle() *handle {
	return &handle{done: make(chan struct{})}
}

func (h *handle) cancel() {
	h.once.Do(func() {
		h.stopped.Store(true)
		close(h.done)
	})
}

// stopAndDrainTimer stops a timer and drains its channel if it already fired.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
