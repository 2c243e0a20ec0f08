/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package headsup

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func expectFire(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("%s: callback did not run", what)
	}
}

func expectQuiet(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
		t.Fatalf("%s: callback ran", what)
	case <-time.After(50 * time.Millisecond):
	}
}

// inline runs callbacks on the timer goroutine. Callbacks here only touch
// channels.
func inline(fn func()) { fn() }

func expectPanic(t *testing.T, what string, fn func()) {
	t.Helper()

	defer func() {
		if recover() == nil {
			t.Fatalf("%s did not panic", what)
		}
	}()

	fn()
}

func TestNewSchedulerRequiresPost(t *testing.T) {
	expectPanic(t, "NewScheduler(clock, nil)", func() {
		NewScheduler(clockwork.NewFakeClock(), nil)
	})
}

func TestClockSchedulerAfter(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewScheduler(clock, inline)

	fired := make(chan struct{}, 1)
	s.After(400*time.Millisecond, func() { fired <- struct{}{} })

	clock.Advance(399 * time.Millisecond)
	expectQuiet(t, fired, "before deadline")

	clock.Advance(time.Millisecond)
	expectFire(t, fired, "at deadline")
}

func TestClockSchedulerCancelAfter(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewScheduler(clock, inline)

	fired := make(chan struct{}, 1)
	cancel := s.After(400*time.Millisecond, func() { fired <- struct{}{} })
	cancel()
	cancel()

	clock.Advance(time.Second)
	expectQuiet(t, fired, "after cancel")
}

func TestClockSchedulerCancelQueuedCallback(t *testing.T) {
	clock := clockwork.NewFakeClock()

	queued := make(chan func(), 1)
	s := NewScheduler(clock, func(fn func()) { queued <- fn })

	ran := false
	cancel := s.After(400*time.Millisecond, func() { ran = true })
	clock.Advance(400 * time.Millisecond)

	var fn func()
	select {
	case fn = <-queued:
	case <-time.After(time.Second):
		t.Fatal("callback was never posted")
	}

	cancel()
	fn()
	if ran {
		t.Fatal("callback posted before cancel still ran")
	}
}

func TestClockSchedulerEvery(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewScheduler(clock, inline)

	fired := make(chan struct{}, 1)
	cancel := s.Every(time.Second, func() { fired <- struct{}{} })

	for range 3 {
		clock.Advance(time.Second)
		expectFire(t, fired, "periodic tick")
	}

	cancel()
	clock.Advance(time.Second)
	expectQuiet(t, fired, "after cancel")
}
