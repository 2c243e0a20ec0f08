/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package headsup

import "time"

const tickInterval = time.Second

// Suspender reports whether the round clock should hold still, e.g. while
// the app is backgrounded or the device is held the wrong way up.
type Suspender interface {
	Suspended() bool
}

// Tick is the result of one unsuspended second of play.
type Tick struct {
	Remaining int
	// Warning and Danger are edge-triggered: each is true on exactly one
	// tick, the one that lands on its threshold.
	Warning bool
	Danger  bool
	Expired bool
}

// RoundTimer is a suspendable countdown in whole seconds.
type RoundTimer struct {
	sched     Scheduler
	suspender Suspender
	warningAt int
	dangerAt  int

	remaining  int
	warned     bool
	endangered bool
	cancel     Cancel
}

func NewRoundTimer(sched Scheduler, suspender Suspender, warningAt, dangerAt int) *RoundTimer {
	return &RoundTimer{
		sched:     sched,
		suspender: suspender,
		warningAt: warningAt,
		dangerAt:  dangerAt,
	}
}

// Start sets the countdown and begins calling onTick once per second. A
// previous tick source, if any, is cancelled first.
func (t *RoundTimer) Start(seconds int, onTick func()) {
	t.Stop()

	t.remaining = seconds
	t.warned = false
	t.endangered = false

	if t.sched != nil && onTick != nil {
		t.cancel = t.sched.Every(tickInterval, onTick)
	}
}

// Tick consumes one second. It returns false, leaving the countdown
// untouched, while the suspension condition holds.
func (t *RoundTimer) Tick() (Tick, bool) {
	if t.suspender != nil && t.suspender.Suspended() {
		return Tick{Remaining: t.remaining}, false
	}

	if t.remaining > 0 {
		t.remaining--
	}

	tick := Tick{
		Remaining: t.remaining,
		Expired:   t.remaining <= 0,
	}

	if !t.warned && t.remaining == t.warningAt {
		t.warned = true
		tick.Warning = true
	}
	if !t.endangered && t.remaining == t.dangerAt {
		t.endangered = true
		tick.Danger = true
	}

	return tick, true
}

// Stop cancels the tick source. It is idempotent.
func (t *RoundTimer) Stop() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Running reports whether a tick source is active.
func (t *RoundTimer) Running() bool {
	return t.cancel != nil
}

func (t *RoundTimer) Remaining() int {
	return t.remaining
}
