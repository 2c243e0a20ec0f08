/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package headsup

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Gate turns a stream of classified samples into single actions. Once an
// action fires the gate locks until the device returns to neutral or the
// lock expires, whichever comes first.
type Gate struct {
	thresholds Thresholds
	lockFor    time.Duration
	clock      clockwork.Clock

	locked     bool
	lockExpiry time.Time
}

func NewGate(t Thresholds, lockFor time.Duration, clock clockwork.Clock) *Gate {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Gate{
		thresholds: t,
		lockFor:    lockFor,
		clock:      clock,
	}
}

// Observe feeds one sample through the gate and returns the action to fire,
// if any.
func (g *Gate) Observe(s Sample) Action {
	now := g.clock.Now()

	// Players often rotate past neutral into the opposite zone; without the
	// expiry the gate could stay locked for the rest of the round.
	if g.locked && !now.Before(g.lockExpiry) {
		g.unlock()
	}

	if g.locked {
		if g.thresholds.Neutral(s) {
			g.unlock()
		}
		return ActionNone
	}

	action := g.thresholds.Classify(s)
	if action == ActionNone {
		return ActionNone
	}

	g.locked = true
	g.lockExpiry = now.Add(g.lockFor)

	return action
}

// Locked reports whether the gate is suppressing actions.
func (g *Gate) Locked() bool {
	return g.locked
}

// Reset clears any lock.
func (g *Gate) Reset() {
	g.unlock()
}

func (g *Gate) unlock() {
	g.locked = false
	g.lockExpiry = time.Time{}
}
