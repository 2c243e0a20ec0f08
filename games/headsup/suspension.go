/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package headsup

import (
	"slices"
	"strings"
)

// SuspendReason names a host condition that holds the round clock.
type SuspendReason string

const (
	ReasonBackgrounded     SuspendReason = "backgrounded"
	ReasonWrongOrientation SuspendReason = "wrong_orientation"

	// ReasonDisconnected is raised by the host, never by the device itself.
	ReasonDisconnected SuspendReason = "disconnected"
)

// Suspension is the set of currently raised suspend reasons. The round is
// suspended while any reason is raised.
type Suspension struct {
	raised map[SuspendReason]bool
}

func NewSuspension() *Suspension {
	return &Suspension{raised: make(map[SuspendReason]bool)}
}

// Set raises or clears a reason and reports whether the set changed.
func (s *Suspension) Set(reason SuspendReason, raised bool) bool {
	reason = SuspendReason(strings.TrimSpace(string(reason)))
	if reason == "" || s.raised[reason] == raised {
		return false
	}

	if raised {
		s.raised[reason] = true
	} else {
		delete(s.raised, reason)
	}

	return true
}

func (s *Suspension) Suspended() bool {
	return len(s.raised) > 0
}

// Reasons returns the raised reasons in sorted order.
func (s *Suspension) Reasons() []SuspendReason {
	out := make([]SuspendReason, 0, len(s.raised))
	for r := range s.raised {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}
