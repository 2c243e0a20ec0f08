/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package headsup

import (
	"time"
)

// deterministicRNG returns values from a pre-set sequence and records the
// bounds it was asked for.
type deterministicRNG struct {
	values []int
	idx    int
	bounds []int
}

func (r *deterministicRNG) IntN(n int) int {
	r.bounds = append(r.bounds, n)
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.idx%len(r.values)] % n
	r.idx++
	return v
}

// manualScheduler runs callbacks synchronously as virtual time is advanced.
type manualScheduler struct {
	now          time.Duration
	tasks        []*manualTask
	seq          int
	ignoreCancel bool
}

type manualTask struct {
	at        time.Duration
	every     time.Duration
	fn        func()
	seq       int
	cancelled bool
}

func (s *manualScheduler) add(d, every time.Duration, fn func()) Cancel {
	s.seq++
	t := &manualTask{at: s.now + d, every: every, fn: fn, seq: s.seq}
	s.tasks = append(s.tasks, t)

	return func() {
		if !s.ignoreCancel {
			t.cancelled = true
		}
	}
}

func (s *manualScheduler) After(d time.Duration, fn func()) Cancel {
	return s.add(d, 0, fn)
}

func (s *manualScheduler) Every(d time.Duration, fn func()) Cancel {
	return s.add(d, d, fn)
}

// Advance moves virtual time forward, running every due callback in order.
func (s *manualScheduler) Advance(d time.Duration) {
	end := s.now + d

	for {
		var next *manualTask
		for _, t := range s.tasks {
			if t.cancelled || t.at > end {
				continue
			}
			if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			break
		}

		s.now = next.at
		if next.every > 0 {
			next.at += next.every
		} else {
			next.cancelled = true
		}
		next.fn()
	}

	s.now = end
}

// live counts callbacks that have not run or been cancelled.
func (s *manualScheduler) live() int {
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

type eventLog struct {
	events []Event
}

func (l *eventLog) emit(e Event) {
	l.events = append(l.events, e)
}

func (l *eventLog) cards() []string {
	var out []string
	for _, e := range l.events {
		if c, ok := e.(CardChanged); ok {
			out = append(out, c.Word)
		}
	}
	return out
}

func (l *eventLog) ticks() []TimerTicked {
	var out []TimerTicked
	for _, e := range l.events {
		if t, ok := e.(TimerTicked); ok {
			out = append(out, t)
		}
	}
	return out
}

func (l *eventLog) ended() []RoundEnded {
	var out []RoundEnded
	for _, e := range l.events {
		if r, ok := e.(RoundEnded); ok {
			out = append(out, r)
		}
	}
	return out
}
