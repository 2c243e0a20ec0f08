/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package headsup is the round engine for the forehead word game: the
// player tilts the device down for a correct guess and up to skip, against a
// countdown.
//
// A Controller owns exactly one round. It is not safe for concurrent use;
// the host must serialize every call, including the callbacks its Scheduler
// delivers.
package headsup

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Phase is where a round is in its lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhasePaused
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhasePaused:
		return "paused"
	case PhaseEnded:
		return "ended"
	default:
		return "idle"
	}
}

func (p Phase) inRound() bool {
	return p == PhaseActive || p == PhasePaused
}

// RoundState is a snapshot of a round.
type RoundState struct {
	RoundID   string
	Category  string
	Phase     Phase
	Score     int
	Remaining int
	Word      string
	Ledger    []Result
}

type Controller struct {
	id    string
	cfg   Config
	sched Scheduler
	rng   RNG
	emit  func(Event)

	gate       *Gate
	timer      *RoundTimer
	suspension *Suspension

	category Category
	deck     *Deck
	phase    Phase
	score    int
	ledger   []Result

	// awaiting is set between a resolved action and the next card.
	awaiting         bool
	cancelTransition Cancel
}

// NewController builds an idle round. sched must deliver callbacks on the
// same thread of control as every other call into the controller, so there
// is no default; a nil sched panics.
func NewController(cfg Config, clock clockwork.Clock, sched Scheduler, rng RNG, emit func(Event)) *Controller {
	if sched == nil {
		panic("headsup: NewController requires a Scheduler")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if rng == nil {
		rng = StdRNG{}
	}
	if emit == nil {
		emit = func(Event) {}
	}

	c := &Controller{
		id:         uuid.NewString(),
		cfg:        cfg,
		sched:      sched,
		rng:        rng,
		emit:       emit,
		gate:       NewGate(cfg.Thresholds, cfg.LockDuration, clock),
		suspension: NewSuspension(),
		ledger:     []Result{},
	}
	c.timer = NewRoundTimer(sched, c.suspension, cfg.WarningAt, cfg.DangerAt)

	return c
}

func (c *Controller) ID() string {
	return c.id
}

func (c *Controller) Phase() Phase {
	return c.phase
}

// StartRound deals a fresh deck from category and starts the clock. The
// first card is published before it returns.
func (c *Controller) StartRound(category Category) error {
	if c.phase != PhaseIdle {
		return fmt.Errorf("%w: round %s is %s", ErrRoundStarted, c.id, c.phase)
	}

	deck, err := NewDeck(category, c.rng)
	if err != nil {
		return err
	}

	c.category = category
	c.deck = deck
	c.score = 0
	c.ledger = []Result{}
	c.awaiting = false
	c.gate.Reset()
	c.phase = PhaseActive

	c.timer.Start(c.cfg.RoundLength, c.OnTick)

	log.Debug().
		Str("round_id", c.id).
		Int("category_id", category.ID).
		Int("words", deck.Len()).
		Int("seconds", c.cfg.RoundLength).
		Msg("round started")

	c.emit(RoundStarted{
		RoundID:  c.id,
		Category: category.clone(),
		Seconds:  c.cfg.RoundLength,
	})
	c.emit(CardChanged{Word: deck.Current()})

	if c.suspension.Suspended() {
		c.phase = PhasePaused
		c.emit(RoundPaused{Reasons: c.suspension.Reasons()})
	}

	return nil
}

// OnSample runs a tilt reading through the gate and acts on whatever it
// lets through.
func (c *Controller) OnSample(s Sample) {
	if c.phase != PhaseActive {
		return
	}

	if action := c.gate.Observe(s); action != ActionNone {
		c.OnAction(action)
	}
}

// OnAction records the current word as correct or skipped and schedules the
// next card. Actions are dropped unless the round is active and no card
// transition is pending.
func (c *Controller) OnAction(a Action) {
	if c.phase != PhaseActive || c.awaiting {
		return
	}

	var outcome Outcome
	switch a {
	case ActionCorrect:
		outcome = OutcomeCorrect
		c.score++
	case ActionSkip:
		outcome = OutcomeSkipped
	default:
		return
	}

	word := c.deck.Current()
	c.ledger = append(c.ledger, Result{Word: word, Outcome: outcome})

	c.emit(ActionResolved{
		Outcome: outcome,
		Word:    word,
		Score:   c.score,
	})

	c.awaiting = true
	c.cancelTransition = c.sched.After(c.cfg.TransitionDelay, c.nextCard)
}

func (c *Controller) nextCard() {
	c.cancelTransition = nil

	// The round may have ended while the delay was outstanding.
	if !c.phase.inRound() {
		return
	}

	c.awaiting = false
	if c.deck.Advance() {
		log.Debug().
			Str("round_id", c.id).
			Int("pass", c.deck.Passes()).
			Msg("deck exhausted, reshuffled")
	}

	c.emit(CardChanged{Word: c.deck.Current()})
}

// OnTick consumes one second of play. Ticks while paused do not count.
func (c *Controller) OnTick() {
	if !c.phase.inRound() {
		return
	}

	tick, ok := c.timer.Tick()
	if !ok {
		return
	}

	c.emit(TimerTicked{
		Remaining: tick.Remaining,
		Warning:   tick.Warning,
		Danger:    tick.Danger,
	})

	if tick.Expired {
		c.end(false)
	}
}

// EndRoundEarly abandons the round with the same effect as the clock running
// out.
func (c *Controller) EndRoundEarly() {
	if !c.phase.inRound() {
		return
	}

	c.end(true)
}

// SetSuspended raises or clears a suspension reason. The round pauses on the
// first raised reason and resumes when the last one clears.
func (c *Controller) SetSuspended(reason SuspendReason, raised bool) {
	if !c.suspension.Set(reason, raised) {
		return
	}

	switch {
	case c.phase == PhaseActive && c.suspension.Suspended():
		c.phase = PhasePaused
		c.gate.Reset()
		log.Debug().Str("round_id", c.id).Str("reason", string(reason)).Msg("round paused")
		c.emit(RoundPaused{Reasons: c.suspension.Reasons()})
	case c.phase == PhasePaused && !c.suspension.Suspended():
		c.phase = PhaseActive
		log.Debug().Str("round_id", c.id).Msg("round resumed")
		c.emit(RoundResumed{})
	}
}

// State returns a copy of the round's current state.
func (c *Controller) State() RoundState {
	st := RoundState{
		RoundID:   c.id,
		Category:  c.category.Name,
		Phase:     c.phase,
		Score:     c.score,
		Remaining: c.timer.Remaining(),
		Ledger:    slices.Clone(c.ledger),
	}
	if c.phase.inRound() {
		st.Word = c.deck.Current()
	}
	return st
}

func (c *Controller) end(abandoned bool) {
	c.phase = PhaseEnded
	c.awaiting = false
	c.timer.Stop()

	if c.cancelTransition != nil {
		c.cancelTransition()
		c.cancelTransition = nil
	}

	log.Debug().
		Str("round_id", c.id).
		Int("score", c.score).
		Int("cards", len(c.ledger)).
		Bool("abandoned", abandoned).
		Msg("round ended")

	c.emit(RoundEnded{
		RoundID:   c.id,
		Score:     c.score,
		Ledger:    slices.Clone(c.ledger),
		Abandoned: abandoned,
	})
}
