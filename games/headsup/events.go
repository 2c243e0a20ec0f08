/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package headsup

// Outcome records what happened to a word.
type Outcome string

const (
	OutcomeCorrect Outcome = "correct"
	OutcomeSkipped Outcome = "skipped"
)

// Result is one ledger entry.
type Result struct {
	Word    string  `json:"word"`
	Outcome Outcome `json:"outcome"`
}

// Event is published by a Controller for the presentation layer. Delivery is
// fire-and-forget, in the order the controller produced them.
type Event interface {
	isEvent()
}

type RoundStarted struct {
	RoundID  string
	Category Category
	Seconds  int
}

type CardChanged struct {
	Word string
}

type ActionResolved struct {
	Outcome Outcome
	Word    string
	Score   int
}

type TimerTicked struct {
	Remaining int
	Warning   bool
	Danger    bool
}

type RoundPaused struct {
	Reasons []SuspendReason
}

type RoundResumed struct{}

type RoundEnded struct {
	RoundID   string
	Score     int
	Ledger    []Result
	Abandoned bool
}

func (RoundStarted) isEvent()   {}
func (CardChanged) isEvent()    {}
func (ActionResolved) isEvent() {}
func (TimerTicked) isEvent()    {}
func (RoundPaused) isEvent()    {}
func (RoundResumed) isEvent()   {}
func (RoundEnded) isEvent()     {}
