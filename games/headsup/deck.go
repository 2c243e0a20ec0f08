/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package headsup

import (
	"fmt"
	"math/rand/v2"
)

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// IntN returns a non-negative random int in [0, n).
	IntN(n int) int
}

// StdRNG delegates to math/rand/v2 (auto-seeded).
type StdRNG struct{}

func (StdRNG) IntN(n int) int { return rand.IntN(n) }

// Deck is the shuffled draw order of a category's words for one round.
type Deck struct {
	words  []string
	order  []string
	cursor int
	passes int
	rng    RNG
}

// NewDeck shuffles the category's words into a fresh draw order.
func NewDeck(c Category, rng RNG) (*Deck, error) {
	if len(c.Words) == 0 {
		return nil, fmt.Errorf("%w: category %d (%s) has no words", ErrInvalidCategory, c.ID, c.Name)
	}
	if rng == nil {
		rng = StdRNG{}
	}

	d := &Deck{
		words: append([]string(nil), c.Words...),
		rng:   rng,
	}
	d.shuffle()

	return d, nil
}

// Current returns the word at the cursor.
func (d *Deck) Current() string {
	return d.order[d.cursor]
}

// Advance moves to the next word, reshuffling once every word has been drawn.
// It reports whether a reshuffle happened.
func (d *Deck) Advance() bool {
	d.cursor++
	if d.cursor < len(d.order) {
		return false
	}

	d.shuffle()
	return true
}

// Len is the number of words in one pass.
func (d *Deck) Len() int {
	return len(d.words)
}

// Passes counts how many permutations this deck has dealt, including the
// current one.
func (d *Deck) Passes() int {
	return d.passes
}

// shuffle is a Fisher-Yates pass over a copy of the category words, so every
// ordering is equally likely regardless of the previous one.
func (d *Deck) shuffle() {
	order := append([]string(nil), d.words...)
	for i := len(order) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		order[i], order[j] = order[j], order[i]
	}

	d.order = order
	d.cursor = 0
	d.passes++
}
