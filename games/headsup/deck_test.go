/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package headsup

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func testCategory(words ...string) Category {
	return Category{ID: 1, Name: "Test", Words: words}
}

func TestNewDeckRejectsEmptyCategory(t *testing.T) {
	_, err := NewDeck(testCategory(), StdRNG{})
	if !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("NewDeck(empty) error = %v, want ErrInvalidCategory", err)
	}
}

func TestDeckDrawsEveryWordOncePerPass(t *testing.T) {
	words := []string{"a", "b", "c", "d", "e", "f", "g"}
	deck, err := NewDeck(testCategory(words...), StdRNG{})
	if err != nil {
		t.Fatalf("NewDeck: %v", err)
	}

	seen := make(map[string]bool)
	for i := range words {
		w := deck.Current()
		if seen[w] {
			t.Fatalf("draw %d: %q repeated within one pass", i, w)
		}
		seen[w] = true

		reshuffled := deck.Advance()
		if want := i == len(words)-1; reshuffled != want {
			t.Fatalf("draw %d: reshuffled = %v, want %v", i, reshuffled, want)
		}
	}

	for _, w := range words {
		if !seen[w] {
			t.Errorf("word %q never drawn", w)
		}
	}
}

func TestDeckReshufflesAfterExhaustion(t *testing.T) {
	words := []string{"cat", "dog", "owl"}
	deck, err := NewDeck(testCategory(words...), StdRNG{})
	if err != nil {
		t.Fatalf("NewDeck: %v", err)
	}

	for range words {
		deck.Advance()
	}
	if deck.Passes() != 2 {
		t.Fatalf("passes = %d, want 2", deck.Passes())
	}

	var second []string
	for range words {
		second = append(second, deck.Current())
		deck.Advance()
	}
	slices.Sort(second)
	if !slices.Equal(second, []string{"cat", "dog", "owl"}) {
		t.Fatalf("second pass = %v, want a permutation of %v", second, words)
	}
}

func TestDeckUsesFullFisherYatesRange(t *testing.T) {
	rng := &deterministicRNG{}
	if _, err := NewDeck(testCategory("a", "b", "c", "d"), rng); err != nil {
		t.Fatalf("NewDeck: %v", err)
	}

	want := []int{4, 3, 2}
	if !slices.Equal(rng.bounds, want) {
		t.Fatalf("IntN bounds = %v, want %v", rng.bounds, want)
	}
}

func TestDeckShuffleIsUniform(t *testing.T) {
	const trials = 6000

	counts := make(map[string]int)
	for range trials {
		deck, err := NewDeck(testCategory("a", "b", "c"), StdRNG{})
		if err != nil {
			t.Fatalf("NewDeck: %v", err)
		}

		var b strings.Builder
		for range 3 {
			b.WriteString(deck.Current())
			deck.Advance()
		}
		counts[b.String()]++
	}

	if len(counts) != 6 {
		t.Fatalf("saw %d distinct orderings, want 6: %v", len(counts), counts)
	}
	for order, n := range counts {
		if n < 800 || n > 1200 {
			t.Errorf("ordering %s drawn %d times in %d trials, want about %d", order, n, trials, trials/6)
		}
	}
}

func TestDeckReshuffleIsFreshPermutation(t *testing.T) {
	const trials = 600

	same := 0
	for range trials {
		deck, err := NewDeck(testCategory("a", "b", "c"), StdRNG{})
		if err != nil {
			t.Fatalf("NewDeck: %v", err)
		}

		first := deck.Current()
		for range 3 {
			deck.Advance()
		}
		if deck.Current() == first {
			same++
		}
	}

	// A fresh uniform pass repeats the previous opening word a third of the time.
	if same < 100 || same > 300 {
		t.Fatalf("second pass opened with the first pass's word %d/%d times, want about %d", same, trials, trials/3)
	}
}
