/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package headsup

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name string
		s    Sample
		want Action
	}{
		{"face down", Sample{FrontBack: 120, LeftRight: 10}, ActionCorrect},
		{"face down negative", Sample{FrontBack: -150, LeftRight: -30}, ActionCorrect},
		{"face up", Sample{FrontBack: 30, LeftRight: 10}, ActionSkip},
		{"face up near trigger edge", Sample{FrontBack: -45, LeftRight: 59}, ActionSkip},
		{"on trigger boundary", Sample{FrontBack: 120, LeftRight: 60}, ActionNone},
		{"hysteresis band", Sample{FrontBack: 120, LeftRight: 65}, ActionNone},
		{"upright facing reader", Sample{FrontBack: 0, LeftRight: 85}, ActionNone},
		{"exactly on polarity", Sample{FrontBack: 90, LeftRight: 0}, ActionNone},
		{"nan", Sample{FrontBack: math.NaN(), LeftRight: 0}, ActionNone},
		{"inf", Sample{FrontBack: 0, LeftRight: math.Inf(-1)}, ActionNone},
		{"out of range", Sample{FrontBack: 200, LeftRight: 0}, ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := th.Classify(tt.s); got != tt.want {
				t.Fatalf("Classify(%+v) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

func TestNeutral(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		s    Sample
		want bool
	}{
		{Sample{LeftRight: 75}, true},
		{Sample{LeftRight: -71}, true},
		{Sample{LeftRight: 70}, false},
		{Sample{LeftRight: 65}, false},
		{Sample{LeftRight: 10}, false},
		{Sample{LeftRight: math.NaN()}, false},
		{Sample{FrontBack: math.NaN(), LeftRight: 90}, false},
	}

	for _, tt := range tests {
		if got := th.Neutral(tt.s); got != tt.want {
			t.Errorf("Neutral(%+v) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestParseAction(t *testing.T) {
	if a, err := ParseAction("correct"); err != nil || a != ActionCorrect {
		t.Errorf("ParseAction(correct) = %v, %v", a, err)
	}
	if a, err := ParseAction("skip"); err != nil || a != ActionSkip {
		t.Errorf("ParseAction(skip) = %v, %v", a, err)
	}
	if _, err := ParseAction("maybe"); err == nil {
		t.Error("ParseAction(maybe) succeeded, want error")
	}
}
