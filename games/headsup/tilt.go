/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package headsup

import (
	"fmt"
	"math"
)

// Action is a discrete gameplay decision derived from tilt input.
type Action int

const (
	ActionNone Action = iota
	ActionCorrect
	ActionSkip
)

func (a Action) String() string {
	switch a {
	case ActionCorrect:
		return "correct"
	case ActionSkip:
		return "skip"
	default:
		return "none"
	}
}

// ParseAction maps the wire names "correct" and "skip" to actions.
func ParseAction(s string) (Action, error) {
	switch s {
	case "correct":
		return ActionCorrect, nil
	case "skip":
		return ActionSkip, nil
	default:
		return ActionNone, fmt.Errorf("unknown action %q", s)
	}
}

// Sample is one device orientation reading, in degrees.
type Sample struct {
	FrontBack float64
	LeftRight float64
}

func (s Sample) valid() bool {
	return validAngle(s.FrontBack) && validAngle(s.LeftRight)
}

func validAngle(a float64) bool {
	return !math.IsNaN(a) && a >= -180 && a <= 180
}

// Thresholds are the angles used to classify a sample. They are empirically
// tuned and may need per-platform calibration.
type Thresholds struct {
	// TriggerZoneDeg: |leftRight| below this means the device has been tipped
	// away from the reader.
	TriggerZoneDeg float64
	// NeutralZoneDeg: |leftRight| above this counts as back at rest. Keep it
	// above TriggerZoneDeg; the gap is the hysteresis band.
	NeutralZoneDeg float64
	// PolarityDeg splits face-down (correct) from face-up (skip) tilts.
	PolarityDeg float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		TriggerZoneDeg: 60,
		NeutralZoneDeg: 70,
		PolarityDeg:    90,
	}
}

func (t Thresholds) validate() error {
	switch {
	case t.TriggerZoneDeg <= 0 || t.TriggerZoneDeg > 180:
		return fmt.Errorf("%w: trigger zone must be in (0, 180], got %v", ErrInvalidConfig, t.TriggerZoneDeg)
	case t.NeutralZoneDeg <= t.TriggerZoneDeg || t.NeutralZoneDeg > 180:
		return fmt.Errorf("%w: neutral zone must be in (%v, 180], got %v", ErrInvalidConfig, t.TriggerZoneDeg, t.NeutralZoneDeg)
	case t.PolarityDeg <= 0 || t.PolarityDeg >= 180:
		return fmt.Errorf("%w: polarity must be in (0, 180), got %v", ErrInvalidConfig, t.PolarityDeg)
	}
	return nil
}

// Classify maps a sample to an action. It keeps no state; out-of-range or
// NaN readings are ActionNone.
func (t Thresholds) Classify(s Sample) Action {
	if !s.valid() {
		return ActionNone
	}

	if math.Abs(s.LeftRight) >= t.TriggerZoneDeg {
		return ActionNone
	}

	fb := math.Abs(s.FrontBack)
	switch {
	case fb > t.PolarityDeg:
		return ActionCorrect
	case fb < t.PolarityDeg:
		return ActionSkip
	default:
		return ActionNone
	}
}

// Neutral reports whether the device is back at rest. Invalid samples are
// never neutral.
func (t Thresholds) Neutral(s Sample) bool {
	return s.valid() && math.Abs(s.LeftRight) > t.NeutralZoneDeg
}
