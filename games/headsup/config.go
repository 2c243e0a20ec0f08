/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package headsup

import (
	"fmt"
	"time"
)

// Config holds the tunables for a round.
type Config struct {
	RoundLength     int // seconds
	WarningAt       int // seconds remaining
	DangerAt        int // seconds remaining
	TransitionDelay time.Duration
	LockDuration    time.Duration
	Thresholds      Thresholds
}

func DefaultConfig() Config {
	return Config{
		RoundLength:     60,
		WarningAt:       10,
		DangerAt:        5,
		TransitionDelay: 400 * time.Millisecond,
		LockDuration:    1500 * time.Millisecond,
		Thresholds:      DefaultThresholds(),
	}
}

func (c Config) Validate() error {
	switch {
	case c.RoundLength < 1:
		return fmt.Errorf("%w: round length must be at least 1s, got %d", ErrInvalidConfig, c.RoundLength)
	case c.WarningAt < 0 || c.DangerAt < 0:
		return fmt.Errorf("%w: warning and danger thresholds must not be negative", ErrInvalidConfig)
	case c.WarningAt >= c.RoundLength || c.DangerAt >= c.RoundLength:
		return fmt.Errorf("%w: warning (%d) and danger (%d) thresholds must be below the round length (%d)", ErrInvalidConfig, c.WarningAt, c.DangerAt, c.RoundLength)
	case c.DangerAt > c.WarningAt:
		return fmt.Errorf("%w: danger threshold (%d) must not exceed warning threshold (%d)", ErrInvalidConfig, c.DangerAt, c.WarningAt)
	case c.TransitionDelay < 0:
		return fmt.Errorf("%w: transition delay must not be negative", ErrInvalidConfig)
	case c.LockDuration <= 0:
		return fmt.Errorf("%w: lock duration must be positive", ErrInvalidConfig)
	}

	return c.Thresholds.validate()
}
