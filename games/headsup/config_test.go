/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package headsup

import (
	"errors"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfigValidateBoundaries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RoundLength, cfg.WarningAt, cfg.DangerAt = 10, 9, 9
	cfg.Thresholds.NeutralZoneDeg = cfg.Thresholds.TriggerZoneDeg + 0.5

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil just inside every bound", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero length", func(c *Config) { c.RoundLength = 0 }},
		{"negative warning", func(c *Config) { c.WarningAt = -1 }},
		{"danger above warning", func(c *Config) { c.DangerAt = 20 }},
		{"warning at round length", func(c *Config) { c.WarningAt = c.RoundLength }},
		{"danger at round length", func(c *Config) { c.RoundLength, c.WarningAt, c.DangerAt = 10, 10, 10 }},
		{"negative transition", func(c *Config) { c.TransitionDelay = -1 }},
		{"zero lock", func(c *Config) { c.LockDuration = 0 }},
		{"neutral inside trigger", func(c *Config) { c.Thresholds.NeutralZoneDeg = 50 }},
		{"neutral equals trigger", func(c *Config) { c.Thresholds.NeutralZoneDeg = c.Thresholds.TriggerZoneDeg }},
		{"trigger out of range", func(c *Config) { c.Thresholds.TriggerZoneDeg = 0 }},
		{"polarity out of range", func(c *Config) { c.Thresholds.PolarityDeg = 180 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
