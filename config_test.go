/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"testing"
	"time"

	"github.com/Seednode/headsup/games/headsup"
)

func testConfig() *Config {
	d := headsup.DefaultConfig()

	return &Config{
		bind:            "127.0.0.1",
		dangerAt:        d.DangerAt,
		lockDuration:    d.LockDuration,
		neutralZone:     d.Thresholds.NeutralZoneDeg,
		polarity:        d.Thresholds.PolarityDeg,
		port:            8080,
		roundLength:     d.RoundLength,
		transitionDelay: d.TransitionDelay,
		triggerZone:     d.Thresholds.TriggerZoneDeg,
		warningAt:       d.WarningAt,
	}
}

func TestConfigValidate(t *testing.T) {
	if err := testConfig().validate(); err != nil {
		t.Fatalf("validate() = %v, want nil", err)
	}

	tests := []struct {
		name   string
		modify func(*Config)
		round  bool
	}{
		{"cert without key", func(c *Config) { c.tlsCert = "cert.pem" }, false},
		{"port zero", func(c *Config) { c.port = 0 }, false},
		{"port too high", func(c *Config) { c.port = 70000 }, false},
		{"negative session timeout", func(c *Config) { c.sessionTimeout = -time.Second }, false},
		{"danger above warning", func(c *Config) { c.dangerAt = c.warningAt + 1 }, true},
		{"zero round length", func(c *Config) { c.roundLength = 0 }, true},
		{"neutral inside trigger", func(c *Config) { c.neutralZone = c.triggerZone - 1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(cfg)

			err := cfg.validate()
			if err == nil {
				t.Fatal("validate() succeeded, want error")
			}
			if tt.round && !errors.Is(err, headsup.ErrInvalidConfig) {
				t.Fatalf("validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfigScheme(t *testing.T) {
	cfg := testConfig()
	if got := cfg.scheme(); got != "http" {
		t.Fatalf("scheme() = %q, want http", got)
	}

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	if got := cfg.scheme(); got != "https" {
		t.Fatalf("scheme() = %q, want https", got)
	}
}

func TestNewCmdDefaults(t *testing.T) {
	cfg := &Config{}
	_ = newCmd(cfg)

	if got, want := cfg.round(), headsup.DefaultConfig(); got != want {
		t.Fatalf("round() = %+v, want %+v", got, want)
	}
	if cfg.port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.port)
	}
	if cfg.sessionTimeout != time.Hour {
		t.Errorf("sessionTimeout = %s, want 1h", cfg.sessionTimeout)
	}
}

func TestNewCmdFlags(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)

	err := cmd.ParseFlags([]string{
		"--warning-at=8",
		"--trigger-zone=50",
		"--transition-delay=250ms",
		"--allowed-origins=https://a.example,https://b.example",
	})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	if cfg.warningAt != 8 {
		t.Errorf("warningAt = %d, want 8", cfg.warningAt)
	}
	if cfg.triggerZone != 50 {
		t.Errorf("triggerZone = %v, want 50", cfg.triggerZone)
	}
	if cfg.transitionDelay != 250*time.Millisecond {
		t.Errorf("transitionDelay = %s, want 250ms", cfg.transitionDelay)
	}
	if len(cfg.allowedOrigins) != 2 {
		t.Errorf("allowedOrigins = %v, want 2 entries", cfg.allowedOrigins)
	}
}

func TestNewCmdEnvironment(t *testing.T) {
	t.Setenv("HEADSUP_ROUND_LENGTH", "45")
	t.Setenv("HEADSUP_LOCK_DURATION", "2s")
	t.Setenv("HEADSUP_VERBOSE", "true")

	cfg := &Config{}
	_ = newCmd(cfg)

	if cfg.roundLength != 45 {
		t.Errorf("roundLength = %d, want 45", cfg.roundLength)
	}
	if cfg.lockDuration != 2*time.Second {
		t.Errorf("lockDuration = %s, want 2s", cfg.lockDuration)
	}
	if !cfg.verbose {
		t.Error("verbose = false, want true")
	}
}
