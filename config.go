/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/headsup/games/headsup"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	allowedOrigins  []string
	bind            string
	catalog         string
	dangerAt        int
	lockDuration    time.Duration
	neutralZone     float64
	polarity        float64
	port            int
	prefix          string
	profile         bool
	roundLength     int
	sessionTimeout  time.Duration
	tlsCert         string
	tlsKey          string
	transitionDelay time.Duration
	triggerZone     float64
	verbose         bool
	version         bool
	warningAt       int
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.sessionTimeout < 0 {
		return fmt.Errorf("invalid session timeout (must not be negative): %s", c.sessionTimeout)
	}
	return c.round().Validate()
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// round converts the game flags into the engine's round config.
func (c *Config) round() headsup.Config {
	return headsup.Config{
		RoundLength:     c.roundLength,
		WarningAt:       c.warningAt,
		DangerAt:        c.dangerAt,
		TransitionDelay: c.transitionDelay,
		LockDuration:    c.lockDuration,
		Thresholds: headsup.Thresholds{
			TriggerZoneDeg: c.triggerZone,
			NeutralZoneDeg: c.neutralZone,
			PolarityDeg:    c.polarity,
		},
	}
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("HEADSUP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	defaults := headsup.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "headsup",
		Short:         "A tilt-to-answer word guessing party game, served as a single webapp.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}

			if cfg.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}

			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringSliceVar(&cfg.allowedOrigins, "allowed-origins", nil, "origins allowed to fetch the category list cross-origin (env: HEADSUP_ALLOWED_ORIGINS)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: HEADSUP_BIND)")
	fs.StringVar(&cfg.catalog, "catalog", "", "path to a YAML category catalog, instead of the built-in one (env: HEADSUP_CATALOG)")
	fs.IntVar(&cfg.dangerAt, "danger-at", defaults.DangerAt, "seconds remaining when the final countdown cue fires (env: HEADSUP_DANGER_AT)")
	fs.DurationVar(&cfg.lockDuration, "lock-duration", defaults.LockDuration, "time before a held tilt may fire again without returning to rest (env: HEADSUP_LOCK_DURATION)")
	fs.Float64Var(&cfg.neutralZone, "neutral-zone", defaults.Thresholds.NeutralZoneDeg, "side tilt in degrees past which the device counts as back at rest (env: HEADSUP_NEUTRAL_ZONE)")
	fs.Float64Var(&cfg.polarity, "polarity", defaults.Thresholds.PolarityDeg, "front-back tilt in degrees separating correct from skip (env: HEADSUP_POLARITY)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: HEADSUP_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: HEADSUP_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: HEADSUP_PROFILE)")
	fs.IntVar(&cfg.roundLength, "round-length", defaults.RoundLength, "length of a round in seconds (env: HEADSUP_ROUND_LENGTH)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle game sessions are ended (env: HEADSUP_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: HEADSUP_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: HEADSUP_TLS_KEY)")
	fs.DurationVar(&cfg.transitionDelay, "transition-delay", defaults.TransitionDelay, "pause between an answer and the next card (env: HEADSUP_TRANSITION_DELAY)")
	fs.Float64Var(&cfg.triggerZone, "trigger-zone", defaults.Thresholds.TriggerZoneDeg, "side tilt in degrees under which a tilt is read as an answer (env: HEADSUP_TRIGGER_ZONE)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: HEADSUP_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: HEADSUP_VERSION)")
	fs.IntVar(&cfg.warningAt, "warning-at", defaults.WarningAt, "seconds remaining when the low-time cue fires (env: HEADSUP_WARNING_AT)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("headsup v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
