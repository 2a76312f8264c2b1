// Package config loads traitcast settings from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Duplicate registration policies.
const (
	DuplicatesError    = "error"
	DuplicatesLastWins = "last-wins"
)

// Invariant violation reactions.
const (
	OnViolationPanic  = "panic"
	OnViolationLog    = "log"
	OnViolationIgnore = "ignore"
)

// Config controls how the process-wide registry is built and how it reports
// problems.
type Config struct {
	Duplicates  string `env:"TRAITCAST_DUPLICATES"   envDefault:"error"`
	OnViolation string `env:"TRAITCAST_ON_VIOLATION" envDefault:"panic"`

	// LogLevel and LogFormat are optional. When both are empty the registry
	// logs through slog.Default().
	LogLevel  string `env:"TRAITCAST_LOG_LEVEL"`
	LogFormat string `env:"TRAITCAST_LOG_FORMAT"`
}

// Default returns the configuration used when nothing is set in the environment.
func Default() Config {
	return Config{
		Duplicates:  DuplicatesError,
		OnViolation: OnViolationPanic,
	}
}

// LoadFromEnv parses the environment into a Config and validates it.
func LoadFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Default(), fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate reports the first setting with an unsupported value.
func (c Config) Validate() error {
	switch c.Duplicates {
	case DuplicatesError, DuplicatesLastWins:
	default:
		return fmt.Errorf("invalid TRAITCAST_DUPLICATES %q: want %q or %q", c.Duplicates, DuplicatesError, DuplicatesLastWins)
	}

	switch c.OnViolation {
	case OnViolationPanic, OnViolationLog, OnViolationIgnore:
	default:
		return fmt.Errorf("invalid TRAITCAST_ON_VIOLATION %q", c.OnViolation)
	}

	if c.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
			return fmt.Errorf("invalid TRAITCAST_LOG_LEVEL %q: %w", c.LogLevel, err)
		}
	}

	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid TRAITCAST_LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

// HasLogOverride reports whether the environment asked for a dedicated logger.
func (c Config) HasLogOverride() bool {
	return c.LogLevel != "" || c.LogFormat != ""
}

// Logger builds a logger writing to w at the configured level (warn if
// unset) and format (text if unset).
func (c Config) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if c.LogLevel != "" {
		if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
			level = slog.LevelWarn
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
