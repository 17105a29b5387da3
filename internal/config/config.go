package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	dialerrors "github.com/aledsdavies/dial/pkgs/errors"
)

// Config holds the environment defaults for the dial CLI. Command line
// flags override these values.
type Config struct {
	// Vocabulary is a YAML vocabulary document; empty selects the built-in one
	Vocabulary string `env:"DIAL_VOCABULARY"`
	Debug      bool   `env:"DIAL_DEBUG"`
	NoColor    bool   `env:"DIAL_NO_COLOR"`
	// Watch reloads the vocabulary file in interactive sessions when it changes
	Watch bool `env:"DIAL_WATCH" envDefault:"true"`
	// NormalizeWidth folds full-width keypad digits to ASCII before they reach the buffer
	NormalizeWidth bool `env:"DIAL_NORMALIZE_WIDTH" envDefault:"true"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads Config from the environment
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, dialerrors.NewConfigError(err)
	}
	return cfg, nil
}
