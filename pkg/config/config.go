// Package config loads YAML configuration, expands ${VARS} in it and then
// applies environment overrides declared with `env` struct tags.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

type options struct {
	envPrefix string
	skipEnv   bool
}

// Option tunes loading.
type Option func(*options)

// WithEnvPrefix prepends prefix to every `env` tag, e.g. "MOODMATE_".
func WithEnvPrefix(prefix string) Option {
	return func(o *options) { o.envPrefix = prefix }
}

// WithoutEnv disables the environment overlay. ${VARS} in the file are still expanded.
func WithoutEnv() Option {
	return func(o *options) { o.skipEnv = true }
}

// Load reads filename into target, overlays the environment and validates.
// Values already in target act as defaults for keys the file omits.
func Load[T any](filename string, target *T, opts ...Option) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}
	return decode(filename, data, target, opts)
}

// LoadWithDefaults loads filename, falling back to defaultFile when it does
// not exist. With no file at all, target keeps its defaults plus the
// environment overlay.
func LoadWithDefaults[T any](filename, defaultFile string, target *T, opts ...Option) error {
	for _, f := range []string{filename, defaultFile} {
		if f == "" {
			continue
		}
		data, err := os.ReadFile(f)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read config file %s: %w", f, err)
		}
		return decode(f, data, target, opts)
	}
	return decode("", nil, target, opts)
}

func decode[T any](filename string, data []byte, target *T, opts []Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if len(data) > 0 {
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", filename, err)
		}
	}

	if !o.skipEnv {
		if err := env.ParseWithOptions(target, env.Options{Prefix: o.envPrefix}); err != nil {
			return fmt.Errorf("failed to apply environment overrides: %w", err)
		}
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}
