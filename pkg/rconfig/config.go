// Package rconfig provides the engine's layered configuration: defaults,
// overridden by an optional config file, overridden by environment
// variables, overridden by CLI flags.
package rconfig

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/flowforge/reflow-engine/internal/core"
)

// Config is the full set of knobs the engine exposes. Every field has a
// sane default (see Default) so a bare CLI invocation with no flags, no
// config file, and no environment variables still runs.
type Config struct {
	Reflow  ReflowConfig  `mapstructure:"reflow"  validate:"required"`
	Logging LoggingConfig `mapstructure:"logging" validate:"required"`
	Output  OutputConfig  `mapstructure:"output"  validate:"required"`
	Input   InputConfig   `mapstructure:"input"   validate:"required"`
}

// ReflowConfig bounds the reflow driver's worklist loop.
type ReflowConfig struct {
	// MaxIterationsPerOrder is the per-order multiplier of the driver's
	// worklist bound: a run stops with an error after
	// len(workOrders) * MaxIterationsPerOrder iterations.
	MaxIterationsPerOrder int `mapstructure:"max_iterations_per_order" validate:"min=1,max=10000"`
	// Timeout is the default maximum duration for a reflow run, used when
	// the CLI caller doesn't pass --timeout. Accepted in Go duration
	// syntax ("30s") or human phrasing ("2 hours"), e.g.
	// REFLOW_TIMEOUT="2 hours".
	Timeout string `mapstructure:"timeout" validate:"required"`
}

// ParsedTimeout parses Reflow.Timeout, accepting both Go duration syntax
// and human phrasing such as "2 hours".
func (c *Config) ParsedTimeout() (time.Duration, error) {
	d, err := core.ParseHumanDuration(c.Reflow.Timeout)
	if err != nil {
		return 0, fmt.Errorf("parsing reflow.timeout %q: %w", c.Reflow.Timeout, err)
	}
	return d, nil
}

// LoggingConfig controls pkg/logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  validate:"oneof=debug info warn error disabled"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// OutputConfig controls how the CLI renders a Result.
type OutputConfig struct {
	Format string `mapstructure:"format" validate:"oneof=json pretty"`
}

// InputConfig controls how the loader discovers and interprets input
// documents.
type InputConfig struct {
	// Glob is the doublestar pattern used to find documents under a
	// directory input.
	Glob string `mapstructure:"glob" validate:"required"`
	// WeekStartsOn is validated and carried in the config but read by no
	// other package; the calendar arithmetic always treats Sunday as
	// time.Weekday(0) per the wire format.
	WeekStartsOn string `mapstructure:"week_starts_on" validate:"oneof=sunday monday"`
}

// Default returns the configuration used when no file, environment
// variable, or flag overrides a value.
func Default() *Config {
	return &Config{
		Reflow: ReflowConfig{
			MaxIterationsPerOrder: 100,
			Timeout:               "30s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Format: "json",
		},
		Input: InputConfig{
			Glob:         "**/*.json",
			WeekStartsOn: "sunday",
		},
	}
}

var validate = validator.New()

// Validate checks cfg against its struct tags, returning a wrapped error
// describing every failed field when invalid.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
