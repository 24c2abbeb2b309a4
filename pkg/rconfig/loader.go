package rconfig

import (
	"fmt"
	"strings"

	"dario.cat/mergo"
	"github.com/spf13/viper"
)

// Options carries the override layers above Default: an optional config
// file path and a map of CLI-flag values (only the flags the user actually
// set should be present, so unset flags don't clobber file/env values).
type Options struct {
	ConfigFile string
	CLIFlags   map[string]any
}

// Load builds a Config by layering, lowest precedence first: Default,
// the config file (if any), environment variables prefixed REFLOW_, and
// finally CLIFlags. Each layer only overrides fields it actually sets.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	fileCfg, err := loadFileLayer(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if fileCfg != nil {
		if err := mergo.Merge(cfg, fileCfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merging config file layer: %w", err)
		}
	}

	envCfg, err := loadEnvLayer()
	if err != nil {
		return nil, err
	}
	if envCfg != nil {
		if err := mergo.Merge(cfg, envCfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merging environment layer: %w", err)
		}
	}

	if len(opts.CLIFlags) > 0 {
		flagCfg, err := decodeFlags(opts.CLIFlags)
		if err != nil {
			return nil, fmt.Errorf("decoding CLI flag overrides: %w", err)
		}
		if err := mergo.Merge(cfg, flagCfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merging CLI flag layer: %w", err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFileLayer(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config file %q: %w", path, err)
	}
	return cfg, nil
}

func loadEnvLayer() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("REFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{
		"reflow.max_iterations_per_order",
		"reflow.timeout",
		"logging.level",
		"logging.format",
		"output.format",
		"input.glob",
		"input.week_starts_on",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env var for %q: %w", key, err)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding environment layer: %w", err)
	}
	return cfg, nil
}

func decodeFlags(flags map[string]any) (*Config, error) {
	v := viper.New()
	for key, val := range flags {
		v.Set(key, val)
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding flags: %w", err)
	}
	return cfg, nil
}

// MergeReflowOptions applies a `reflowOptions` input document's fields over
// cfg, returning a new Config. It only overrides MaxIterationsPerOrder and
// WeekStartsOn, the two knobs the document format exposes; zero/empty
// values in opts leave the corresponding cfg field untouched.
func MergeReflowOptions(cfg *Config, opts ReflowOptionsDoc) (*Config, error) {
	merged := *cfg
	if opts.MaxIterationsPerOrder > 0 {
		merged.Reflow.MaxIterationsPerOrder = opts.MaxIterationsPerOrder
	}
	if opts.WeekStartsOn != "" {
		merged.Input.WeekStartsOn = opts.WeekStartsOn
	}
	if err := Validate(&merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ReflowOptionsDoc is the `data` payload of a `reflowOptions` input
// document (docType "reflowOptions").
type ReflowOptionsDoc struct {
	MaxIterationsPerOrder int    `json:"maxIterationsPerOrder,omitempty"`
	WeekStartsOn          string `json:"weekStartsOn,omitempty"`
}
