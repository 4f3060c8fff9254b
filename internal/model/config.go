package model

import (
	"fmt"
	"runtime"
	"time"
)

// Config holds all runtime configuration
type Config struct {
	Engine      Engine      `json:"engine" yaml:"engine" mapstructure:"engine"`
	Concurrency Concurrency `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
	Cache       Cache       `json:"cache" yaml:"cache" mapstructure:"cache"`
	Output      Output      `json:"output" yaml:"output" mapstructure:"output"`
}

// Engine configures strategy derivation
type Engine struct {
	RatioTolerance     float64 `json:"ratio_tolerance" yaml:"ratio_tolerance" mapstructure:"ratio_tolerance"`                // Accepted |ratio| deviation from 1
	SelfCheckTolerance float64 `json:"self_check_tolerance" yaml:"self_check_tolerance" mapstructure:"self_check_tolerance"` // Max rebuilt matrix residual
	AllowFullRecompute bool    `json:"allow_full_recompute" yaml:"allow_full_recompute" mapstructure:"allow_full_recompute"`
}

// Concurrency configures the batch worker pool
type Concurrency struct {
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
}

// Cache configures strategy memoization
type Cache struct {
	Enabled         bool          `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `json:"cleanup_interval" yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// Output configures report rendering
type Output struct {
	Directory string `json:"directory" yaml:"directory" mapstructure:"directory"`
	Format    string `json:"format" yaml:"format" mapstructure:"format"` // json or yaml
	Verbose   bool   `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Engine: Engine{
			RatioTolerance:     1e-3,
			SelfCheckTolerance: 1e-9,
			AllowFullRecompute: true,
		},
		Concurrency: Concurrency{
			Workers: runtime.NumCPU(),
		},
		Cache: Cache{
			Enabled:         true,
			TTL:             time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		Output: Output{
			Directory: "./isbalign-reports",
			Format:    "json",
		},
	}
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Engine.RatioTolerance <= 0 || c.Engine.RatioTolerance >= 1 {
		return fmt.Errorf("engine.ratio_tolerance must be in (0, 1), got %g", c.Engine.RatioTolerance)
	}
	if c.Engine.SelfCheckTolerance <= 0 {
		return fmt.Errorf("engine.self_check_tolerance must be positive, got %g", c.Engine.SelfCheckTolerance)
	}
	if c.Concurrency.Workers < 1 {
		return fmt.Errorf("concurrency.workers must be at least 1, got %d", c.Concurrency.Workers)
	}
	switch c.Output.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("output.format must be json or yaml, got %q", c.Output.Format)
	}
	return nil
}
