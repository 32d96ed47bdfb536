// Package config loads solver and match tuning parameters from YAML,
// falling back to embedded defaults. Physics constants are not
// configurable here; they are part of the protocol and live as compile
// time constants in the physics, track, racer and plan packages.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds the tunable parameters for a match run.
type Config struct {
	Solver  SolverConfig  `yaml:"solver"`
	Timing  TimingConfig  `yaml:"timing"`
	Logging LoggingConfig `yaml:"logging"`
}

// SolverConfig controls the evolutionary search's population shape and
// scoring weights.
type SolverConfig struct {
	PopulationSize  int     `yaml:"population_size"`
	AheadBias       float64 `yaml:"ahead_bias"`
	BoostOpeningMin float64 `yaml:"boost_opening_min_distance"`
}

// TimingConfig controls the wall clock budgets the driver allots the
// solver each turn, and the safety margin subtracted from them.
type TimingConfig struct {
	FirstTurnBudgetMs int     `yaml:"first_turn_budget_ms"`
	TurnBudgetMs      int     `yaml:"turn_budget_ms"`
	SafetyFactor      float64 `yaml:"safety_factor"`
}

// LoggingConfig controls the two ambient logging paths: plain diagnostic
// text and structured per-turn solver telemetry.
type LoggingConfig struct {
	TraceEnabled  bool   `yaml:"trace_enabled"`
	TraceFilePath string `yaml:"trace_file_path"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from path, or embedded defaults if path is
// empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load builds a Config from embedded defaults, optionally overridden by
// the YAML file at path.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// WriteYAML marshals c to path, for saving a tuned configuration produced
// by cmd/tune's parameter search.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// EffectiveBudgetMs returns the wall clock budget for a turn after the
// safety factor is applied, so the solver always returns before the
// platform's own timeout fires.
func (c *Config) EffectiveBudgetMs(firstTurn bool) float64 {
	budget := float64(c.Timing.TurnBudgetMs)
	if firstTurn {
		budget = float64(c.Timing.FirstTurnBudgetMs)
	}
	return budget * c.Timing.SafetyFactor
}
