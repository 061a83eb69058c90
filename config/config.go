package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/scolarite/affect/core/model"
)

// Config is the full service configuration: where to find the input
// collections, the scenario to solve and how to emit the result.
type Config struct {
	Data     DataConfig     `json:"data"`
	Scenario model.Scenario `json:"scenario"`
	Solver   SolverConfig   `json:"solver"`
	Output   OutputConfig   `json:"output"`
}

// DataConfig points at the JSON input collections.
type DataConfig struct {
	Students string `json:"students"`
	Teachers string `json:"teachers"`
	Juries   string `json:"juries,omitempty"`
	Stages   string `json:"stages,omitempty"`
	// Assignments optionally seeds a pre-existing assignment map for
	// incremental re-solves.
	Assignments string `json:"assignments,omitempty"`
}

// Validate checks mandatory fields.
func (c DataConfig) Validate() error {
	if c.Students == "" {
		return fmt.Errorf("data: students file is required")
	}
	if c.Teachers == "" {
		return fmt.Errorf("data: teachers file is required")
	}
	return nil
}

// SolverConfig tunes the local-search pass.
type SolverConfig struct {
	// MaxIterations bounds the number of improving moves applied.
	MaxIterations int `json:"max_iterations"`
}

// SetDefaults applies sane defaults.
func (c *SolverConfig) SetDefaults() {
	if c.MaxIterations == 0 {
		c.MaxIterations = 1000
	}
}

// Validate checks mandatory fields.
func (c SolverConfig) Validate() error {
	if c.MaxIterations < 0 {
		return fmt.Errorf("solver: max_iterations must not be negative")
	}
	return nil
}

// OutputConfig selects the result encoding and destination.
type OutputConfig struct {
	// Format is "json" or "csv".
	Format string `json:"format"`
	// Path is the output file; empty writes to stdout.
	Path string `json:"path,omitempty"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = "json"
	}
}

// Validate checks mandatory fields.
func (c OutputConfig) Validate() error {
	if c.Format != "json" && c.Format != "csv" {
		return fmt.Errorf("output: unknown format %s", c.Format)
	}
	return nil
}

// Load reads the configuration file, applies environment overrides
// (AFFECT_ prefixed, __ as separator), defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("AFFECT_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "affect_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Solver.SetDefaults()
	cfg.Output.SetDefaults()
	if err := cfg.Data.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Solver.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Output.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Scenario.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
