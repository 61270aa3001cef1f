// Package config loads and validates the simulator configuration from yaml
// or json files with environment-variable overrides.
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

	"github.com/nulenergi/microgrid/infra/loader"
	"github.com/nulenergi/microgrid/infra/metrics"
)

// Config is the root configuration of a simulation run.
type Config struct {
	Simulation SimulationConfig `json:"simulation"`
	Input      loader.Config    `json:"input"`
	Output     OutputConfig     `json:"output"`
	Metrics    MetricsConfig    `json:"metrics"`
}

// OutputConfig selects which result tables are written and where.
type OutputConfig struct {
	Dir      string `json:"dir"`
	Hourly   bool   `json:"hourly"`
	Daily    bool   `json:"daily"`
	Seasonal bool   `json:"seasonal"`
	Summary  bool   `json:"summary"`
}

// SetDefaults applies sane defaults; when no table is selected all are
// enabled.
func (c *OutputConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "results"
	}
	if !c.Hourly && !c.Daily && !c.Seasonal && !c.Summary {
		c.Hourly, c.Daily, c.Seasonal, c.Summary = true, true, true, true
	}
}

// MetricsConfig enables the optional observability sinks.
type MetricsConfig struct {
	PrometheusEnabled bool                 `json:"prometheus_enabled"`
	PrometheusAddr    string               `json:"prometheus_addr"`
	InfluxEnabled     bool                 `json:"influx_enabled"`
	Influx            metrics.InfluxConfig `json:"influx"`
}

// SetDefaults applies sane defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":2112"
	}
	if c.Influx.Year == 0 {
		c.Influx.Year = 2023
	}
}

// Load reads the configuration file at path. Environment variables prefixed
// with MG_ override file values, with __ separating nesting levels.
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
	if err := k.Load(env.Provider("MG_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "mg_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Simulation.SetDefaults()
	cfg.Input.SetDefaults()
	cfg.Output.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration before a run starts.
func (c Config) Validate() error {
	if _, err := c.Simulation.ToParameters(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if c.Input.Path == "" {
		return fmt.Errorf("input: path is required")
	}
	return nil
}
