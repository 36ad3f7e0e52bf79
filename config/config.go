// Package config loads the application configuration from YAML or JSON with
// optional environment overrides.
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

	"github.com/spedops/pullout/core/compliance"
	"github.com/spedops/pullout/core/slot"
	"github.com/spedops/pullout/metrics"
)

type Config struct {
	Scheduling slot.Config                   `json:"scheduling"`
	Workload   compliance.WorkloadThresholds `json:"workload"`
	Store      StoreConfig                   `json:"store"`
	Metrics    metrics.Config                `json:"metrics"`
}

// Load reads the file at path and applies PULLOUT_-prefixed environment
// overrides, with "__" standing in for the key separator
// (PULLOUT_STORE__BACKEND=sqlite).
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
	if err := k.Load(env.Provider("PULLOUT_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "pullout_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults applies sane defaults to every section.
func (c *Config) SetDefaults() {
	c.Scheduling.SetDefaults()
	if c.Workload == (compliance.WorkloadThresholds{}) {
		c.Workload = compliance.DefaultWorkloadThresholds()
	}
	c.Store.SetDefaults()
	c.Metrics.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Scheduling.Validate(); err != nil {
		return err
	}
	return c.Store.Validate()
}
