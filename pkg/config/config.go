// Package config loads the optional per-user settings file. The file tunes
// presentation and engine knobs; search semantics that are fixed policy
// (the exclusion tables, the wildcard rules) deliberately have no keys
// here.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ngpepin/finder/pkg/search"
)

// Config holds the defaults a user can persist instead of repeating flags.
// Flags still win over anything set here.
type Config struct {
	Output            string   `yaml:"output"`
	NoColor           bool     `yaml:"no_color"`
	Progress          bool     `yaml:"progress"`
	Workers           int      `yaml:"workers"`
	FuzzyThreshold    int      `yaml:"fuzzy_threshold"`
	ContentExtensions []string `yaml:"content_extensions"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Output:         "text",
		Workers:        1,
		FuzzyThreshold: search.DefaultFuzzyThreshold,
	}
}

// DefaultPath returns the per-user config location, or "" when the user
// config directory cannot be determined.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "finder", "config.yaml")
}

// Load reads path and merges it over the defaults. A missing file is not an
// error: the defaults come back unchanged. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configured values without touching the filesystem.
func (c *Config) Validate() error {
	switch c.Output {
	case "text", "json":
	default:
		return fmt.Errorf("output must be %q or %q, got %q", "text", "json", c.Output)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.FuzzyThreshold < 0 {
		return fmt.Errorf("fuzzy_threshold must not be negative, got %d", c.FuzzyThreshold)
	}
	return nil
}
