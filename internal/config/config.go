// Package config loads the tool's YAML configuration induced from the
// user and project levels, project overriding user.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the user-tunable settings.
type Config struct {
	// DefaultMode is the handoff display mode used when --mode is not
	// given: "inline" or "reference".
	DefaultMode string `yaml:"default_mode,omitempty"`
	// OutputDir is where handoff documents are written by default.
	OutputDir string `yaml:"output_dir,omitempty"`
	// DisabledSources lists adapter tags to skip during discovery.
	DisabledSources []string `yaml:"disabled_sources,omitempty"`
	// CacheDir overrides the session cache location.
	CacheDir string `yaml:"cache_dir,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultMode: "inline",
		OutputDir:   ".",
	}
}

// Load merges configuration from the user level
// (~/.session-handoff/config.yaml) and the project level
// (.session-handoff.yaml in the working directory). Later sources
// override earlier ones; missing files are fine.
func Load(explicitPath string) (*Config, error) {
	cfg := Default()

	if explicitPath != "" {
		if err := mergeFile(cfg, explicitPath); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".session-handoff", "config.yaml"))
	}
	paths = append(paths, ".session-handoff.yaml")

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := mergeFile(cfg, path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if overlay.DefaultMode != "" {
		cfg.DefaultMode = overlay.DefaultMode
	}
	if overlay.OutputDir != "" {
		cfg.OutputDir = overlay.OutputDir
	}
	if len(overlay.DisabledSources) > 0 {
		cfg.DisabledSources = overlay.DisabledSources
	}
	if overlay.CacheDir != "" {
		cfg.CacheDir = overlay.CacheDir
	}
	return nil
}

// SourceEnabled reports whether an adapter tag is active.
func (c *Config) SourceEnabled(tag string) bool {
	for _, disabled := range c.DisabledSources {
		if disabled == tag {
			return false
		}
	}
	return true
}
