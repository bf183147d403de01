package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration. Values from a config file
// are overlaid on the defaults; CLI flags are applied on top by the caller.
type Config struct {
	Root            string   `yaml:"root"`
	MinSize         string   `yaml:"min_size"` // e.g. "10MiB"
	TimeBudgetMin   int      `yaml:"time_budget_minutes"`
	NoExcludes      bool     `yaml:"no_excludes"`
	AddExclude      []string `yaml:"add_exclude"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
	IncludeCloud    bool     `yaml:"include_cloud"`

	// IgnoreExt and KeepExt are explicit requests for the two name-comparison
	// modes. Neither set means ignore_ext; setting both is rejected.
	IgnoreExt bool `yaml:"ignore_ext"`
	KeepExt   bool `yaml:"keep_ext"`

	RequireSameSize bool `yaml:"require_same_size"`
	Workers         int  `yaml:"workers"`
	Verbose         bool `yaml:"verbose"`
}

// Load loads configuration from a file, falling back to defaults if the file
// does not exist.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := GetDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save writes the configuration to a file.
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for contradictions. Configuration errors
// are the only fatal error class: they are rejected here, before any scanning
// starts.
func (c *Config) Validate() error {
	if c.IgnoreExt && c.KeepExt {
		return fmt.Errorf("ignore_ext and keep_ext are mutually exclusive")
	}

	if _, err := c.MinSizeBytes(); err != nil {
		return err
	}

	if c.TimeBudgetMin <= 0 {
		return fmt.Errorf("time budget must be positive, got %d minutes", c.TimeBudgetMin)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}

	for _, pattern := range c.ExcludePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	return nil
}

// MinSizeBytes parses the configured minimum size into bytes.
func (c *Config) MinSizeBytes() (int64, error) {
	n, err := humanize.ParseBytes(c.MinSize)
	if err != nil {
		return 0, fmt.Errorf("invalid min_size %q: %w", c.MinSize, err)
	}
	return int64(n), nil
}

// KeepExtension reports the effective name-comparison mode. Extensions are
// ignored unless keep_ext was requested.
func (c *Config) KeepExtension() bool {
	return c.KeepExt
}

// WorkerCount returns the effective hashing worker count.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	n := runtime.NumCPU()
	if n < 2 {
		n = 2
	}
	if n > 16 {
		n = 16 // avoid excessive context switching on big machines
	}
	return n
}

// GetConfigPath returns the default config path.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "dupfinder", "config.yaml"), nil
}
