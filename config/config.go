// Package config loads and validates the wsreport configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fleetgrid/wsreport/types"
)

// Config represents the main configuration.
type Config struct {
	Region         string          `yaml:"region"`
	InactivityDays int             `yaml:"inactivity_days"`
	Concurrency    int             `yaml:"concurrency,omitempty"`
	FailFast       bool            `yaml:"fail_fast,omitempty"`
	Output         OutputConfig    `yaml:"output"`
	Directory      DirectoryConfig `yaml:"directory"`
	StoragePath    string          `yaml:"storage_path,omitempty"`
	OTELEndpoint   string          `yaml:"otel_endpoint,omitempty"`
}

// OutputConfig controls where and how the report is written.
type OutputConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // csv, table, json
}

// DirectoryConfig holds LDAP connection settings for the directory service.
type DirectoryConfig struct {
	Addr         string `yaml:"addr"` // e.g. ldaps://dc01.corp.example.com:636
	BaseDN       string `yaml:"base_dn"`
	BindDN       string `yaml:"bind_dn"`
	BindPassword string `yaml:"bind_password,omitempty"`
}

// DefaultConfig returns a config with usable defaults.
func DefaultConfig() *Config {
	return &Config{
		InactivityDays: 90,
		Concurrency:    4,
		Output: OutputConfig{
			Path:   "workspaces-report.csv",
			Format: "csv",
		},
	}
}

// LoadConfig loads configuration from file, applying defaults first.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if pw := os.Getenv("WSREPORT_LDAP_PASSWORD"); pw != "" {
		cfg.Directory.BindPassword = pw
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate ensures config has required fields and sane bounds.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if !IsSupportedRegion(c.Region) {
		return fmt.Errorf("unsupported region %q", c.Region)
	}
	if c.InactivityDays < 1 || c.InactivityDays > types.MaxWindowDays {
		return fmt.Errorf("inactivity_days must be between 1 and %d, got %d", types.MaxWindowDays, c.InactivityDays)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	switch c.Output.Format {
	case "csv", "table", "json":
	default:
		return fmt.Errorf("output format must be csv, table or json, got %q", c.Output.Format)
	}
	if c.Directory.Addr != "" && c.Directory.BaseDN == "" {
		return fmt.Errorf("directory base_dn is required when directory addr is set")
	}
	return nil
}

// RetentionAdvisory reports whether the configured window is long enough
// that the metrics store thins out daily samples.
func (c *Config) RetentionAdvisory() bool {
	return c.InactivityDays >= types.RetentionAdvisoryDays
}
