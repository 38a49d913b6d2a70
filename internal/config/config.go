// Package config defines the w3metrics configuration and how it is loaded.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `koanf:"db_path"`

	// TablesPath optionally replaces the embedded reference tables.
	TablesPath string `koanf:"tables_path"`

	// APMIntervalMS is the length of one activity interval.
	APMIntervalMS int `koanf:"apm_interval_ms"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// RetrainingItems are the item ids that start a hero retraining.
	RetrainingItems []string `koanf:"retraining_items"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		DBPath:          filepath.Join(userHome(), ".w3metrics", "metrics.db"),
		APMIntervalMS:   60000,
		LogLevel:        "warn",
		RetrainingItems: []string{"tret", "tert"},
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	}
	if c.APMIntervalMS <= 0 {
		return fmt.Errorf("%w: apm_interval_ms must be positive, got %d", ErrInvalidConfig, c.APMIntervalMS)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
