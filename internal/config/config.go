// Package config loads the scheduled daemon's configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides: SCHEDULED_LOG_LEVEL overrides
// log.level.
const EnvPrefix = "SCHEDULED"

var (
	// ErrFileNotFound is returned when an explicit config path does not exist.
	ErrFileNotFound = errors.New("config: file not found")

	// ErrValidation is returned when a loaded value is out of range.
	ErrValidation = errors.New("config: validation failed")
)

// Config is the daemon configuration.
type Config struct {
	Log      LogConfig     `mapstructure:"log"`
	Location string        `mapstructure:"location"`
	JobsFile string        `mapstructure:"jobs_file"`
	Watch    bool          `mapstructure:"watch"`
	RunAll   bool          `mapstructure:"run_all_on_start"`
	RunDelay time.Duration `mapstructure:"run_all_delay"`
	MaxJobs  int           `mapstructure:"max_jobs"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
}

// LogConfig selects the log backend and level.
type LogConfig struct {
	// Backend is "zap" or "zerolog".
	Backend string `mapstructure:"backend"`
	// Level is "debug", "info", "warn" or "error".
	Level string `mapstructure:"level"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"`
}

var defaults = map[string]any{
	"log.backend":       "zap",
	"log.level":         "info",
	"location":          "Local",
	"jobs_file":         "jobs.yaml",
	"watch":             true,
	"run_all_on_start":  false,
	"run_all_delay":     "0s",
	"max_jobs":          0,
	"metrics.enabled":   true,
	"metrics.addr":      ":9090",
	"metrics.path":      "/metrics",
	"metrics.namespace": "scheduled",
}

// Load reads the configuration file at path (YAML, JSON or TOML, by
// extension) and applies SCHEDULED_* environment overrides. An empty path
// loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	switch c.Log.Backend {
	case "zap", "zerolog":
	default:
		return fmt.Errorf("%w: log.backend %q (want zap or zerolog)", ErrValidation, c.Log.Backend)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrValidation, c.Log.Level)
	}
	if c.JobsFile == "" {
		return fmt.Errorf("%w: jobs_file is empty", ErrValidation)
	}
	if c.RunDelay < 0 {
		return fmt.Errorf("%w: run_all_delay %s is negative", ErrValidation, c.RunDelay)
	}
	if c.MaxJobs < 0 {
		return fmt.Errorf("%w: max_jobs %d is negative", ErrValidation, c.MaxJobs)
	}
	if _, err := c.LoadLocation(); err != nil {
		return fmt.Errorf("%w: location %q: %w", ErrValidation, c.Location, err)
	}
	return nil
}

// LoadLocation resolves Location; "" and "Local" mean time.Local.
func (c *Config) LoadLocation() (*time.Location, error) {
	if c.Location == "" || c.Location == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Location)
}
