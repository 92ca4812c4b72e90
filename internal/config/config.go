// Package config loads the default execution policy and logging
// environment applied when a caller doesn't supply its own per-workflow
// overrides.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RetryConfig mirrors executor.RetryPolicy in a YAML-friendly shape.
type RetryConfig struct {
	MaxAttempts  int     `yaml:"maxAttempts"`
	InitialDelay string  `yaml:"initialDelay"`
	MaxDelay     string  `yaml:"maxDelay"`
	Multiplier   float64 `yaml:"multiplier"`
}

// CacheConfig mirrors executor.CacheConfig's durable settings.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	TTL     string `yaml:"ttl"`
}

// Config is the top-level, file-loadable engine configuration.
type Config struct {
	// Environment selects the logging writer: "development" gets a
	// human-readable console writer, anything else gets JSON.
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"logLevel"`

	// ConcurrencyLimit caps in-flight node executions per wave. Zero means
	// unbounded (one goroutine per node in the wave).
	ConcurrencyLimit int `yaml:"concurrencyLimit"`

	DefaultTimeout string      `yaml:"defaultTimeout"`
	Retry          RetryConfig `yaml:"retry"`
	Cache          CacheConfig `yaml:"cache"`

	DatabaseDSN string `yaml:"databaseDsn"`
}

// DefaultConfig is the zero-configuration baseline: no retries, no cache,
// a generous per-node timeout, development-style console logging.
func DefaultConfig() *Config {
	return &Config{
		Environment:      "development",
		LogLevel:         "info",
		ConcurrencyLimit: 0,
		DefaultTimeout:   "30s",
		Retry: RetryConfig{
			MaxAttempts:  1,
			InitialDelay: "0s",
			MaxDelay:     "0s",
			Multiplier:   2,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     "0s",
		},
	}
}

// LoadConfig reads and decodes a YAML file at path, applying it on top of
// DefaultConfig so a file only has to specify what it overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultTimeoutDuration parses DefaultTimeout, falling back to 30s on a
// malformed or empty value.
func (c *Config) DefaultTimeoutDuration() time.Duration {
	return parseDurationOr(c.DefaultTimeout, 30*time.Second)
}

// RetryInitialDelay parses Retry.InitialDelay, falling back to zero.
func (c *Config) RetryInitialDelay() time.Duration {
	return parseDurationOr(c.Retry.InitialDelay, 0)
}

// RetryMaxDelay parses Retry.MaxDelay, falling back to zero (unbounded).
func (c *Config) RetryMaxDelay() time.Duration {
	return parseDurationOr(c.Retry.MaxDelay, 0)
}

// CacheTTL parses Cache.TTL, falling back to zero (never expires).
func (c *Config) CacheTTL() time.Duration {
	return parseDurationOr(c.Cache.TTL, 0)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
