// Package config loads settings for the uptrace-distro tools from a YAML
// file and UPTRACE_* environment variables.
package config

import (
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/uptrace-distro/internal/logging"
	"github.com/fyrsmithlabs/uptrace-distro/pkg/uptrace"
)

// Config holds the complete configuration.
type Config struct {
	DSN             Secret        `koanf:"dsn"`
	Service         ServiceConfig `koanf:"service"`
	Traces          TracesConfig  `koanf:"traces"`
	Metrics         MetricsConfig `koanf:"metrics"`
	Logs            LogsConfig    `koanf:"logs"`
	Console         bool          `koanf:"console"`
	ShutdownTimeout Duration      `koanf:"shutdown_timeout"`
	Logging         LoggingConfig `koanf:"logging"`
}

// ServiceConfig describes the instrumented service.
type ServiceConfig struct {
	Name               string            `koanf:"name"`
	Version            string            `koanf:"version"`
	Environment        string            `koanf:"environment"`
	ResourceAttributes map[string]string `koanf:"resource_attributes"`
}

// TracesConfig holds trace pipeline settings.
type TracesConfig struct {
	Enabled      bool    `koanf:"enabled"`
	SamplingRate float64 `koanf:"sampling_rate"`
	IDGenerator  string  `koanf:"id_generator"`
}

// MetricsConfig holds metric pipeline settings.
type MetricsConfig struct {
	Enabled     bool     `koanf:"enabled"`
	Interval    Duration `koanf:"interval"`
	Temporality string   `koanf:"temporality"`
}

// LogsConfig holds log pipeline settings.
type LogsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// LoggingConfig holds settings for the tool's own logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	// OTEL also sends the tool's logs to Uptrace.
	OTEL bool `koanf:"otel"`
}

// Default returns the configuration used when neither the file nor the
// environment sets a value.
func Default() *Config {
	d := uptrace.NewDefaultConfig()
	return &Config{
		Service: ServiceConfig{
			Name: "uptrace-demo",
		},
		Traces: TracesConfig{
			Enabled:      d.TracesEnabled,
			SamplingRate: d.SamplingRate,
			IDGenerator:  d.IDGenerator,
		},
		Metrics: MetricsConfig{
			Enabled:     d.MetricsEnabled,
			Interval:    Duration(d.MetricsInterval),
			Temporality: d.MetricsTemporality,
		},
		Logs: LogsConfig{
			Enabled: d.LogsEnabled,
		},
		ShutdownTimeout: Duration(d.ShutdownTimeout),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			OTEL:   true,
		},
	}
}

// Validate checks the settings that do not depend on the DSN. The DSN and
// pipeline settings are validated by uptrace.New.
func (c *Config) Validate() error {
	var errs []error
	if c.Service.Name == "" {
		errs = append(errs, errors.New("service.name is required"))
	}
	if _, err := logging.LevelFromString(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// Distro converts the configuration for uptrace.New. An empty DSN is
// passed through so uptrace.New can fall back to UPTRACE_DSN.
func (c *Config) Distro() uptrace.Config {
	return uptrace.Config{
		DSN:                   c.DSN.Value(),
		ServiceName:           c.Service.Name,
		ServiceVersion:        c.Service.Version,
		DeploymentEnvironment: c.Service.Environment,
		ResourceAttributes:    c.Service.ResourceAttributes,
		TracesEnabled:         c.Traces.Enabled,
		MetricsEnabled:        c.Metrics.Enabled,
		LogsEnabled:           c.Logs.Enabled,
		SamplingRate:          c.Traces.SamplingRate,
		IDGenerator:           c.Traces.IDGenerator,
		MetricsInterval:       c.Metrics.Interval.Duration(),
		MetricsTemporality:    c.Metrics.Temporality,
		Console:               c.Console,
		ShutdownTimeout:       c.ShutdownTimeout.Duration(),
	}
}

// LoggerConfig converts the logging section. OTEL output is only enabled
// when the log pipeline is.
func (c *Config) LoggerConfig() (*logging.Config, error) {
	level, err := logging.LevelFromString(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}

	cfg := logging.NewDefaultConfig()
	cfg.Level = level
	cfg.Format = c.Logging.Format
	cfg.Output.OTEL = c.Logging.OTEL && c.Logs.Enabled
	cfg.Fields = map[string]string{"service": c.Service.Name}
	return cfg, nil
}
