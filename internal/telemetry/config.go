package telemetry

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// ID generator names.
const (
	IDGeneratorXRay   = "xray"
	IDGeneratorRandom = "random"
)

// Metric temporality names.
const (
	TemporalityDelta      = "delta"
	TemporalityCumulative = "cumulative"
)

// Config holds everything the provider builders need. It carries no policy:
// the endpoint and headers are already derived from the DSN by the caller.
type Config struct {
	// Endpoint is the OTLP/HTTP base URL without a signal path,
	// e.g. https://otlp.uptrace.dev.
	Endpoint string
	Headers  map[string]string

	ServiceName           string
	ServiceVersion        string
	DeploymentEnvironment string
	ResourceAttributes    map[string]string

	Sampling    SamplingConfig
	IDGenerator string
	Metrics     MetricsConfig

	// Console also writes spans and metrics to stdout.
	Console bool
}

// SamplingConfig controls trace sampling behavior.
type SamplingConfig struct {
	Rate float64 // 0.0-1.0, wrapped in a parent-based sampler
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	ExportInterval time.Duration
	Temporality    string
}

// NewDefaultConfig returns defaults matching the hosted Uptrace service.
func NewDefaultConfig() *Config {
	return &Config{
		Endpoint:    "https://otlp.uptrace.dev",
		Sampling:    SamplingConfig{Rate: 1.0},
		IDGenerator: IDGeneratorXRay,
		Metrics: MetricsConfig{
			ExportInterval: 15 * time.Second,
			Temporality:    TemporalityDelta,
		},
	}
}

// Validate checks configuration for errors.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint scheme must be http or https, got %q", u.Scheme)
	}

	if c.Sampling.Rate < 0 || c.Sampling.Rate > 1 {
		return fmt.Errorf("sampling rate must be between 0 and 1, got %f", c.Sampling.Rate)
	}

	switch c.IDGenerator {
	case IDGeneratorXRay, IDGeneratorRandom:
	default:
		return fmt.Errorf("id generator must be %q or %q, got %q", IDGeneratorXRay, IDGeneratorRandom, c.IDGenerator)
	}

	if c.Metrics.ExportInterval <= 0 {
		return errors.New("metrics export interval must be positive")
	}

	switch c.Metrics.Temporality {
	case TemporalityDelta, TemporalityCumulative:
	default:
		return fmt.Errorf("metrics temporality must be %q or %q, got %q",
			TemporalityDelta, TemporalityCumulative, c.Metrics.Temporality)
	}

	return nil
}

// signalURL joins the base endpoint with the OTLP path of a signal.
func (c *Config) signalURL(signal string) string {
	return c.Endpoint + "/v1/" + signal
}
