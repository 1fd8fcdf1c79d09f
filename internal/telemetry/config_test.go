package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "https://otlp.uptrace.dev", cfg.Endpoint)
	assert.Equal(t, 1.0, cfg.Sampling.Rate)
	assert.Equal(t, IDGeneratorXRay, cfg.IDGenerator)
	assert.Equal(t, 15*time.Second, cfg.Metrics.ExportInterval)
	assert.Equal(t, TemporalityDelta, cfg.Metrics.Temporality)
	assert.False(t, cfg.Console)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{
			name:   "missing endpoint",
			modify: func(c *Config) { c.Endpoint = "" },
			errMsg: "endpoint is required",
		},
		{
			name:   "endpoint without scheme",
			modify: func(c *Config) { c.Endpoint = "localhost:14318" },
			errMsg: "endpoint scheme must be http or https",
		},
		{
			name:   "grpc scheme",
			modify: func(c *Config) { c.Endpoint = "grpc://localhost:4317" },
			errMsg: "endpoint scheme must be http or https",
		},
		{
			name:   "sampling rate too low",
			modify: func(c *Config) { c.Sampling.Rate = -0.1 },
			errMsg: "sampling rate must be between 0 and 1",
		},
		{
			name:   "sampling rate too high",
			modify: func(c *Config) { c.Sampling.Rate = 1.1 },
			errMsg: "sampling rate must be between 0 and 1",
		},
		{
			name:   "unknown id generator",
			modify: func(c *Config) { c.IDGenerator = "snowflake" },
			errMsg: "id generator must be",
		},
		{
			name:   "zero export interval",
			modify: func(c *Config) { c.Metrics.ExportInterval = 0 },
			errMsg: "metrics export interval must be positive",
		},
		{
			name:   "unknown temporality",
			modify: func(c *Config) { c.Metrics.Temporality = "lowmemory" },
			errMsg: "metrics temporality must be",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_ValidateAcceptsVariants(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Endpoint = "http://localhost:14318"
	cfg.Sampling.Rate = 0
	cfg.IDGenerator = IDGeneratorRandom
	cfg.Metrics.Temporality = TemporalityCumulative

	assert.NoError(t, cfg.Validate())
}

func TestConfig_SignalURL(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Endpoint = "http://localhost:14318"

	assert.Equal(t, "http://localhost:14318/v1/traces", cfg.signalURL("traces"))
	assert.Equal(t, "http://localhost:14318/v1/metrics", cfg.signalURL("metrics"))
	assert.Equal(t, "http://localhost:14318/v1/logs", cfg.signalURL("logs"))
}
