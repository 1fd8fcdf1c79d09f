package config

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/uptrace-distro/pkg/uptrace"
)

func TestDefault_MatchesDistroDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	want := uptrace.NewDefaultConfig()
	want.ServiceName = "uptrace-demo"
	assert.Equal(t, want, cfg.Distro())
}

func TestConfig_Distro(t *testing.T) {
	cfg := Default()
	cfg.DSN = Secret("https://t1@uptrace.dev/1")
	cfg.Service = ServiceConfig{
		Name:               "myservice",
		Version:            "1.0.0",
		Environment:        "production",
		ResourceAttributes: map[string]string{"team": "core"},
	}
	cfg.Traces.SamplingRate = 0.25
	cfg.Metrics.Interval = Duration(time.Minute)
	cfg.Logs.Enabled = false
	cfg.Console = true

	d := cfg.Distro()
	assert.Equal(t, "https://t1@uptrace.dev/1", d.DSN)
	assert.Equal(t, "myservice", d.ServiceName)
	assert.Equal(t, "1.0.0", d.ServiceVersion)
	assert.Equal(t, "production", d.DeploymentEnvironment)
	assert.Equal(t, map[string]string{"team": "core"}, d.ResourceAttributes)
	assert.Equal(t, 0.25, d.SamplingRate)
	assert.Equal(t, time.Minute, d.MetricsInterval)
	assert.False(t, d.LogsEnabled)
	assert.True(t, d.Console)
}

func TestConfig_LoggerConfig(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "trace"
	cfg.Logging.Format = "json"

	lc, err := cfg.LoggerConfig()
	require.NoError(t, err)
	assert.Equal(t, zapcore.Level(-2), lc.Level)
	assert.Equal(t, "json", lc.Format)
	assert.True(t, lc.Output.OTEL)
	assert.Equal(t, "uptrace-demo", lc.Fields["service"])
	require.NoError(t, lc.Validate())

	cfg.Logs.Enabled = false
	lc, err = cfg.LoggerConfig()
	require.NoError(t, err)
	assert.False(t, lc.Output.OTEL, "OTEL output needs the log pipeline")

	cfg.Logging.Level = "loud"
	_, err = cfg.LoggerConfig()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	cfg := Default()
	cfg.Service.Name = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service.name is required")
}

func TestSecret_NeverPrinted(t *testing.T) {
	s := Secret("https://t1@uptrace.dev/1")

	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))
	assert.Equal(t, "Secret([REDACTED])", fmt.Sprintf("%#v", s))
	assert.True(t, s.IsSet())
	assert.Equal(t, "https://t1@uptrace.dev/1", s.Value())

	out, err := json.Marshal(struct{ DSN Secret }{s})
	require.NoError(t, err)
	assert.JSONEq(t, `{"DSN":"[REDACTED]"}`, string(out))

	assert.Equal(t, "", Secret("").String())
	assert.False(t, Secret("").IsSet())
}

func TestSecret_UnmarshalText(t *testing.T) {
	var s Secret
	require.NoError(t, s.UnmarshalText([]byte("raw")))
	assert.Equal(t, "raw", s.Value())
}

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("15s")))
	assert.Equal(t, 15*time.Second, d.Duration())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "15s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("-1s")))
	assert.Error(t, d.UnmarshalText([]byte("soon")))
}
