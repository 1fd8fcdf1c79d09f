package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{"trace", TraceLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := LevelFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTraceLevel_Encoding(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewDefaultConfig()
	cfg.Level = TraceLevel
	cfg.Format = "json"
	cfg.Sampling.Enabled = false
	cfg.Output.Writer = zapcore.AddSync(&buf)

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)

	logger.Trace(context.Background(), "exporting batch")
	assert.Contains(t, buf.String(), `"level":"trace"`)
}

func TestTraceLevel_FilteredAtDebug(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewDefaultConfig()
	cfg.Level = zapcore.DebugLevel
	cfg.Sampling.Enabled = false
	cfg.Output.Writer = zapcore.AddSync(&buf)

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)

	assert.False(t, logger.Enabled(TraceLevel))
	logger.Trace(context.Background(), "hidden")
	assert.Empty(t, buf.String())
}
