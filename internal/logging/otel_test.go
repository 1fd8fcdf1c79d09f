package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/uptrace-distro/internal/telemetry"
)

func newOTELLogger(t *testing.T, console bool) (*Logger, *telemetry.LogRecorder) {
	t.Helper()
	rec := telemetry.NewRecorder()
	lp := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(rec.Logs)))
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })

	cfg := NewDefaultConfig()
	cfg.Output.Console = console
	cfg.Output.OTEL = true
	cfg.Sampling.Enabled = false

	logger, err := NewLogger(cfg, lp)
	require.NoError(t, err)
	return logger, rec.Logs
}

func TestOTELOutput_ExportsRecords(t *testing.T) {
	logger, logs := newOTELLogger(t, false)

	logger.Info(context.Background(), "upload finished", zap.Int("spans", 3))

	records := logs.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "upload finished", records[0].Body().AsString())
	assert.Equal(t, InstrumentationName, records[0].InstrumentationScope().Name)
}

func TestOTELOutput_RespectsLevel(t *testing.T) {
	logger, logs := newOTELLogger(t, false)

	logger.Debug(context.Background(), "too verbose")
	assert.Empty(t, logs.Records())
}

func TestOTELOutput_TraceCorrelation(t *testing.T) {
	logger, logs := newOTELLogger(t, false)

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	logger.Warn(ctx, "slow export")

	records := logs.Records()
	require.Len(t, records, 1)
	assert.Equal(t, span.SpanContext().TraceID().String(), recordAttr(records[0], "trace_id"))
}

func recordAttr(r sdklog.Record, key string) string {
	var val string
	r.WalkAttributes(func(kv otellog.KeyValue) bool {
		if kv.Key == key {
			val = kv.Value.AsString()
			return false
		}
		return true
	})
	return val
}

func TestOTELOutput_WithConsole(t *testing.T) {
	logger, logs := newOTELLogger(t, true)

	logger.Error(context.Background(), "export failed")
	assert.Len(t, logs.Records(), 1)
}
