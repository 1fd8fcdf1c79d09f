package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	otellog "go.opentelemetry.io/otel/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
)

func resourceValue(res *resource.Resource, key string) (string, bool) {
	v, ok := res.Set().Value(attribute.Key(key))
	if !ok {
		return "", false
	}
	return v.AsString(), true
}

func TestNewResource(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.ServiceName = "myservice"
	cfg.ServiceVersion = "1.0.0"
	cfg.DeploymentEnvironment = "staging"
	cfg.ResourceAttributes = map[string]string{
		"host.name":    "web-1",
		"service.name": "overridden",
	}

	res, err := NewResource(cfg)
	require.NoError(t, err)

	name, ok := resourceValue(res, "service.name")
	require.True(t, ok)
	assert.Equal(t, "myservice", name, "service fields win over resource attributes")

	version, _ := resourceValue(res, "service.version")
	assert.Equal(t, "1.0.0", version)

	env, _ := resourceValue(res, "deployment.environment")
	assert.Equal(t, "staging", env)

	host, _ := resourceValue(res, "host.name")
	assert.Equal(t, "web-1", host)

	sdkName, ok := resourceValue(res, "telemetry.sdk.name")
	assert.True(t, ok, "SDK default attributes are kept")
	assert.Equal(t, "opentelemetry", sdkName)
}

func TestNewResource_FromEnvironment(t *testing.T) {
	t.Setenv("OTEL_RESOURCE_ATTRIBUTES", "team=core,service.version=0.0.1")

	cfg := NewDefaultConfig()
	cfg.ServiceVersion = "2.0.0"

	res, err := NewResource(cfg)
	require.NoError(t, err)

	team, _ := resourceValue(res, "team")
	assert.Equal(t, "core", team)

	version, _ := resourceValue(res, "service.version")
	assert.Equal(t, "2.0.0", version)
}

func TestNewResource_EmptyServiceFieldsAreSkipped(t *testing.T) {
	res, err := NewResource(NewDefaultConfig())
	require.NoError(t, err)

	_, ok := resourceValue(res, "deployment.environment")
	assert.False(t, ok)
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "ParentBased{root:AlwaysOnSampler"},
		{1.5, "ParentBased{root:AlwaysOnSampler"},
		{0, "ParentBased{root:AlwaysOffSampler"},
		{0.25, "ParentBased{root:TraceIDRatioBased{0.25}"},
	}

	for _, tt := range tests {
		desc := NewSampler(tt.rate).Description()
		assert.Contains(t, desc, tt.want)
	}
}

func TestNewTracerProvider_WithExporter(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder()
	cfg := NewDefaultConfig()
	cfg.ServiceName = "myservice"

	res, err := NewResource(cfg)
	require.NoError(t, err)

	tp, err := NewTracerProvider(ctx, cfg, res, rec.Spans)
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(ctx) }()

	_, span := tp.Tracer("test").Start(ctx, "main-operation")
	span.SetAttributes(attribute.String("http.route", "/posts/:id"))
	span.End()

	require.NoError(t, tp.ForceFlush(ctx))
	rec.AssertSpanExists(t, "main-operation")
	rec.AssertSpanAttribute(t, "main-operation", "http.route", "/posts/:id")

	stub, ok := rec.SpanByName("main-operation")
	require.True(t, ok)
	name, _ := resourceValue(stub.Resource, "service.name")
	assert.Equal(t, "myservice", name)
}

func TestNewTracerProvider_OTLPExporter(t *testing.T) {
	ctx := context.Background()
	cfg := NewDefaultConfig()
	cfg.Endpoint = "http://localhost:14318"
	cfg.Headers = map[string]string{"uptrace-dsn": "http://t1@localhost:14318/1"}
	cfg.IDGenerator = IDGeneratorRandom

	res, err := NewResource(cfg)
	require.NoError(t, err)

	// Exporter construction does not dial; no collector is needed.
	tp, err := NewTracerProvider(ctx, cfg, res, nil)
	require.NoError(t, err)
	assert.NotNil(t, tp)
}

func TestNewTracerProvider_XRayIDs(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder()
	cfg := NewDefaultConfig()

	res, err := NewResource(cfg)
	require.NoError(t, err)

	tp, err := NewTracerProvider(ctx, cfg, res, rec.Spans)
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(ctx) }()

	_, span := tp.Tracer("test").Start(ctx, "op")
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))

	stub, ok := rec.SpanByName("op")
	require.True(t, ok)
	assert.True(t, stub.SpanContext.TraceID().IsValid())
}

func TestNewMeterProvider_WithReader(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder()
	cfg := NewDefaultConfig()

	res, err := NewResource(cfg)
	require.NoError(t, err)

	mp, err := NewMeterProvider(ctx, cfg, res, rec.Metrics)
	require.NoError(t, err)
	defer func() { _ = mp.Shutdown(ctx) }()

	counter, err := mp.Meter("test").Int64Counter("requests")
	require.NoError(t, err)
	counter.Add(ctx, 3)

	rm, err := rec.CollectMetrics(ctx)
	require.NoError(t, err)
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)
}

func TestNewMeterProvider_OTLPExporter(t *testing.T) {
	ctx := context.Background()
	cfg := NewDefaultConfig()
	cfg.Endpoint = "http://localhost:14318"

	res, err := NewResource(cfg)
	require.NoError(t, err)

	mp, err := NewMeterProvider(ctx, cfg, res, nil)
	require.NoError(t, err)
	assert.NotNil(t, mp)
}

func TestTemporalitySelector(t *testing.T) {
	delta := TemporalitySelector(TemporalityDelta)
	assert.Equal(t, metricdata.DeltaTemporality, delta(sdkmetric.InstrumentKindCounter))
	assert.Equal(t, metricdata.DeltaTemporality, delta(sdkmetric.InstrumentKindHistogram))
	assert.Equal(t, metricdata.DeltaTemporality, delta(sdkmetric.InstrumentKindObservableCounter))
	assert.Equal(t, metricdata.CumulativeTemporality, delta(sdkmetric.InstrumentKindUpDownCounter))
	assert.Equal(t, metricdata.CumulativeTemporality, delta(sdkmetric.InstrumentKindObservableGauge))

	cumulative := TemporalitySelector(TemporalityCumulative)
	assert.Equal(t, metricdata.CumulativeTemporality, cumulative(sdkmetric.InstrumentKindCounter))
	assert.Equal(t, metricdata.CumulativeTemporality, cumulative(sdkmetric.InstrumentKindHistogram))
}

func TestNewLoggerProvider_WithExporter(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder()
	cfg := NewDefaultConfig()

	res, err := NewResource(cfg)
	require.NoError(t, err)

	lp, err := NewLoggerProvider(ctx, cfg, res, rec.Logs)
	require.NoError(t, err)

	var r otellog.Record
	r.SetBody(otellog.StringValue("hello"))
	r.SetSeverity(otellog.SeverityInfo)
	lp.Logger("test").Emit(ctx, r)

	require.NoError(t, lp.ForceFlush(ctx))
	records := rec.Logs.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "hello", records[0].Body().AsString())

	require.NoError(t, lp.Shutdown(ctx))
	assert.True(t, rec.Logs.IsShutdown())
}

func TestNewLoggerProvider_OTLPExporter(t *testing.T) {
	ctx := context.Background()
	cfg := NewDefaultConfig()
	cfg.Endpoint = "http://localhost:14318"

	res, err := NewResource(cfg)
	require.NoError(t, err)

	lp, err := NewLoggerProvider(ctx, cfg, res, nil)
	require.NoError(t, err)
	assert.NotNil(t, lp)
}

func TestNewPropagator(t *testing.T) {
	fields := NewPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}
