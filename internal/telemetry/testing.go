package telemetry

import (
	"context"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// Recorder captures exported telemetry in memory for tests. Pass its
// members to the provider builders in place of the OTLP exporters.
type Recorder struct {
	Spans   *tracetest.InMemoryExporter
	Metrics *sdkmetric.ManualReader
	Logs    *LogRecorder
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Spans:   tracetest.NewInMemoryExporter(),
		Metrics: sdkmetric.NewManualReader(),
		Logs:    &LogRecorder{},
	}
}

// SpanByName finds an exported span by name.
func (r *Recorder) SpanByName(name string) (tracetest.SpanStub, bool) {
	for _, span := range r.Spans.GetSpans() {
		if span.Name == name {
			return span, true
		}
	}
	return tracetest.SpanStub{}, false
}

// AssertSpanExists verifies a span with the given name was exported.
func (r *Recorder) AssertSpanExists(tb testing.TB, name string) {
	tb.Helper()
	if _, ok := r.SpanByName(name); !ok {
		tb.Errorf("expected span %q not found, got: %v", name, r.spanNames())
	}
}

// AssertSpanAttribute verifies a span has the expected attribute.
func (r *Recorder) AssertSpanAttribute(tb testing.TB, spanName, key string, expected interface{}) {
	tb.Helper()
	span, ok := r.SpanByName(spanName)
	if !ok {
		tb.Fatalf("span %q not found", spanName)
	}
	for _, attr := range span.Attributes {
		if string(attr.Key) == key {
			if got := attrValue(attr.Value); got != expected {
				tb.Errorf("span %q attribute %q: got %v, want %v", spanName, key, got, expected)
			}
			return
		}
	}
	tb.Errorf("span %q missing attribute %q", spanName, key)
}

// CollectMetrics reads the current metric state.
func (r *Recorder) CollectMetrics(ctx context.Context) (metricdata.ResourceMetrics, error) {
	var rm metricdata.ResourceMetrics
	err := r.Metrics.Collect(ctx, &rm)
	return rm, err
}

func (r *Recorder) spanNames() []string {
	spans := r.Spans.GetSpans()
	names := make([]string, len(spans))
	for i, span := range spans {
		names[i] = span.Name
	}
	return names
}

func attrValue(v attribute.Value) interface{} {
	switch v.Type() {
	case attribute.STRING:
		return v.AsString()
	case attribute.INT64:
		return v.AsInt64()
	case attribute.FLOAT64:
		return v.AsFloat64()
	case attribute.BOOL:
		return v.AsBool()
	default:
		return v.AsInterface()
	}
}

// LogRecorder is an sdklog.Exporter keeping records in memory.
type LogRecorder struct {
	mu       sync.Mutex
	records  []sdklog.Record
	shutdown bool
}

var _ sdklog.Exporter = (*LogRecorder)(nil)

// Export implements sdklog.Exporter.
func (r *LogRecorder) Export(_ context.Context, records []sdklog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		r.records = append(r.records, rec.Clone())
	}
	return nil
}

// Shutdown implements sdklog.Exporter.
func (r *LogRecorder) Shutdown(context.Context) error {
	r.mu.Lock()
	r.shutdown = true
	r.mu.Unlock()
	return nil
}

// ForceFlush implements sdklog.Exporter.
func (r *LogRecorder) ForceFlush(context.Context) error { return nil }

// Records returns the exported records.
func (r *LogRecorder) Records() []sdklog.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sdklog.Record, len(r.records))
	copy(out, r.records)
	return out
}

// IsShutdown reports whether Shutdown was called.
func (r *LogRecorder) IsShutdown() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shutdown
}
