package telemetry

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// NewResource creates a resource describing the service.
//
// Later sources win: SDK defaults, then OTEL_RESOURCE_ATTRIBUTES, then
// cfg.ResourceAttributes, then the service identity fields.
func NewResource(cfg *Config) (*resource.Resource, error) {
	// resource.Default carries a schema URL of its own, so configured
	// attributes are merged in schemaless to avoid a conflict.
	res, err := resource.Merge(resource.Default(), resource.Environment())
	if err != nil {
		return nil, fmt.Errorf("merging environment resource: %w", err)
	}

	keys := make([]string, 0, len(cfg.ResourceAttributes))
	for k := range cfg.ResourceAttributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]attribute.KeyValue, 0, len(keys)+3)
	for _, k := range keys {
		attrs = append(attrs, attribute.String(k, cfg.ResourceAttributes[k]))
	}
	if cfg.ServiceName != "" {
		attrs = append(attrs, semconv.ServiceName(cfg.ServiceName))
	}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}
	if cfg.DeploymentEnvironment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(cfg.DeploymentEnvironment))
	}

	res, err = resource.Merge(res, resource.NewSchemaless(attrs...))
	if err != nil {
		return nil, fmt.Errorf("merging service resource: %w", err)
	}
	return res, nil
}

// NewSampler returns a parent-based sampler for the given ratio.
func NewSampler(rate float64) trace.Sampler {
	var sampler trace.Sampler
	if rate >= 1.0 {
		sampler = trace.AlwaysSample()
	} else if rate <= 0 {
		sampler = trace.NeverSample()
	} else {
		sampler = trace.TraceIDRatioBased(rate)
	}
	return trace.ParentBased(sampler)
}

// NewPropagator returns the W3C trace context and baggage propagator.
func NewPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// NewSpanExporter creates the OTLP/HTTP span exporter for cfg.
func NewSpanExporter(ctx context.Context, cfg *Config) (trace.SpanExporter, error) {
	exp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.signalURL("traces")),
		otlptracehttp.WithHeaders(cfg.Headers),
		otlptracehttp.WithCompression(otlptracehttp.GzipCompression),
	)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	return exp, nil
}

// NewTracerProvider creates a TracerProvider that batches spans to exp.
// When exp is nil the OTLP/HTTP exporter is used.
func NewTracerProvider(ctx context.Context, cfg *Config, res *resource.Resource, exp trace.SpanExporter) (*trace.TracerProvider, error) {
	if exp == nil {
		var err error
		if exp, err = NewSpanExporter(ctx, cfg); err != nil {
			return nil, err
		}
	}

	opts := []trace.TracerProviderOption{
		trace.WithBatcher(exp),
		trace.WithResource(res),
		trace.WithSampler(NewSampler(cfg.Sampling.Rate)),
	}
	if cfg.IDGenerator == IDGeneratorXRay {
		opts = append(opts, trace.WithIDGenerator(xray.NewIDGenerator()))
	}
	if cfg.Console {
		stdout, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("creating stdout trace exporter: %w", err)
		}
		opts = append(opts, trace.WithSyncer(stdout))
	}

	return trace.NewTracerProvider(opts...), nil
}

// NewMetricExporter creates the OTLP/HTTP metric exporter for cfg.
func NewMetricExporter(ctx context.Context, cfg *Config) (metric.Exporter, error) {
	exp, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpointURL(cfg.signalURL("metrics")),
		otlpmetrichttp.WithHeaders(cfg.Headers),
		otlpmetrichttp.WithCompression(otlpmetrichttp.GzipCompression),
		otlpmetrichttp.WithTemporalitySelector(TemporalitySelector(cfg.Metrics.Temporality)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}
	return exp, nil
}

// NewMeterProvider creates a MeterProvider collecting through reader.
// When reader is nil a periodic reader over the OTLP/HTTP exporter is used.
func NewMeterProvider(ctx context.Context, cfg *Config, res *resource.Resource, reader metric.Reader) (*metric.MeterProvider, error) {
	if reader == nil {
		exp, err := NewMetricExporter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		reader = metric.NewPeriodicReader(exp, metric.WithInterval(cfg.Metrics.ExportInterval))
	}

	opts := []metric.Option{
		metric.WithResource(res),
		metric.WithReader(reader),
	}
	if cfg.Console {
		stdout, err := stdoutmetric.New(stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("creating stdout metric exporter: %w", err)
		}
		opts = append(opts, metric.WithReader(
			metric.NewPeriodicReader(stdout, metric.WithInterval(cfg.Metrics.ExportInterval)),
		))
	}

	return metric.NewMeterProvider(opts...), nil
}

// TemporalitySelector maps a temporality name to a selector. Delta is
// applied to counters and histograms only; up-down counters and gauges stay
// cumulative because their deltas are meaningless.
func TemporalitySelector(name string) metric.TemporalitySelector {
	if name != TemporalityDelta {
		return func(metric.InstrumentKind) metricdata.Temporality {
			return metricdata.CumulativeTemporality
		}
	}
	return func(kind metric.InstrumentKind) metricdata.Temporality {
		switch kind {
		case metric.InstrumentKindCounter,
			metric.InstrumentKindObservableCounter,
			metric.InstrumentKindHistogram:
			return metricdata.DeltaTemporality
		default:
			return metricdata.CumulativeTemporality
		}
	}
}

// NewLogExporter creates the OTLP/HTTP log exporter for cfg.
func NewLogExporter(ctx context.Context, cfg *Config) (sdklog.Exporter, error) {
	exp, err := otlploghttp.New(ctx,
		otlploghttp.WithEndpointURL(cfg.signalURL("logs")),
		otlploghttp.WithHeaders(cfg.Headers),
		otlploghttp.WithCompression(otlploghttp.GzipCompression),
	)
	if err != nil {
		return nil, fmt.Errorf("creating log exporter: %w", err)
	}
	return exp, nil
}

// NewLoggerProvider creates a LoggerProvider that batches records to exp.
// When exp is nil the OTLP/HTTP exporter is used.
func NewLoggerProvider(ctx context.Context, cfg *Config, res *resource.Resource, exp sdklog.Exporter) (*sdklog.LoggerProvider, error) {
	if exp == nil {
		var err error
		if exp, err = NewLogExporter(ctx, cfg); err != nil {
			return nil, err
		}
	}

	return sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)),
	), nil
}
