package uptrace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	lognoop "go.opentelemetry.io/otel/log/noop"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/uptrace-distro/internal/telemetry"
	"github.com/fyrsmithlabs/uptrace-distro/pkg/dsn"
)

// HeaderDSN is the request header carrying the DSN on every export.
const HeaderDSN = "uptrace-dsn"

// Distro is a configured OpenTelemetry pipeline exporting to Uptrace.
//
// A Distro is owned by the caller: nothing is registered process-wide
// unless SetGlobal is called. It is safe for concurrent use.
type Distro struct {
	config Config
	dsn    *dsn.DSN
	logger *zap.Logger

	resource       *resource.Resource
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	loggerProvider *sdklog.LoggerProvider
	propagator     propagation.TextMapPropagator

	shutdown atomic.Bool
}

// Option configures New.
type Option func(*options)

type options struct {
	logger       *zap.Logger
	spanExporter sdktrace.SpanExporter
	metricReader sdkmetric.Reader
	logExporter  sdklog.Exporter
}

// WithLogger sets the logger used for DSN warnings and SDK errors.
// Defaults to a warn-level console logger on stderr.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSpanExporter replaces the OTLP/HTTP span exporter.
func WithSpanExporter(exp sdktrace.SpanExporter) Option {
	return func(o *options) {
		o.spanExporter = exp
	}
}

// WithMetricReader replaces the periodic OTLP/HTTP metric reader.
func WithMetricReader(r sdkmetric.Reader) Option {
	return func(o *options) {
		o.metricReader = r
	}
}

// WithLogExporter replaces the OTLP/HTTP log exporter.
func WithLogExporter(exp sdklog.Exporter) Option {
	return func(o *options) {
		o.logExporter = exp
	}
}

// New parses the DSN, validates cfg and builds the enabled providers.
//
// A missing or malformed DSN, an empty DSN host or invalid settings fail
// with a *dsn.ConfigError. DSN warnings are logged and do not fail.
func New(ctx context.Context, cfg Config, opts ...Option) (*Distro, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = newDefaultLogger()
	}

	raw := cfg.resolveDSN()
	if raw == "" {
		return nil, &dsn.ConfigError{Reason: "DSN is empty (provide " + EnvDSN + " env var)"}
	}
	parsed, err := dsn.Parse(raw)
	if err != nil {
		return nil, err
	}

	tcfg := telemetryConfig(&cfg, parsed)
	if err := tcfg.Validate(); err != nil {
		return nil, &dsn.ConfigError{Reason: "invalid configuration", Err: err}
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, &dsn.ConfigError{Reason: "shutdown timeout must be positive"}
	}

	for _, w := range parsed.Warnings() {
		o.logger.Warn(w, zap.String("dsn.host", parsed.Host()), zap.String("dsn.port", parsed.Port()))
	}

	res, err := telemetry.NewResource(tcfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	d := &Distro{
		config:     cfg,
		dsn:        parsed,
		logger:     o.logger,
		resource:   res,
		propagator: telemetry.NewPropagator(),
	}

	if cfg.TracesEnabled {
		tp, err := telemetry.NewTracerProvider(ctx, tcfg, res, o.spanExporter)
		if err != nil {
			return nil, d.abort(ctx, err)
		}
		d.tracerProvider = tp
	}

	if cfg.MetricsEnabled {
		mp, err := telemetry.NewMeterProvider(ctx, tcfg, res, o.metricReader)
		if err != nil {
			return nil, d.abort(ctx, err)
		}
		d.meterProvider = mp
	}

	if cfg.LogsEnabled {
		lp, err := telemetry.NewLoggerProvider(ctx, tcfg, res, o.logExporter)
		if err != nil {
			return nil, d.abort(ctx, err)
		}
		d.loggerProvider = lp
	}

	return d, nil
}

// telemetryConfig translates the public config and the parsed DSN into
// builder settings.
func telemetryConfig(cfg *Config, d *dsn.DSN) *telemetry.Config {
	return &telemetry.Config{
		Endpoint:              d.OTLPEndpoint(),
		Headers:               map[string]string{HeaderDSN: d.String()},
		ServiceName:           cfg.ServiceName,
		ServiceVersion:        cfg.ServiceVersion,
		DeploymentEnvironment: cfg.DeploymentEnvironment,
		ResourceAttributes:    cfg.ResourceAttributes,
		Sampling:              telemetry.SamplingConfig{Rate: cfg.SamplingRate},
		IDGenerator:           cfg.IDGenerator,
		Metrics: telemetry.MetricsConfig{
			ExportInterval: cfg.MetricsInterval,
			Temporality:    cfg.MetricsTemporality,
		},
		Console: cfg.Console,
	}
}

// abort releases providers built before a failure.
func (d *Distro) abort(ctx context.Context, cause error) error {
	if err := d.shutdownProviders(ctx); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

func newDefaultLogger() *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		zapcore.WarnLevel,
	)
	return zap.New(core).Named("uptrace")
}

// DSN returns the parsed connection string.
func (d *Distro) DSN() *dsn.DSN { return d.dsn }

// Resource returns the resource attached to every signal.
func (d *Distro) Resource() *resource.Resource { return d.resource }

// Propagator returns the W3C trace context and baggage propagator.
func (d *Distro) Propagator() propagation.TextMapPropagator { return d.propagator }

// TracerProvider returns the tracer provider, or a no-op one when traces
// are disabled.
func (d *Distro) TracerProvider() trace.TracerProvider {
	if d.tracerProvider == nil {
		return tracenoop.NewTracerProvider()
	}
	return d.tracerProvider
}

// MeterProvider returns the meter provider, or a no-op one when metrics
// are disabled.
func (d *Distro) MeterProvider() metric.MeterProvider {
	if d.meterProvider == nil {
		return metricnoop.NewMeterProvider()
	}
	return d.meterProvider
}

// LoggerProvider returns the log provider for bridges such as otelzap, or
// a no-op one when logs are disabled.
func (d *Distro) LoggerProvider() otellog.LoggerProvider {
	if d.loggerProvider == nil {
		return lognoop.NewLoggerProvider()
	}
	return d.loggerProvider
}

// Tracer returns a tracer for the given instrumentation scope.
func (d *Distro) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return d.TracerProvider().Tracer(name, opts...)
}

// Meter returns a meter for the given instrumentation scope.
func (d *Distro) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	return d.MeterProvider().Meter(name, opts...)
}

// SetGlobal installs the providers and propagator as the process-wide
// OpenTelemetry defaults and routes SDK errors to the distro logger.
// Only call it when instrumentation libraries need the globals.
func (d *Distro) SetGlobal() {
	otel.SetTracerProvider(d.TracerProvider())
	otel.SetMeterProvider(d.MeterProvider())
	global.SetLoggerProvider(d.LoggerProvider())
	otel.SetTextMapPropagator(d.propagator)
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		d.logger.Warn("opentelemetry error", zap.Error(err))
	}))
}

// TraceURL returns the Uptrace link to the trace span belongs to.
func (d *Distro) TraceURL(span trace.Span) string {
	sc := spanContext(span)
	return d.dsn.TraceURL(sc.TraceID().String(), "")
}

// SpanURL returns the Uptrace link to the trace with span selected.
func (d *Distro) SpanURL(span trace.Span) string {
	sc := spanContext(span)
	return d.dsn.TraceURL(sc.TraceID().String(), sc.SpanID().String())
}

// ContextTraceURL returns the link to the trace of the active span in ctx.
func (d *Distro) ContextTraceURL(ctx context.Context) string {
	return d.TraceURL(trace.SpanFromContext(ctx))
}

func spanContext(span trace.Span) trace.SpanContext {
	if span == nil {
		return trace.SpanContext{}
	}
	return span.SpanContext()
}

// ForceFlush immediately exports all pending telemetry.
func (d *Distro) ForceFlush(ctx context.Context) error {
	var errs []error

	if d.tracerProvider != nil {
		if err := d.tracerProvider.ForceFlush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("trace flush: %w", err))
		}
	}
	if d.meterProvider != nil {
		if err := d.meterProvider.ForceFlush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter flush: %w", err))
		}
	}
	if d.loggerProvider != nil {
		if err := d.loggerProvider.ForceFlush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("logger flush: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Shutdown flushes and stops every provider. Calls after the first return
// nil. When ctx has no deadline, Config.ShutdownTimeout applies.
func (d *Distro) Shutdown(ctx context.Context) error {
	if !d.shutdown.CompareAndSwap(false, true) {
		return nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.ShutdownTimeout)
		defer cancel()
	}

	return d.shutdownProviders(ctx)
}

// IsShutdown reports whether Shutdown has been called.
func (d *Distro) IsShutdown() bool {
	return d.shutdown.Load()
}

func (d *Distro) shutdownProviders(ctx context.Context) error {
	var errs []error

	if d.tracerProvider != nil {
		if err := d.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("trace provider shutdown: %w", err))
		}
	}
	if d.meterProvider != nil {
		if err := d.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if d.loggerProvider != nil {
		if err := d.loggerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("logger provider shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}
