// Package telemetry assembles OpenTelemetry SDK components for the distro.
//
// # Overview
//
// The package holds no policy of its own. Given a Config whose endpoint and
// headers were already derived from the DSN, it builds:
//
//   - a resource (SDK defaults, OTEL_RESOURCE_ATTRIBUTES, configured
//     attributes, then service name/version/environment)
//   - a TracerProvider with a batching OTLP/HTTP span exporter, a
//     parent-based ratio sampler and an X-Ray or random ID generator
//   - a MeterProvider with a periodic OTLP/HTTP reader using delta or
//     cumulative temporality
//   - a LoggerProvider with a batching OTLP/HTTP log exporter
//
// Every exporter posts to {endpoint}/v1/{signal} with gzip compression.
//
// # Usage
//
//	cfg := telemetry.NewDefaultConfig()
//	cfg.Endpoint = d.OTLPEndpoint()
//	cfg.Headers = map[string]string{"uptrace-dsn": d.String()}
//	res, err := telemetry.NewResource(cfg)
//	tp, err := telemetry.NewTracerProvider(ctx, cfg, res, nil)
//
// Passing a non-nil exporter or reader replaces the OTLP one.
//
// # Testing
//
// Recorder bundles in-memory exporters:
//
//	rec := telemetry.NewRecorder()
//	tp, _ := telemetry.NewTracerProvider(ctx, cfg, res, rec.Spans)
//	...
//	_ = tp.ForceFlush(ctx)
//	rec.AssertSpanExists(t, "GET /posts/:id")
package telemetry
