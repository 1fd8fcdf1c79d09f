// Package logging provides structured logging for the uptrace-distro tools.
//
// Logger wraps Zap with context-aware methods that add trace_id and span_id
// from the active span. Output goes to the console, to OpenTelemetry via the
// otelzap bridge (so log records are exported to Uptrace next to traces), or
// both.
//
//	logger, err := logging.NewLogger(cfg, distro.LoggerProvider())
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//	logger.Info(ctx, "upload finished", zap.Int("spans", n))
//
// Console output is redacted: keys such as dsn and token are replaced, and
// any string holding a URL with user info is masked. Use Secret for
// config.Secret values.
//
// Entries below error level are sampled when Sampling.Enabled is set.
// Errors are never sampled.
package logging
