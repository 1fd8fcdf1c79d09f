// Package uptrace configures OpenTelemetry to export traces, metrics and
// logs to Uptrace over OTLP/HTTP.
//
// # Usage
//
//	cfg := uptrace.NewDefaultConfig()
//	cfg.DSN = "https://<token>@uptrace.dev/<project_id>" // or UPTRACE_DSN
//	cfg.ServiceName = "myservice"
//	cfg.ServiceVersion = "1.0.0"
//
//	distro, err := uptrace.New(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer distro.Shutdown(context.Background())
//
//	ctx, span := distro.Tracer("app_or_package_name").Start(ctx, "main-operation")
//	defer span.End()
//	fmt.Println(distro.TraceURL(span))
//
// The Distro is returned to the caller and not registered globally. Call
// SetGlobal when instrumentation libraries read otel.GetTracerProvider.
//
// # Errors
//
// Configuration problems (no DSN, unparseable DSN, DSN without host,
// invalid settings) are reported as *dsn.ConfigError and are fatal. DSN
// warnings such as a gRPC port are logged at warn level and ignored.
package uptrace
