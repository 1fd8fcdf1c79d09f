package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/fyrsmithlabs/uptrace-distro/cmd/uptrace-demo"

func (a *app) tracesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "traces",
		Short: "Send a demo trace and print its URL",
		Long: `Send a trace with a root span and two children (an HTTP server span that
records an error, and a database span), then print the Uptrace URL of the
trace.

Examples:
  uptrace-demo traces --dsn https://<token>@uptrace.dev/<project_id>
  uptrace-demo traces --console --service-name myservice`,
		Args: cobra.NoArgs,
		RunE: a.runTraces,
	}
}

func (a *app) runTraces(cmd *cobra.Command, _ []string) (err error) {
	s, err := a.start(cmd)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.close(cmd.Context())) }()

	tracer := s.distro.Tracer(tracerName)

	ctx, root := tracer.Start(cmd.Context(), "main-operation")

	_, child1 := tracer.Start(ctx, "GET /posts/:id", trace.WithSpanKind(trace.SpanKindServer))
	child1.SetAttributes(
		semconv.HTTPRequestMethodGet,
		semconv.HTTPRoute("/posts/:id"),
		semconv.URLFull("http://localhost:8080/posts/123"),
		semconv.HTTPResponseStatusCode(200),
	)
	demoErr := errors.New("some error message")
	child1.RecordError(demoErr)
	child1.SetStatus(codes.Error, demoErr.Error())
	child1.End()

	_, child2 := tracer.Start(ctx, "SELECT")
	child2.SetAttributes(
		semconv.DBSystemMySQL,
		attribute.String("db.statement", "SELECT * FROM posts LIMIT 100"),
	)
	child2.End()

	root.End()

	fmt.Fprintln(cmd.OutOrStdout(), s.distro.TraceURL(root))
	return nil
}
