package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) logsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logs",
		Short: "Emit demo log records through zap",
		Long: `Emit log records through zap and the otelzap bridge inside a span, so
Uptrace shows them next to the trace. Prints the trace URL.

Examples:
  uptrace-demo logs --dsn https://<token>@uptrace.dev/<project_id>`,
		Args: cobra.NoArgs,
		RunE: a.runLogs,
	}
}

func (a *app) runLogs(cmd *cobra.Command, _ []string) (err error) {
	s, err := a.start(cmd)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.close(cmd.Context())) }()

	ctx, span := s.distro.Tracer(tracerName).Start(cmd.Context(), "log-demo")
	s.logger.Info(ctx, "hello world", zap.String("domain", "my-domain"))
	s.logger.Warn(ctx, "disk almost full", zap.Int("free_mb", 120))
	s.logger.Error(ctx, "request failed", zap.Error(errors.New("connection reset")))
	span.End()

	fmt.Fprintln(cmd.OutOrStdout(), s.distro.TraceURL(span))
	return nil
}
