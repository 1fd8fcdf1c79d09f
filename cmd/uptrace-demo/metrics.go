package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func (a *app) metricsCmd() *cobra.Command {
	var iterations int
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Record a demo counter and histogram",
		Long: `Record uptrace.demo.counter and uptrace.demo.duration for a number of
iterations, then flush them to Uptrace.

Examples:
  uptrace-demo metrics --iterations 1000
  uptrace-demo metrics --interval 10ms --console`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			if iterations <= 0 {
				return fmt.Errorf("iterations must be positive, got %d", iterations)
			}

			s, err := a.start(cmd)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, s.close(cmd.Context())) }()

			return recordDemoMetrics(cmd, s, iterations, interval)
		},
	}

	cmd.Flags().IntVar(&iterations, "iterations", 100, "number of measurements to record")
	cmd.Flags().DurationVar(&interval, "interval", 0, "pause between measurements")
	return cmd
}

func recordDemoMetrics(cmd *cobra.Command, s *session, iterations int, interval time.Duration) error {
	ctx := cmd.Context()
	meter := s.distro.Meter(tracerName)

	counter, err := meter.Int64Counter("uptrace.demo.counter",
		metric.WithDescription("Demo counter"))
	if err != nil {
		return fmt.Errorf("creating counter: %w", err)
	}
	histogram, err := meter.Float64Histogram("uptrace.demo.duration",
		metric.WithDescription("Demo operation duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return fmt.Errorf("creating histogram: %w", err)
	}

	attrs := metric.WithAttributes(attribute.String("type", "demo"))
	for i := 0; i < iterations; i++ {
		counter.Add(ctx, 1, attrs)
		histogram.Record(ctx, 10+rand.Float64()*90, attrs)

		if interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}
	}

	s.logger.Info(ctx, "recorded demo metrics")
	fmt.Fprintf(cmd.OutOrStdout(), "recorded %d measurements\n", iterations)
	return nil
}
