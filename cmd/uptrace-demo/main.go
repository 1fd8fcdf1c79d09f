// Command uptrace-demo sends demo traces, metrics and logs to Uptrace and
// inspects DSNs.
//
// Settings come from ~/.config/uptrace/config.yaml, UPTRACE_* environment
// variables and flags, in increasing order of precedence.
//
// Usage:
//
//	# Check a DSN
//	uptrace-demo dsn https://<token>@uptrace.dev/<project_id>
//
//	# Send a trace and print its URL
//	UPTRACE_DSN=https://<token>@uptrace.dev/<project_id> uptrace-demo traces
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/uptrace-distro/internal/config"
	"github.com/fyrsmithlabs/uptrace-distro/internal/logging"
	"github.com/fyrsmithlabs/uptrace-distro/pkg/uptrace"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath     string
	dsn            string
	serviceName    string
	serviceVersion string
	environment    string
	console        bool
}

type app struct {
	flags rootFlags
	// distroOpts are appended to the options passed to uptrace.New.
	distroOpts []uptrace.Option
}

func newRootCmd(distroOpts ...uptrace.Option) *cobra.Command {
	a := &app{distroOpts: distroOpts}

	root := &cobra.Command{
		Use:   "uptrace-demo",
		Short: "Send demo telemetry to Uptrace",
		Long: `uptrace-demo configures OpenTelemetry from an Uptrace DSN and sends demo
traces, metrics and logs over OTLP/HTTP.

The DSN is read from --dsn, UPTRACE_DSN or the dsn key of the config file.`,
		Version:      version,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default ~/.config/uptrace/config.yaml)")
	pf.StringVar(&a.flags.dsn, "dsn", "", "Uptrace DSN, e.g. https://<token>@uptrace.dev/<project_id>")
	pf.StringVar(&a.flags.serviceName, "service-name", "", "service.name resource attribute")
	pf.StringVar(&a.flags.serviceVersion, "service-version", "", "service.version resource attribute")
	pf.StringVar(&a.flags.environment, "env", "", "deployment.environment resource attribute")
	pf.BoolVar(&a.flags.console, "console", false, "also print spans and metrics to stdout")

	root.AddCommand(a.dsnCmd())
	root.AddCommand(a.tracesCmd())
	root.AddCommand(a.metricsCmd())
	root.AddCommand(a.logsCmd())
	root.AddCommand(versionCmd())

	return root
}

// loadConfig loads the file and environment settings, then applies the
// flags that were set on the command line.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadWithFile(a.flags.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dsn") {
		cfg.DSN = config.Secret(a.flags.dsn)
	}
	if flags.Changed("service-name") {
		cfg.Service.Name = a.flags.serviceName
	}
	if flags.Changed("service-version") {
		cfg.Service.Version = a.flags.serviceVersion
	}
	if flags.Changed("env") {
		cfg.Service.Environment = a.flags.environment
	}
	if flags.Changed("console") {
		cfg.Console = a.flags.console
	}

	return cfg, cfg.Validate()
}

// session is a running distro plus the tool's logger.
type session struct {
	distro *uptrace.Distro
	logger *logging.Logger
}

// start builds the distro. DSN warnings go to a console-only logger, since
// the log pipeline does not exist until the distro does.
func (a *app) start(cmd *cobra.Command) (*session, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logCfg, err := cfg.LoggerConfig()
	if err != nil {
		return nil, err
	}
	logCfg.Output.Writer = zapcore.AddSync(cmd.ErrOrStderr())

	consoleCfg := *logCfg
	consoleCfg.Output.OTEL = false
	consoleCfg.Output.Console = true
	bootstrap, err := logging.NewLogger(&consoleCfg, nil)
	if err != nil {
		return nil, err
	}

	opts := append([]uptrace.Option{
		uptrace.WithLogger(bootstrap.Underlying().Named("uptrace")),
	}, a.distroOpts...)

	distro, err := uptrace.New(cmd.Context(), cfg.Distro(), opts...)
	if err != nil {
		return nil, err
	}
	distro.SetGlobal()

	logger := bootstrap
	if logCfg.Output.OTEL {
		logger, err = logging.NewLogger(logCfg, distro.LoggerProvider())
		if err != nil {
			_ = distro.Shutdown(context.WithoutCancel(cmd.Context()))
			return nil, err
		}
	}

	return &session{distro: distro, logger: logger}, nil
}

// close flushes and shuts down the distro, even after the command context
// was cancelled by a signal.
func (s *session) close(ctx context.Context) error {
	_ = s.logger.Sync()
	if err := s.distro.Shutdown(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("flushing telemetry: %w", err)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "uptrace-demo %s (commit %s)\n", version, gitCommit)
		},
	}
}
