package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/uptrace-distro/internal/logging"
	"github.com/fyrsmithlabs/uptrace-distro/pkg/dsn"
	"github.com/fyrsmithlabs/uptrace-distro/pkg/uptrace"
)

var (
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(15)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func (a *app) dsnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dsn [DSN]",
		Short: "Parse a DSN and print the endpoints it resolves to",
		Long: `Parse an Uptrace DSN and print its parts, the site and OTLP endpoints
derived from it, and any warnings. The token is never printed.

Without an argument the configured DSN is used (--dsn, UPTRACE_DSN or the
config file).

Examples:
  # Check a cloud DSN
  uptrace-demo dsn https://<token>@uptrace.dev/<project_id>

  # Check the configured DSN
  UPTRACE_DSN=http://<token>@localhost:14318/2 uptrace-demo dsn`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runDSN,
	}
}

func (a *app) runDSN(cmd *cobra.Command, args []string) error {
	var raw string
	if len(args) == 1 {
		raw = args[0]
	} else {
		cfg, err := a.loadConfig(cmd)
		if err != nil {
			return err
		}
		raw = cfg.DSN.Value()
	}
	if raw == "" {
		return errors.New("no DSN given (pass one, use --dsn or set " + uptrace.EnvDSN + ")")
	}

	parsed, err := dsn.Parse(raw)
	if err != nil {
		return err
	}

	printDSN(cmd.OutOrStdout(), parsed)
	return nil
}

func printDSN(w io.Writer, d *dsn.DSN) {
	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintln(w, labelStyle.Render(label)+value)
	}

	row("scheme:", d.Scheme())
	row("host:", d.Host())
	row("port:", d.Port())
	row("project:", d.ProjectID())
	var token string
	if d.Token() != "" {
		token = logging.RedactedString("token", d.Token()).String
	}
	row("token:", token)
	row("cloud:", fmt.Sprint(d.IsCloud()))
	row("site URL:", d.SiteURL())
	row("OTLP endpoint:", d.OTLPEndpoint())

	for _, warning := range d.Warnings() {
		fmt.Fprintln(w, warningStyle.Render("warning: "+warning))
	}
}
