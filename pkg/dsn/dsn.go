// Package dsn parses Uptrace connection strings.
//
// A DSN has the form scheme://token@host[:port]/project_id. Parsing derives
// the two base URLs the rest of the distro needs: the site URL used for
// human-facing trace links and the OTLP endpoint used for ingestion.
//
//	d, err := dsn.Parse("https://secret@uptrace.dev/1")
//	if err != nil {
//	    return err
//	}
//	d.OTLPEndpoint() // https://otlp.uptrace.dev
//	d.SiteURL()      // https://app.uptrace.dev
//
// Parse is pure: it does no I/O and never reads the environment. Advisory
// diagnostics (a gRPC port on an OTLP/HTTP client, a missing token) are
// returned by Warnings so the caller can report them through its logger.
package dsn

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

const (
	// CloudHost is the canonical host of the hosted Uptrace service.
	CloudHost = "uptrace.dev"

	// legacyCloudHost is rewritten to CloudHost.
	legacyCloudHost = "api.uptrace.dev"

	cloudSiteURL = "https://app.uptrace.dev"
	cloudOTLPURL = "https://otlp.uptrace.dev"
)

// grpcPorts are the OTLP/gRPC ports users commonly paste by mistake.
var grpcPorts = map[string]bool{
	"4317":  true,
	"14317": true,
}

// DSN is a parsed connection string. The zero value is not usable; obtain
// one from Parse. A DSN is immutable.
type DSN struct {
	raw       string
	scheme    string
	host      string
	port      string
	token     string
	projectID string

	siteURL      string
	otlpEndpoint string

	warnings []string
}

// Parse parses s into a DSN.
//
// It fails with a *ConfigError when s is not a URL or has no host. An
// empty token is accepted and reported through Warnings.
func Parse(s string) (*DSN, error) {
	if strings.TrimSpace(s) == "" {
		return nil, &ConfigError{Input: s, Reason: "DSN is empty"}
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, &ConfigError{Input: s, Reason: "can't parse DSN", Err: err}
	}

	d := &DSN{
		raw:       s,
		scheme:    u.Scheme,
		host:      u.Hostname(),
		port:      u.Port(),
		projectID: strings.Trim(u.Path, "/"),
	}
	if u.User != nil {
		d.token = u.User.Username()
	}

	if d.host == "" {
		return nil, &ConfigError{Input: s, Reason: "DSN does not have a host"}
	}
	if d.host == legacyCloudHost {
		d.host = CloudHost
	}

	if d.token == "" {
		d.warnings = append(d.warnings, "DSN does not have a token (user info); uploads will be rejected")
	}
	if d.host != CloudHost && grpcPorts[d.port] {
		d.warnings = append(d.warnings, fmt.Sprintf(
			"got port %s (OTLP/gRPC), but uptrace-distro uses OTLP/HTTP (expected 14318)", d.port))
	}

	d.siteURL = d.buildSiteURL()
	d.otlpEndpoint = d.buildOTLPEndpoint()

	return d, nil
}

func (d *DSN) buildSiteURL() string {
	if d.host == CloudHost {
		return cloudSiteURL
	}
	return d.origin()
}

func (d *DSN) buildOTLPEndpoint() string {
	if d.host == CloudHost {
		return cloudOTLPURL
	}
	return d.origin()
}

// origin returns scheme://host[:port]. The port is only present when the
// DSN carried one.
func (d *DSN) origin() string {
	host := d.host
	if d.port != "" {
		host = net.JoinHostPort(d.host, d.port)
	} else if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return d.scheme + "://" + host
}

// String returns the original connection string. It contains the token and
// is meant to be sent as the uptrace-dsn header, not logged.
func (d *DSN) String() string { return d.raw }

// Scheme returns the URL scheme, e.g. "https".
func (d *DSN) Scheme() string { return d.scheme }

// Host returns the normalized host name without port.
func (d *DSN) Host() string { return d.host }

// Port returns the explicit port or "" when the DSN has none.
func (d *DSN) Port() string { return d.port }

// Token returns the credential from the user-info component.
func (d *DSN) Token() string { return d.token }

// ProjectID returns the path of the DSN without slashes.
func (d *DSN) ProjectID() string { return d.projectID }

// SiteURL returns the base URL of the Uptrace UI.
func (d *DSN) SiteURL() string { return d.siteURL }

// OTLPEndpoint returns the OTLP/HTTP base URL without a signal path.
func (d *DSN) OTLPEndpoint() string { return d.otlpEndpoint }

// IsCloud reports whether the DSN points at the hosted service.
func (d *DSN) IsCloud() bool { return d.host == CloudHost }

// Warnings returns advisory diagnostics collected while parsing.
func (d *DSN) Warnings() []string {
	if len(d.warnings) == 0 {
		return nil
	}
	out := make([]string, len(d.warnings))
	copy(out, d.warnings)
	return out
}

// TraceURL returns the link to a trace in the Uptrace UI. When spanID is
// not empty the link selects that span.
func (d *DSN) TraceURL(traceID, spanID string) string {
	u := d.siteURL + "/traces/" + traceID
	if spanID != "" {
		u += "?span_id=" + spanID
	}
	return u
}
