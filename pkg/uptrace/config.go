package uptrace

import (
	"os"
	"time"

	"github.com/fyrsmithlabs/uptrace-distro/internal/telemetry"
)

// EnvDSN is the environment variable read when Config.DSN is empty.
const EnvDSN = "UPTRACE_DSN"

// Config configures a Distro. Populate it with named fields, usually
// starting from NewDefaultConfig; New validates it once.
type Config struct {
	// DSN is the Uptrace connection string. Falls back to $UPTRACE_DSN.
	DSN string

	ServiceName           string
	ServiceVersion        string
	DeploymentEnvironment string
	// ResourceAttributes are merged into the resource. Service fields above
	// take precedence over the same keys here.
	ResourceAttributes map[string]string

	TracesEnabled  bool
	MetricsEnabled bool
	LogsEnabled    bool

	// SamplingRate is the ratio of root traces kept, 0..1.
	SamplingRate float64
	// IDGenerator is "xray" (time-prefixed trace ids) or "random".
	IDGenerator string

	MetricsInterval time.Duration
	// MetricsTemporality is "delta" or "cumulative".
	MetricsTemporality string

	// Console also prints spans and metrics to stdout.
	Console bool

	// ShutdownTimeout bounds Shutdown when its context has no deadline.
	ShutdownTimeout time.Duration
}

// NewDefaultConfig returns a config with every signal enabled.
func NewDefaultConfig() Config {
	return Config{
		TracesEnabled:      true,
		MetricsEnabled:     true,
		LogsEnabled:        true,
		SamplingRate:       1.0,
		IDGenerator:        telemetry.IDGeneratorXRay,
		MetricsInterval:    15 * time.Second,
		MetricsTemporality: telemetry.TemporalityDelta,
		ShutdownTimeout:    5 * time.Second,
	}
}

// resolveDSN returns the explicit DSN or the environment fallback.
func (c *Config) resolveDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return os.Getenv(EnvDSN)
}
