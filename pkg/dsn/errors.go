package dsn

import "fmt"

// ConfigError reports a fatal configuration problem: a missing or malformed
// DSN, or settings that cannot produce a working pipeline.
type ConfigError struct {
	// Input is the offending value, usually the DSN itself.
	Input  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := "uptrace: " + e.Reason
	if e.Input != "" {
		msg += fmt.Sprintf(" (%q)", e.Input)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }
