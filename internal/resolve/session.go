package resolve

import (
	"strconv"

	"github.com/systmms/sentry-setup/internal/sentry"
)

// Environment variable names consumed by the Laravel Sentry SDK
const (
	EnvDSN              = "SENTRY_LARAVEL_DSN"
	EnvTracesSampleRate = "SENTRY_TRACES_SAMPLE_RATE"
)

// Session is the per-invocation resolution record. Each step receives
// the session so far and returns the next one; nothing is held in
// ambient mutable state and nothing outlives the invocation.
type Session struct {
	Org     sentry.Organization
	Project *sentry.Project

	// DSN is immutable once set
	DSN string

	// SampleRate is nil when performance monitoring stays disabled
	SampleRate *float64
}

// Enabled reports whether a DSN was produced. Both outcomes are valid:
// a declined project resolution simply leaves Sentry unconfigured.
func (s Session) Enabled() bool {
	return s.DSN != ""
}

// Environment returns the variables handed to the env file. The DSN key
// is always present (empty when Sentry is disabled); the sample-rate key
// only when a rate was set.
func (s Session) Environment() map[string]string {
	env := map[string]string{EnvDSN: s.DSN}
	if s.SampleRate != nil {
		env[EnvTracesSampleRate] = strconv.FormatFloat(*s.SampleRate, 'f', -1, 64)
	}
	return env
}
