// Package duration provides canonical time constants for the entire codebase.
// This is the single source of truth for time-based configuration.
//
// Usage:
//
//	ctx, cancel := context.WithTimeout(ctx, duration.ProbeAttempt)
//	srv.ReadTimeout = duration.MetricsRead
//
// Do not hardcode time.Duration values like `10 * time.Second` elsewhere.
package duration

import "time"

// ============================================================================
// HTTP CLIENT TIMEOUTS
// ============================================================================

const (
	// Request is the default per-request timeout for fuzzing (10s)
	Request = 10 * time.Second

	// ProbeAttempt bounds a single reachability probe request when the
	// session timeout is unset (10s)
	ProbeAttempt = 10 * time.Second

	// WordlistDownload bounds the fetch of a remote wordlist (60s)
	WordlistDownload = 60 * time.Second
)

// ============================================================================
// CONNECTION SETTINGS
// ============================================================================

const (
	// DialTimeout is the TCP connect timeout (10s)
	DialTimeout = 10 * time.Second

	// KeepAlive is the TCP keep-alive period (30s)
	KeepAlive = 30 * time.Second

	// IdleConnTimeout is how long idle connections stay pooled (90s)
	IdleConnTimeout = 90 * time.Second

	// TLSHandshake is the TLS handshake timeout (10s)
	TLSHandshake = 10 * time.Second
)

// ============================================================================
// TELEMETRY
// ============================================================================

const (
	// MetricsRead is the read timeout of the /metrics server (5s)
	MetricsRead = 5 * time.Second

	// MetricsWrite is the write timeout of the /metrics server (10s)
	MetricsWrite = 10 * time.Second

	// TelemetryConnect bounds the OTLP exporter setup (10s)
	TelemetryConnect = 10 * time.Second

	// TelemetryShutdown bounds flushing spans and stopping servers on exit (5s)
	TelemetryShutdown = 5 * time.Second
)
