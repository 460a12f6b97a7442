// Package defaults provides canonical default values for the entire codebase.
// This is the single source of truth for runtime configuration defaults.
//
// Usage:
//
//	cfg.Concurrency = defaults.Concurrency
//	url := strings.ReplaceAll(template, defaults.Placeholder, word)
//
// Do not hardcode values like `Concurrency: 10` elsewhere; reference the
// constant from this package instead.
package defaults

import "fmt"

// Version is the current fuzzai version
const Version = "1.2.0"

// ToolName is used for the service name in traces and the metrics namespace.
const ToolName = "fuzzai"

// ============================================================================
// FUZZING
// ============================================================================

const (
	// Placeholder is the substitution marker in URL and body templates
	Placeholder = "FUZZ"

	// Concurrency is the default number of dispatch workers (10)
	Concurrency = 10

	// ConcurrencyMax caps the worker count accepted from the CLI (500)
	ConcurrencyMax = 500

	// Method is the default HTTP method
	Method = "GET"

	// ProbeMethod is used for the lightweight reachability requests
	ProbeMethod = "HEAD"
)

// ProbeWords are substituted into path/parameter templates by the
// reachability probe, tried in order.
var ProbeWords = []string{"test", "123", "admin"}

// ============================================================================
// BUFFER SIZES
// ============================================================================

const (
	// BufferMax is the maximum response body size read per request (10MB)
	BufferMax = 10 * 1024 * 1024
)

// ============================================================================
// HTTP
// ============================================================================

const (
	// MaxRedirects is the maximum number of redirects to follow when enabled
	MaxRedirects = 10

	// MaxIdleConns is the connection pool size across hosts
	MaxIdleConns = 100
)

// ============================================================================
// OUTPUT
// ============================================================================

const (
	// OutputFormatTSV writes status\tURL\tsize\twords\tlines lines
	OutputFormatTSV = "tsv"

	// OutputFormatJSONL writes one JSON object per displayed result
	OutputFormatJSONL = "jsonl"

	// FilePerm is the permission used for result and config files
	FilePerm = 0o644

	// DirPerm is the permission used for created directories
	DirPerm = 0o755
)

// UserAgent returns the fuzzai user agent, optionally with context
// (e.g. "fuzzai/1.2.0 (probe)").
func UserAgent(context string) string {
	if context == "" {
		return ToolName + "/" + Version
	}
	return fmt.Sprintf("%s/%s (%s)", ToolName, Version, context)
}
