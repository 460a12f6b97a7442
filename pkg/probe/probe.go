// Package probe checks that a fuzzing target answers before the wordlist is
// dispatched.
package probe

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fuzzai/fuzzai/pkg/defaults"
	"github.com/fuzzai/fuzzai/pkg/duration"
	"github.com/fuzzai/fuzzai/pkg/httpclient"
)

var tracer = otel.Tracer("github.com/fuzzai/fuzzai/pkg/probe")

// Mode is where the placeholder sits in the template.
type Mode int

const (
	// ModePath covers path and query parameter fuzzing.
	ModePath Mode = iota
	// ModeSubdomain is fuzzing inside the hostname.
	ModeSubdomain
)

func (m Mode) String() string {
	if m == ModeSubdomain {
		return "subdomain"
	}
	return "path"
}

// DetectMode returns ModeSubdomain when the text before the first token ends
// with "://" or "://www.".
func DetectMode(template, token string) Mode {
	before, _, found := strings.Cut(template, token)
	if !found {
		return ModePath
	}
	if strings.HasSuffix(before, "://") || strings.HasSuffix(before, "://www.") {
		return ModeSubdomain
	}
	return ModePath
}

// Candidates returns the URLs the probe tries, in order.
func Candidates(template, token string) (Mode, []string) {
	before, after, found := strings.Cut(template, token)
	if !found {
		return ModePath, []string{template}
	}
	mode := DetectMode(template, token)
	if mode == ModeSubdomain {
		// The base domain ends at the next token, if any.
		after, _, _ = strings.Cut(after, token)
		return mode, []string{before + strings.TrimLeft(after, ".")}
	}
	urls := make([]string, 0, len(defaults.ProbeWords))
	for _, w := range defaults.ProbeWords {
		urls = append(urls, strings.ReplaceAll(template, token, w))
	}
	return mode, urls
}

// Result is the outcome of a probe.
type Result struct {
	Mode Mode
	// Reachable is always true; the probe never blocks a run.
	Reachable bool
	// Verified is true when some attempt got an HTTP response.
	Verified bool
	// Via is the URL that answered.
	Via string
	// Status of the answering response.
	Status   int
	Attempts int
}

// Prober issues lightweight requests through a Transport.
type Prober struct {
	transport httpclient.Transport
	token     string
	timeout   time.Duration
	logger    *slog.Logger
}

// New returns a Prober. Zero timeout uses duration.ProbeAttempt; empty token
// uses defaults.Placeholder.
func New(transport httpclient.Transport, token string, timeout time.Duration, logger *slog.Logger) *Prober {
	if token == "" {
		token = defaults.Placeholder
	}
	if timeout <= 0 {
		timeout = duration.ProbeAttempt
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{transport: transport, token: token, timeout: timeout, logger: logger}
}

// Probe sends HEAD requests to the candidate URLs until one yields any HTTP
// response, error statuses included. If none does, the target is still
// reported reachable and a warning is logged.
func (p *Prober) Probe(ctx context.Context, template string) Result {
	mode, urls := Candidates(template, p.token)

	ctx, span := tracer.Start(ctx, "probe")
	defer span.End()
	span.SetAttributes(attribute.String("fuzzai.probe.mode", mode.String()))

	res := Result{Mode: mode, Reachable: true}
	p.logger.Info("checking target reachability", "mode", mode.String())

	for _, u := range urls {
		if ctx.Err() != nil {
			break
		}
		res.Attempts++
		resp, err := p.attempt(ctx, u)
		if err != nil {
			p.logger.Debug("probe attempt failed", "url", u, "error", err)
			continue
		}
		res.Verified = true
		res.Via = u
		res.Status = resp.StatusCode
		p.logger.Debug("target reachability verified", "url", u, "status", resp.StatusCode)
		break
	}

	span.SetAttributes(
		attribute.Bool("fuzzai.probe.verified", res.Verified),
		attribute.Int("fuzzai.probe.attempts", res.Attempts),
	)
	if !res.Verified {
		p.logger.Warn("could not verify target reachability, proceeding anyway")
	}
	return res
}

func (p *Prober) attempt(ctx context.Context, url string) (*httpclient.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.transport.Perform(ctx, &httpclient.Request{Method: defaults.ProbeMethod, URL: url})
}
