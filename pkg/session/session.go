// Package session runs one fuzzing session end to end: load the words,
// probe the target, dispatch the pool and report statistics.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/fuzzai/fuzzai/pkg/defaults"
	"github.com/fuzzai/fuzzai/pkg/filter"
	"github.com/fuzzai/fuzzai/pkg/fuzz"
	"github.com/fuzzai/fuzzai/pkg/httpclient"
	"github.com/fuzzai/fuzzai/pkg/metrics"
	"github.com/fuzzai/fuzzai/pkg/probe"
	"github.com/fuzzai/fuzzai/pkg/sink"
	"github.com/fuzzai/fuzzai/pkg/wordlist"
)

var tracer = otel.Tracer("github.com/fuzzai/fuzzai/pkg/session")

// Options configures a session.
type Options struct {
	Fuzz fuzz.Config

	// Wordlist is a file path or http(s) URL. Ignored when Words is set.
	Wordlist string
	// Words, when non-empty, is used as the wordlist directly.
	Words []string

	Filters filter.Options

	// OutputPath, when set, persists displayed results.
	OutputPath   string
	OutputFormat string

	Metrics   *metrics.Collector
	SkipProbe bool

	// Transport overrides the HTTP transport built from Fuzz. The probe
	// uses it too.
	Transport httpclient.Transport
}

// Session is a single run. It is not reusable.
type Session struct {
	id     string
	opts   Options
	spec   *filter.Spec
	logger *slog.Logger
	sink   atomic.Pointer[sink.Sink]

	// OnProbe is called with the probe outcome before dispatch starts.
	OnProbe func(probe.Result)
	// OnStart is called once the wordlist is loaded, with its length.
	OnStart func(total int)
	// OnResult is called for each displayed result.
	OnResult fuzz.ResultCallback
}

// New creates a session. Filter options are parsed immediately; invalid
// values degrade to an empty set with a warning.
func New(opts Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	logger = logger.With("session", id)
	return &Session{
		id:     id,
		opts:   opts,
		spec:   filter.NewSpec(opts.Filters, logger),
		logger: logger,
	}
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// Filters returns the parsed filter spec.
func (s *Session) Filters() *filter.Spec { return s.spec }

// Counts returns live counters and is safe to call while Run executes.
// Zero before Run builds the sink.
func (s *Session) Counts() fuzz.Counts {
	out := s.sink.Load()
	if out == nil {
		return fuzz.Counts{}
	}
	return out.Counts()
}

// Results returns the displayed results recorded so far.
func (s *Session) Results() []fuzz.Result {
	out := s.sink.Load()
	if out == nil {
		return nil
	}
	return out.Results()
}

// Run executes the session. Configuration problems are returned before any
// request is sent. An interrupted run returns its partial stats and a nil
// error; check Stats.Interrupted.
func (s *Session) Run(ctx context.Context) (stats *fuzz.Stats, err error) {
	cfg := s.opts.Fuzz
	keyword := cfg.Keyword
	if keyword == "" {
		keyword = defaults.Placeholder
	}

	ctx, span := tracer.Start(ctx, "session.run")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.String("fuzzai.session.id", s.id),
		attribute.String("fuzzai.template", cfg.Template),
	)

	if !strings.Contains(cfg.Template, keyword) {
		return nil, fmt.Errorf("%w: %q lacks %s", ErrNoPlaceholder, cfg.Template, keyword)
	}

	words, err := s.loadWords(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("fuzzai.words", len(words)))
	s.logger.Info("loaded wordlist", "words", len(words))

	transport, probeTransport, err := s.transports(cfg)
	if err != nil {
		return nil, err
	}

	out, err := sink.New(sink.Options{
		Path:      s.opts.OutputPath,
		Format:    s.opts.OutputFormat,
		SessionID: s.id,
		Metrics:   s.opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutput, err)
	}
	s.sink.Store(out)
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrOutput, cerr)
		}
	}()

	pool := fuzz.NewPool(cfg, transport, s.spec, out, s.logger)
	pool.OnResult = s.OnResult

	if !s.opts.SkipProbe {
		res := probe.New(probeTransport, keyword, pool.Config().Timeout, s.logger).Probe(ctx, cfg.Template)
		if s.OnProbe != nil {
			s.OnProbe(res)
		}
	}

	if s.OnStart != nil {
		s.OnStart(len(words))
	}

	stats = pool.Run(ctx, words)

	span.SetAttributes(
		attribute.Int64("fuzzai.displayed", stats.Displayed),
		attribute.Int64("fuzzai.filtered", stats.Filtered),
		attribute.Int64("fuzzai.errors", stats.Errors),
		attribute.Bool("fuzzai.interrupted", stats.Interrupted),
	)
	s.logger.Debug("session finished",
		"displayed", stats.Displayed,
		"filtered", stats.Filtered,
		"errors", stats.Errors,
		"elapsed", stats.Elapsed(),
	)
	return stats, nil
}

func (s *Session) loadWords(ctx context.Context) ([]string, error) {
	if len(s.opts.Words) > 0 {
		return s.opts.Words, nil
	}
	if s.opts.Wordlist == "" {
		return nil, fmt.Errorf("%w: no wordlist given", ErrWordlist)
	}
	words, err := wordlist.LoadContext(ctx, s.opts.Wordlist)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWordlist, s.opts.Wordlist, err)
	}
	return words, nil
}

// transports returns the fuzzing transport and the probe transport. The
// probe never follows redirects so a redirect counts as a response.
func (s *Session) transports(cfg fuzz.Config) (httpclient.Transport, httpclient.Transport, error) {
	if s.opts.Transport != nil {
		return s.opts.Transport, s.opts.Transport, nil
	}
	cc := cfg.ClientConfig()
	transport, err := httpclient.NewTransport(cc)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if !cc.FollowRedirects {
		return transport, transport, nil
	}
	cc.FollowRedirects = false
	probeTransport, err := httpclient.NewTransport(cc)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return transport, probeTransport, nil
}
