// Package fuzz substitutes words into a request template and dispatches them
// over a fixed set of workers, similar to ffuf and gobuster.
package fuzz

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fuzzai/fuzzai/pkg/filter"
	"github.com/fuzzai/fuzzai/pkg/httpclient"
)

// Pool executes fuzzing operations.
type Pool struct {
	config    Config
	transport httpclient.Transport
	spec      *filter.Spec
	sink      Sink
	logger    *slog.Logger

	// OnResult, when set, is called after each displayed result is recorded.
	OnResult ResultCallback
}

// NewPool creates a pool. A nil spec displays every response.
func NewPool(cfg Config, transport httpclient.Transport, spec *filter.Spec, sink Sink, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	if spec == nil {
		spec = filter.NewSpec(filter.Options{}, logger)
	}
	return &Pool{
		config:    cfg.WithDefaults(),
		transport: transport,
		spec:      spec,
		sink:      sink,
		logger:    logger,
	}
}

// Config returns the effective configuration.
func (p *Pool) Config() Config { return p.config }

// Run dispatches words and blocks until every worker has exited.
//
// Each word is claimed by exactly one worker. Once ctx is done no further
// word is claimed; requests already in flight run to completion or to the
// per-request timeout, and the returned stats are marked Interrupted.
func (p *Pool) Run(ctx context.Context, words []string) *Stats {
	stats := &Stats{
		TotalWords: int64(len(words)),
		StartTime:  time.Now(),
	}

	total := int64(len(words))
	workers := p.config.Concurrency
	if int64(workers) > total {
		workers = int(total)
	}

	var cursor atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}
				idx := cursor.Add(1) - 1
				if idx >= total {
					return
				}
				p.process(ctx, words[idx])
				if !p.pause(ctx) {
					return
				}
			}
		}()
	}
	wg.Wait()

	stats.EndTime = time.Now()
	c := p.sink.Counts()
	stats.Displayed = c.Displayed
	stats.Filtered = c.Filtered
	stats.Errors = c.Errors
	stats.Interrupted = ctx.Err() != nil && min(cursor.Load(), total) < total
	return stats
}

// pause sleeps for the configured delay. It returns false if ctx ended first.
func (p *Pool) pause(ctx context.Context) bool {
	if p.config.Delay <= 0 {
		return true
	}
	timer := time.NewTimer(p.config.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// BuildRequest substitutes word into every occurrence of the keyword in the
// URL and body templates.
func (p *Pool) BuildRequest(word string) *httpclient.Request {
	kw := p.config.Keyword
	req := &httpclient.Request{
		Method:  p.config.Method,
		URL:     strings.ReplaceAll(p.config.Template, kw, word),
		Headers: p.config.Headers,
	}
	if p.config.Body != "" {
		req.Body = strings.ReplaceAll(p.config.Body, kw, word)
	}
	return req
}

// process runs one word through request, classification and decision.
func (p *Pool) process(ctx context.Context, word string) {
	// Detached from cancellation so an interrupt lets the request finish;
	// the per-request timeout still bounds it.
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.config.Timeout)
	defer cancel()

	req := p.BuildRequest(word)
	resp, err := p.transport.Perform(reqCtx, req)
	if err != nil {
		p.sink.MarkError(err)
		p.logger.Debug("request failed", "word", word, "url", req.URL, "error", err)
		return
	}

	cr := Classify(resp)
	decision := p.spec.Decide(cr)
	if !decision.Display {
		p.sink.MarkFiltered(cr)
		reason := decision.Reason
		if reason == "" {
			reason = "no match"
		}
		p.logger.Debug("response filtered", "word", word, "status", cr.StatusCode, "reason", reason)
		return
	}

	result := &Result{Word: word, URL: req.URL, Response: cr}
	if err := p.sink.Record(result); err != nil {
		p.logger.Warn("failed to persist result", "url", req.URL, "error", err)
	}
	if p.OnResult != nil {
		p.OnResult(result)
	}
}
