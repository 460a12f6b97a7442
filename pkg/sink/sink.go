// Package sink records the outcome of every fuzzed word: counters, the
// in-memory list of displayed results and the optional output file.
package sink

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fuzzai/fuzzai/pkg/defaults"
	"github.com/fuzzai/fuzzai/pkg/filter"
	"github.com/fuzzai/fuzzai/pkg/fuzz"
	"github.com/fuzzai/fuzzai/pkg/httpclient"
	"github.com/fuzzai/fuzzai/pkg/jsonutil"
	"github.com/fuzzai/fuzzai/pkg/metrics"
)

// ErrUnknownFormat is returned for an output format other than tsv or jsonl.
var ErrUnknownFormat = errors.New("sink: unknown output format")

var _ fuzz.Sink = (*Sink)(nil)

// Options configures a Sink.
type Options struct {
	// Path of the output file. Empty keeps results in memory only.
	Path string
	// Format is "tsv" (default) or "jsonl".
	Format string
	// SessionID is written into every JSONL record.
	SessionID string
	// Metrics, when set, observes every outcome.
	Metrics *metrics.Collector
}

// Sink is safe for concurrent use. The displayed counter, the result list
// and the output file are updated together under one lock, so the file and
// the list never disagree and lines never interleave.
type Sink struct {
	mu      sync.Mutex
	results []fuzz.Result
	out     *bufio.Writer
	file    io.Closer

	displayed atomic.Int64
	filtered  atomic.Int64
	errors    atomic.Int64

	format    string
	sessionID string
	metrics   *metrics.Collector
}

// New creates a sink, creating (truncating) the output file if a path is set.
func New(opts Options) (*Sink, error) {
	format, err := normalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	s := &Sink{format: format, sessionID: opts.SessionID, metrics: opts.Metrics}
	if opts.Path == "" {
		return s, nil
	}

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, defaults.DirPerm); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, defaults.FilePerm)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}
	s.out = bufio.NewWriter(f)
	s.file = f
	return s, nil
}

// NewWriter creates a sink writing to w. The caller owns w.
func NewWriter(w io.Writer, opts Options) (*Sink, error) {
	format, err := normalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	return &Sink{
		out:       bufio.NewWriter(w),
		format:    format,
		sessionID: opts.SessionID,
		metrics:   opts.Metrics,
	}, nil
}

func normalizeFormat(f string) (string, error) {
	switch strings.ToLower(f) {
	case "", defaults.OutputFormatTSV:
		return defaults.OutputFormatTSV, nil
	case defaults.OutputFormatJSONL, "json":
		return defaults.OutputFormatJSONL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Record counts r as displayed, appends it to the list and writes and
// flushes one line. The result is counted and kept even if the write fails.
func (s *Sink) Record(r *fuzz.Result) error {
	var line []byte
	var encErr error
	if s.out != nil {
		line, encErr = s.encode(r)
	}

	s.mu.Lock()
	s.displayed.Add(1)
	s.results = append(s.results, *r)
	var err error
	if s.out != nil {
		err = encErr
		if err == nil {
			if _, err = s.out.Write(line); err == nil {
				err = s.out.Flush()
			}
		}
	}
	s.mu.Unlock()

	s.metrics.ObserveResponse(metrics.OutcomeDisplayed, r.Response)
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// MarkFiltered counts a rejected response.
func (s *Sink) MarkFiltered(resp filter.Response) {
	s.filtered.Add(1)
	s.metrics.ObserveResponse(metrics.OutcomeFiltered, resp)
}

// MarkError counts a transport failure.
func (s *Sink) MarkError(err error) {
	s.errors.Add(1)
	s.metrics.ObserveError(string(httpclient.Classify(err)))
}

// Counts returns a snapshot of the counters.
func (s *Sink) Counts() fuzz.Counts {
	return fuzz.Counts{
		Displayed: s.displayed.Load(),
		Filtered:  s.filtered.Load(),
		Errors:    s.errors.Load(),
	}
}

// Results returns a copy of the displayed results in recording order.
func (s *Sink) Results() []fuzz.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]fuzz.Result, len(s.results))
	copy(out, s.results)
	return out
}

// Close flushes and closes the output file, if any.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if s.out != nil {
		err = s.out.Flush()
	}
	if s.file != nil {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
		s.file = nil
		s.out = nil
	}
	return err
}

// jsonRecord is the JSONL form of a result.
type jsonRecord struct {
	SessionID string    `json:"session_id,omitempty"`
	Word      string    `json:"word"`
	URL       string    `json:"url"`
	Status    int       `json:"status"`
	Size      int       `json:"size"`
	Words     int       `json:"words"`
	Lines     int       `json:"lines"`
	ElapsedMs int64     `json:"elapsed_ms"`
	BodyHash  uint32    `json:"body_hash"`
	Time      time.Time `json:"timestamp"`
}

func (s *Sink) encode(r *fuzz.Result) ([]byte, error) {
	resp := r.Response
	if s.format == defaults.OutputFormatTSV {
		return fmt.Appendf(nil, "%d\t%s\t%d\t%d\t%d\n", resp.StatusCode, r.URL, resp.Size, resp.Words, resp.Lines), nil
	}
	data, err := jsonutil.Marshal(jsonRecord{
		SessionID: s.sessionID,
		Word:      r.Word,
		URL:       r.URL,
		Status:    resp.StatusCode,
		Size:      resp.Size,
		Words:     resp.Words,
		Lines:     resp.Lines,
		ElapsedMs: resp.Elapsed.Milliseconds(),
		BodyHash:  resp.BodyHash,
		Time:      time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
