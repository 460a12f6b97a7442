package fuzz

import (
	"time"

	"github.com/fuzzai/fuzzai/pkg/filter"
)

// Result is one displayed substitution.
type Result struct {
	Word     string
	URL      string
	Response filter.Response
}

// ResultCallback is called for each displayed result.
type ResultCallback func(result *Result)

// Counts is a snapshot of outcome counters.
type Counts struct {
	Displayed int64
	Filtered  int64
	Errors    int64
}

// Processed is the number of words that reached an outcome.
func (c Counts) Processed() int64 {
	return c.Displayed + c.Filtered + c.Errors
}

// Sink receives the outcome of every processed word. Implementations must
// be safe for concurrent use by all workers.
type Sink interface {
	// Record counts a displayed result and persists it.
	Record(result *Result) error
	// MarkFiltered counts a response rejected by the filter spec.
	MarkFiltered(resp filter.Response)
	// MarkError counts a transport failure.
	MarkError(err error)
	// Counts returns a snapshot of the counters.
	Counts() Counts
}

// Stats holds execution statistics for one run.
type Stats struct {
	TotalWords  int64
	Displayed   int64
	Filtered    int64
	Errors      int64
	StartTime   time.Time
	EndTime     time.Time
	Interrupted bool
}

// Processed returns Displayed + Filtered + Errors.
func (s *Stats) Processed() int64 {
	return s.Displayed + s.Filtered + s.Errors
}

// Elapsed is the wall-clock duration of the run.
func (s *Stats) Elapsed() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// RequestsPerSec is the average throughput of the run.
func (s *Stats) RequestsPerSec() float64 {
	secs := s.Elapsed().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.Processed()) / secs
}
