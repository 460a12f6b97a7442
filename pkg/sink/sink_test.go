package sink

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuzzai/fuzzai/pkg/filter"
	"github.com/fuzzai/fuzzai/pkg/fuzz"
	"github.com/fuzzai/fuzzai/pkg/jsonutil"
	"github.com/fuzzai/fuzzai/pkg/metrics"
	"github.com/fuzzai/fuzzai/pkg/testutil"
)

func result(word string, status int) *fuzz.Result {
	return &fuzz.Result{
		Word: word,
		URL:  "https://example.com/" + word,
		Response: filter.Response{
			StatusCode: status,
			Size:       12,
			Words:      2,
			Lines:      1,
			Elapsed:    15 * time.Millisecond,
		},
	}
}

func TestRecord_TSVLine(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewWriter(&buf, Options{})
	require.NoError(t, err)

	require.NoError(t, s.Record(result("admin", 200)))
	assert.Equal(t, "200\thttps://example.com/admin\t12\t2\t1\n", buf.String())
	assert.Equal(t, int64(1), s.Counts().Displayed)
}

func TestRecord_JSONL(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewWriter(&buf, Options{Format: "jsonl", SessionID: "abc"})
	require.NoError(t, err)
	require.NoError(t, s.Record(result("admin", 301)))

	var rec struct {
		SessionID string `json:"session_id"`
		Word      string `json:"word"`
		Status    int    `json:"status"`
		ElapsedMs int64  `json:"elapsed_ms"`
	}
	require.NoError(t, jsonutil.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "abc", rec.SessionID)
	assert.Equal(t, "admin", rec.Word)
	assert.Equal(t, 301, rec.Status)
	assert.Equal(t, int64(15), rec.ElapsedMs)
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestNew_FileIsFlushedPerRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.txt")
	s, err := New(Options{Path: path})
	require.NoError(t, err)

	require.NoError(t, s.Record(result("a", 200)))
	// Visible before Close.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "200\thttps://example.com/a\t12\t2\t1\n", string(data))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestNew_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := New(Options{Path: filepath.Join(blocker, "results.txt")})
	assert.Error(t, err)
}

func TestCounts(t *testing.T) {
	s, err := New(Options{})
	require.NoError(t, err)

	require.NoError(t, s.Record(result("a", 200)))
	s.MarkFiltered(filter.Response{StatusCode: 404})
	s.MarkFiltered(filter.Response{StatusCode: 404})
	s.MarkError(errors.New("boom"))

	c := s.Counts()
	assert.Equal(t, fuzz.Counts{Displayed: 1, Filtered: 2, Errors: 1}, c)
	assert.Equal(t, int64(4), c.Processed())
	assert.Len(t, s.Results(), 1)
}

func TestResults_ReturnsCopy(t *testing.T) {
	s, err := New(Options{})
	require.NoError(t, err)
	require.NoError(t, s.Record(result("a", 200)))

	got := s.Results()
	got[0].Word = "changed"
	assert.Equal(t, "a", s.Results()[0].Word)
}

func TestMetricsObserved(t *testing.T) {
	c := metrics.NewCollector()
	s, err := New(Options{Metrics: c})
	require.NoError(t, err)

	require.NoError(t, s.Record(result("a", 200)))
	s.MarkFiltered(filter.Response{StatusCode: 404})
	s.MarkError(errors.New("boom"))

	count, err := promtest.GatherAndCount(c.Registry(), "fuzzai_results_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRecord_ConcurrentLinesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewWriter(&buf, Options{})
	require.NoError(t, err)

	const workers, each = 20, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				_ = s.Record(result(fmt.Sprintf("w%d-%d", w, i), 200))
				s.MarkFiltered(filter.Response{})
			}
		}(w)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, workers*each)
	for _, line := range lines {
		assert.Len(t, strings.Split(line, "\t"), 5)
	}
	assert.Len(t, s.Results(), workers*each)
	assert.Equal(t, int64(workers*each), s.Counts().Displayed)
	assert.Equal(t, int64(workers*each), s.Counts().Filtered)
}

func TestRecord_WriteFailureStillCounts(t *testing.T) {
	s, err := NewWriter(&testutil.FailingWriter{}, Options{})
	require.NoError(t, err)

	err = s.Record(result("admin", 200))
	assert.ErrorIs(t, err, testutil.ErrFault)
	assert.Equal(t, int64(1), s.Counts().Displayed)
	assert.Len(t, s.Results(), 1)
}
