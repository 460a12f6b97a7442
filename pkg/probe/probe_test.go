package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuzzai/fuzzai/pkg/httpclient"
)

func TestDetectMode(t *testing.T) {
	tests := []struct {
		template string
		want     Mode
	}{
		{"https://FUZZ.example.com/", ModeSubdomain},
		{"http://www.FUZZ.example.com/", ModeSubdomain},
		{"https://example.com/FUZZ", ModePath},
		{"https://example.com/?q=FUZZ", ModePath},
		{"https://api-FUZZ.example.com/", ModePath},
		{"https://example.com/", ModePath},
	}
	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMode(tt.template, "FUZZ"))
		})
	}
}

func TestCandidates(t *testing.T) {
	mode, urls := Candidates("https://FUZZ.example.com/", "FUZZ")
	assert.Equal(t, ModeSubdomain, mode)
	assert.Equal(t, []string{"https://example.com/"}, urls)

	mode, urls = Candidates("https://example.com/FUZZ", "FUZZ")
	assert.Equal(t, ModePath, mode)
	assert.Equal(t, []string{
		"https://example.com/test",
		"https://example.com/123",
		"https://example.com/admin",
	}, urls)

	mode, urls = Candidates("https://FUZZ.example.com/FUZZ", "FUZZ")
	assert.Equal(t, ModeSubdomain, mode)
	assert.Equal(t, []string{"https://example.com/"}, urls)

	_, urls = Candidates("https://www.FUZZ.example.com/api?q=FUZZ", "FUZZ")
	assert.Equal(t, []string{"https://www.example.com/api?q="}, urls)

	_, urls = Candidates("https://example.com/", "FUZZ")
	assert.Equal(t, []string{"https://example.com/"}, urls)
}

type scriptedTransport struct {
	mu      sync.Mutex
	calls   []*httpclient.Request
	answers map[string]int
}

func (s *scriptedTransport) Perform(_ context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()
	if code, ok := s.answers[req.URL]; ok {
		return &httpclient.Response{StatusCode: code}, nil
	}
	return nil, &httpclient.TransportError{Kind: httpclient.KindConnection, URL: req.URL, Err: errors.New("refused")}
}

func TestProbe_StopsAtFirstResponse(t *testing.T) {
	tr := &scriptedTransport{answers: map[string]int{"http://t/123": 404}}
	res := New(tr, "", 0, nil).Probe(context.Background(), "http://t/FUZZ")

	assert.True(t, res.Reachable)
	assert.True(t, res.Verified)
	assert.Equal(t, "http://t/123", res.Via)
	assert.Equal(t, 404, res.Status)
	assert.Equal(t, 2, res.Attempts)
	require.Len(t, tr.calls, 2)
	assert.Equal(t, http.MethodHead, tr.calls[0].Method)
}

func TestProbe_LenientWhenAllFail(t *testing.T) {
	tr := &scriptedTransport{}
	res := New(tr, "FUZZ", time.Second, nil).Probe(context.Background(), "http://t/FUZZ")

	assert.True(t, res.Reachable)
	assert.False(t, res.Verified)
	assert.Equal(t, 3, res.Attempts)
	assert.Empty(t, res.Via)
}

func TestProbe_SubdomainSingleRequest(t *testing.T) {
	tr := &scriptedTransport{}
	res := New(tr, "FUZZ", time.Second, nil).Probe(context.Background(), "https://FUZZ.example.com/")

	assert.Equal(t, ModeSubdomain, res.Mode)
	assert.Equal(t, 1, res.Attempts)
	require.Len(t, tr.calls, 1)
	assert.Equal(t, "https://example.com/", tr.calls[0].URL)
}

func TestProbe_RealServer(t *testing.T) {
	var mu sync.Mutex
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		methods = append(methods, r.Method)
		mu.Unlock()
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	tr, err := httpclient.NewTransport(httpclient.Config{})
	require.NoError(t, err)
	res := New(tr, "FUZZ", time.Second, nil).Probe(context.Background(), srv.URL+"/FUZZ")

	assert.True(t, res.Verified)
	assert.Equal(t, srv.URL+"/test", res.Via)
	assert.Equal(t, []string{http.MethodHead}, methods)
}

func TestProbe_AttemptTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	tr, err := httpclient.NewTransport(httpclient.Config{})
	require.NoError(t, err)

	start := time.Now()
	res := New(tr, "FUZZ", 50*time.Millisecond, nil).Probe(context.Background(), srv.URL+"/FUZZ")
	assert.False(t, res.Verified)
	assert.True(t, res.Reachable)
	assert.Less(t, time.Since(start), 1500*time.Millisecond)
}
