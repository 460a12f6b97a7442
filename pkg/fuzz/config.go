package fuzz

import (
	"time"

	"github.com/fuzzai/fuzzai/pkg/defaults"
	"github.com/fuzzai/fuzzai/pkg/duration"
	"github.com/fuzzai/fuzzai/pkg/httpclient"
)

// Config holds fuzzing configuration. It is fixed for the whole run.
type Config struct {
	// Target
	Template string // URL with the keyword
	Body     string // request body, may contain the keyword
	Keyword  string // placeholder token (default: FUZZ)

	// HTTP
	Method          string            // default: GET
	Headers         map[string]string // sent verbatim, no substitution
	FollowRedirects bool
	SkipVerify      bool   // skip TLS certificate verification
	Proxy           string // HTTP or SOCKS5 proxy URL

	// Execution
	Concurrency int           // number of workers (default: 10)
	Timeout     time.Duration // per request (default: 10s)
	Delay       time.Duration // pause after each item
}

// WithDefaults fills zero fields and clamps concurrency. It is the
// configuration a Pool actually runs with.
func (c Config) WithDefaults() Config {
	if c.Keyword == "" {
		c.Keyword = defaults.Placeholder
	}
	if c.Method == "" {
		c.Method = defaults.Method
	}
	if c.Concurrency <= 0 {
		c.Concurrency = defaults.Concurrency
	}
	if c.Concurrency > defaults.ConcurrencyMax {
		c.Concurrency = defaults.ConcurrencyMax
	}
	if c.Timeout <= 0 {
		c.Timeout = duration.Request
	}
	if c.Delay < 0 {
		c.Delay = 0
	}
	return c
}

// ClientConfig derives the transport settings shared by every request of
// the run.
func (c Config) ClientConfig() httpclient.Config {
	c = c.WithDefaults()
	return httpclient.Config{
		Timeout:            c.Timeout,
		InsecureSkipVerify: c.SkipVerify,
		FollowRedirects:    c.FollowRedirects,
		Proxy:              c.Proxy,
		MaxConnsPerHost:    c.Concurrency,
	}
}
