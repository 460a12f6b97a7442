// Package httpclient builds the HTTP client used for fuzzing and probing and
// wraps it behind the Transport interface the dispatch engine consumes.
package httpclient

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/fuzzai/fuzzai/pkg/defaults"
	"github.com/fuzzai/fuzzai/pkg/duration"
)

// Config holds HTTP client configuration options. It is fixed once per
// session; every request made through the resulting client shares it.
type Config struct {
	// Timeout is the total per-request timeout (default: 10s)
	Timeout time.Duration

	// InsecureSkipVerify skips TLS certificate verification (default: false)
	InsecureSkipVerify bool

	// FollowRedirects follows up to defaults.MaxRedirects redirects.
	// When false the 3xx response itself is returned.
	FollowRedirects bool

	// Proxy is an HTTP, HTTPS, SOCKS5 or SOCKS5h proxy URL (optional)
	Proxy string

	// MaxConnsPerHost bounds concurrent connections to one host (default: 10)
	MaxConnsPerHost int

	// UserAgent is sent when the request does not set one
	// (default: defaults.UserAgent(""))
	UserAgent string

	// MaxBodySize caps how much of each response body is read
	// (default: defaults.BufferMax)
	MaxBodySize int64
}

// DefaultConfig returns defaults tuned for a single-target fuzzing session.
func DefaultConfig() Config {
	return Config{
		Timeout:         duration.Request,
		MaxConnsPerHost: defaults.Concurrency,
		UserAgent:       defaults.UserAgent(""),
		MaxBodySize:     defaults.BufferMax,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.MaxConnsPerHost <= 0 {
		c.MaxConnsPerHost = d.MaxConnsPerHost
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = d.MaxBodySize
	}
	return c
}

// New creates an *http.Client for cfg. A malformed or unsupported proxy URL
// is an error rather than being silently ignored.
func New(cfg Config) (*http.Client, error) {
	cfg = cfg.withDefaults()

	dialer := &net.Dialer{
		Timeout:   duration.DialTimeout,
		KeepAlive: duration.KeepAlive,
	}

	transport := &http.Transport{
		MaxIdleConns:          defaults.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       duration.IdleConnTimeout,
		TLSHandshakeTimeout:   duration.TLSHandshake,
		ExpectContinueTimeout: 1 * time.Second,
		DialContext:           dialer.DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // operator opt-in via -k
		},
	}

	proxyCfg, err := ParseProxyURL(cfg.Proxy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProxy, err)
	}
	if proxyCfg != nil {
		if proxyCfg.IsSOCKS {
			socks, err := CreateSOCKSDialer(proxyCfg, duration.DialTimeout)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidProxy, err)
			}
			transport.DialContext = socks.DialContext
		} else {
			transport.Proxy = http.ProxyURL(proxyCfg.URL)
		}
	}

	return &http.Client{
		Transport:     transport,
		Timeout:       cfg.Timeout,
		CheckRedirect: redirectPolicy(cfg.FollowRedirects),
	}, nil
}

// redirectPolicy returns the CheckRedirect function for the follow flag.
func redirectPolicy(follow bool) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if !follow || len(via) >= defaults.MaxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}
}
