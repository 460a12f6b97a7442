package httpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"
)

// Sentinel errors for transport failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrTimeout indicates the request did not complete within the timeout.
	ErrTimeout = errors.New("httpclient: request timed out")

	// ErrConnection indicates the connection was refused, reset or dropped.
	ErrConnection = errors.New("httpclient: connection failed")

	// ErrProxyConnect indicates the client failed to connect through
	// the configured proxy (SOCKS4/5, HTTP).
	ErrProxyConnect = errors.New("httpclient: proxy connection failed")

	// ErrDNS indicates a DNS resolution failure for the target host.
	ErrDNS = errors.New("httpclient: DNS resolution failed")

	// ErrTLS indicates a TLS handshake or certificate verification failure.
	ErrTLS = errors.New("httpclient: TLS handshake failed")

	// ErrInvalidRequest indicates the substituted URL or method could not
	// form a request.
	ErrInvalidRequest = errors.New("httpclient: invalid request")

	// ErrTransport covers any other transport-layer failure.
	ErrTransport = errors.New("httpclient: transport failure")

	// ErrInvalidProxy is returned by New for a malformed proxy URL.
	ErrInvalidProxy = errors.New("httpclient: invalid proxy")
)

// Kind classifies a transport failure.
type Kind string

const (
	KindTimeout    Kind = "timeout"
	KindConnection Kind = "connection"
	KindProxy      Kind = "proxy"
	KindDNS        Kind = "dns"
	KindTLS        Kind = "tls"
	KindRequest    Kind = "request"
	KindOther      Kind = "other"
)

var kindSentinels = map[Kind]error{
	KindTimeout:    ErrTimeout,
	KindConnection: ErrConnection,
	KindProxy:      ErrProxyConnect,
	KindDNS:        ErrDNS,
	KindTLS:        ErrTLS,
	KindRequest:    ErrInvalidRequest,
	KindOther:      ErrTransport,
}

// TransportError is returned by Transport.Perform when no HTTP response was
// obtained. It matches both its Kind sentinel and the underlying cause
// under errors.Is.
type TransportError struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *TransportError) Error() string {
	return "httpclient: " + string(e.Kind) + " error for " + e.URL + ": " + e.Err.Error()
}

// Unwrap exposes the kind sentinel and the cause.
func (e *TransportError) Unwrap() []error {
	return []error{kindSentinels[e.Kind], e.Err}
}

func newTransportError(rawURL string, err error) *TransportError {
	return &TransportError{Kind: Classify(err), URL: rawURL, Err: err}
}

// Classify maps an error from http.Client.Do (or a body read) to a Kind.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindDNS
	}

	var (
		certErr     *tls.CertificateVerificationError
		recordErr   tls.RecordHeaderError
		unknownAuth x509.UnknownAuthorityError
		hostErr     x509.HostnameError
		invalidErr  x509.CertificateInvalidError
	)
	if errors.As(err, &certErr) || errors.As(err, &recordErr) ||
		errors.As(err, &unknownAuth) || errors.As(err, &hostErr) || errors.As(err, &invalidErr) {
		return KindTLS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "proxyconnect" {
		return KindProxy
	}
	msg := err.Error()
	if strings.Contains(msg, "proxyconnect") || strings.Contains(msg, "socks connect") {
		return KindProxy
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || opErr != nil {
		return KindConnection
	}

	return KindOther
}
