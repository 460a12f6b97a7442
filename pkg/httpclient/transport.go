package httpclient

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fuzzai/fuzzai/pkg/defaults"
	"github.com/fuzzai/fuzzai/pkg/iohelper"
)

var tracer = otel.Tracer("github.com/fuzzai/fuzzai/pkg/httpclient")

// Request is one fully substituted HTTP request.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
}

// Response is the part of an HTTP response the engine inspects.
type Response struct {
	StatusCode  int
	Body        []byte
	ContentType string
	Truncated   bool
	Elapsed     time.Duration
}

// Transport performs a single request. Implementations must be safe for
// concurrent use.
type Transport interface {
	Perform(ctx context.Context, req *Request) (*Response, error)
}

// HTTPTransport is the net/http backed Transport.
type HTTPTransport struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewTransport builds an HTTPTransport from cfg.
func NewTransport(cfg Config) (*HTTPTransport, error) {
	cfg = cfg.withDefaults()
	client, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &HTTPTransport{client: client, userAgent: cfg.UserAgent, maxBody: cfg.MaxBodySize}, nil
}

// Client exposes the underlying *http.Client.
func (t *HTTPTransport) Client() *http.Client { return t.client }

// Perform sends req and reads the response body. Any failure to obtain a
// complete response is returned as a *TransportError.
func (t *HTTPTransport) Perform(ctx context.Context, r *Request) (*Response, error) {
	method := r.Method
	if method == "" {
		method = defaults.Method
	}

	ctx, span := tracer.Start(ctx, "http.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", r.URL),
		))
	defer span.End()

	var body io.Reader
	if r.Body != "" {
		body = strings.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if err != nil {
		terr := &TransportError{Kind: KindRequest, URL: r.URL, Err: err}
		span.SetStatus(codes.Error, terr.Error())
		return nil, terr
	}
	req.Header.Set("User-Agent", t.userAgent)
	for k, v := range r.Headers {
		if strings.EqualFold(k, "Host") {
			req.Host = v
			continue
		}
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		terr := newTransportError(r.URL, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(terr.Kind))
		return nil, terr
	}
	defer iohelper.DrainAndClose(resp.Body)

	data, truncated, err := iohelper.ReadBody(resp.Body, t.maxBody)
	elapsed := time.Since(start)
	if err != nil {
		terr := newTransportError(r.URL, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(terr.Kind))
		return nil, terr
	}

	span.SetAttributes(
		attribute.Int("http.response.status_code", resp.StatusCode),
		attribute.Int("http.response.body.size", len(data)),
	)
	return &Response{
		StatusCode:  resp.StatusCode,
		Body:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Truncated:   truncated,
		Elapsed:     elapsed,
	}, nil
}
