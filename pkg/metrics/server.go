package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/fuzzai/fuzzai/pkg/duration"
)

// Server serves a Collector at /metrics until Close is called.
type Server struct {
	server   *http.Server
	listener net.Listener
}

// Serve starts the metrics server on addr (host:port, port 0 picks a free one).
func Serve(addr string, c *Collector, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start metrics server: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	s := &Server{
		listener: ln,
		server: &http.Server{
			Handler:      mux,
			ReadTimeout:  duration.MetricsRead,
			WriteTimeout: duration.MetricsWrite,
		},
	}
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()
	logger.Debug("metrics server listening", "addr", s.URL())
	return s, nil
}

// URL returns the scrape URL.
func (s *Server) URL() string {
	return "http://" + s.listener.Addr().String() + "/metrics"
}

// Close shuts the server down.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), duration.MetricsRead)
	defer cancel()
	return s.server.Shutdown(ctx)
}
