// Package metrics exposes fuzzing outcomes for Prometheus scraping.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fuzzai/fuzzai/pkg/filter"
)

// Outcome labels.
const (
	OutcomeDisplayed = "displayed"
	OutcomeFiltered  = "filtered"
	OutcomeError     = "error"
)

// Collector holds the run's metrics on a private registry. A nil
// *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	results      *prometheus.CounterVec
	statusCodes  *prometheus.CounterVec
	errors       *prometheus.CounterVec
	responseTime prometheus.Histogram
	responseSize prometheus.Histogram
}

// NewCollector creates and registers all metrics.
func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.results = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuzzai_results_total",
			Help: "Processed words by outcome",
		},
		[]string{"outcome"},
	)
	c.statusCodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuzzai_status_codes_total",
			Help: "HTTP responses by status code",
		},
		[]string{"code"},
	)
	c.errors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuzzai_errors_total",
			Help: "Transport failures by kind",
		},
		[]string{"kind"},
	)
	c.responseTime = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fuzzai_response_time_seconds",
		Help:    "Response time distribution in seconds",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
	})
	c.responseSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fuzzai_response_size_bytes",
		Help:    "Response body size distribution in bytes",
		Buckets: prometheus.ExponentialBuckets(64, 4, 8),
	})

	c.registry.MustRegister(c.results, c.statusCodes, c.errors, c.responseTime, c.responseSize)
	return c
}

// Registry returns the private registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveResponse records a displayed or filtered response.
func (c *Collector) ObserveResponse(outcome string, r filter.Response) {
	if c == nil {
		return
	}
	c.results.WithLabelValues(outcome).Inc()
	c.statusCodes.WithLabelValues(strconv.Itoa(r.StatusCode)).Inc()
	c.responseTime.Observe(r.Elapsed.Seconds())
	c.responseSize.Observe(float64(r.Size))
}

// ObserveError records a transport failure of the given kind.
func (c *Collector) ObserveError(kind string) {
	if c == nil {
		return
	}
	if kind == "" {
		kind = "other"
	}
	c.results.WithLabelValues(OutcomeError).Inc()
	c.errors.WithLabelValues(kind).Inc()
}
