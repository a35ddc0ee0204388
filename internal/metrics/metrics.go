// Package metrics collects Prometheus metrics for outbound calls to the
// storefront REST API and for login attempts, and exposes them for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics surface used by the backend client and the auth
// plugin. Tests pass Nop instead of a registry-backed Collector.
type Recorder interface {
	RecordBackendStatus(statusCode int)
	RecordBackendFailure()
	RecordBackendLatency(duration time.Duration)
	RecordLogin(outcome string)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	backendStatus  *prometheus.CounterVec
	backendFailure prometheus.Counter
	backendLatency prometheus.Histogram
	logins         *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		backendStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_backend_responses_total",
			Help: "Responses received from the REST API by status code.",
		}, []string{"status_code"}),
		backendFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_backend_transport_failures_total",
			Help: "Calls to the REST API that failed before a response arrived.",
		}),
		backendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_backend_latency_seconds",
			Help:    "Latency of calls to the REST API.",
			Buckets: prometheus.DefBuckets,
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.backendStatus,
		c.backendFailure,
		c.backendLatency,
		c.logins,
	)

	return c
}

// RecordBackendStatus counts a response by status code.
func (c *Collector) RecordBackendStatus(statusCode int) {
	c.backendStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordBackendFailure counts a transport-level failure.
func (c *Collector) RecordBackendFailure() {
	c.backendFailure.Inc()
}

// RecordBackendLatency observes the duration of one call.
func (c *Collector) RecordBackendLatency(duration time.Duration) {
	c.backendLatency.Observe(duration.Seconds())
}

// RecordLogin counts a login attempt. outcome is "success" or a failure kind.
func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// Handler returns the HTTP handler serving the registry in Prometheus format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordBackendStatus(int)            {}
func (Nop) RecordBackendFailure()              {}
func (Nop) RecordBackendLatency(time.Duration) {}
func (Nop) RecordLogin(string)                 {}
