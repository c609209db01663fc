// Package metrics provides the Prometheus collectors exported on /metrics.
//
// Inbound HTTP traffic:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// Calls to the consultation API:
//   - consultapi_request_total: Counter with operation and outcome labels
//   - consultapi_request_duration_seconds: Histogram with operation label
//
// All collectors are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Number of summary rate limiter buckets (clients seen recently)",
		},
	)

	UpstreamRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consultapi_request_total",
			Help: "Total requests sent to the consultation API",
		},
		[]string{"operation", "outcome"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "consultapi_request_duration_seconds",
			Help:    "Consultation API latency",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	PatientDirectoryLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patient_directory_lookups_total",
			Help: "Patient directory lookups by cache result",
		},
		[]string{"result"},
	)

	UpstreamHealthy = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "consultapi_up",
			Help: "1 when the last health probe of the consultation API succeeded",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(UpstreamRequestTotals)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(PatientDirectoryLookups)
	prometheus.MustRegister(UpstreamHealthy)
}
