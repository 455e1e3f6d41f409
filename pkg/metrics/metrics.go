package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// Session metrics
	LoginAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webfleet_login_attempts_total",
			Help: "Total number of portal login attempts",
		},
	)

	SnapshotRefreshTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webfleet_snapshot_refresh_total",
			Help: "Total number of successful snapshot refreshes",
		},
	)

	SessionFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webfleet_session_failures_total",
			Help: "Supervisor session failures by class",
		},
		[]string{"class"},
	)

	// Snapshot metrics
	SnapshotVehicles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "webfleet_snapshot_vehicles",
			Help: "Number of vehicles in the latest snapshot",
		},
	)

	StreamClientsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "webfleet_stream_clients",
			Help: "Current number of connected position stream clients",
		},
	)
)

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordSessionFailure increments the failure counter for one failure class
func RecordSessionFailure(class string) {
	SessionFailuresTotal.WithLabelValues(class).Inc()
}
