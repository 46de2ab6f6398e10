// Package metrics provides Prometheus metrics for the MediaWiki MCP server.
// It tracks tool calls, upstream wiki API calls and write operations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name
const (
	Namespace = "mediawiki_mcp"
)

var (
	// RequestsTotal counts MCP tool calls by tool name and outcome
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "requests_total",
		Help:      "Total number of MCP tool calls",
	}, []string{"tool", "status"})

	// RequestDuration measures tool call latency
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "request_duration_seconds",
		Help:      "Tool call latency distribution by tool",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"tool"})

	// RequestInFlight tracks currently executing tool calls
	RequestInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "requests_in_flight",
		Help:      "Number of tool calls currently being processed",
	}, []string{"tool"})

	// PanicsRecovered counts recovered panics
	PanicsRecovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "panics_recovered_total",
		Help:      "Number of panics recovered in tool handlers",
	}, []string{"tool"})

	// WikiAPILatency measures api.php latency by action and HTTP method
	WikiAPILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "wiki_api_latency_seconds",
		Help:      "Wiki API call latency by action and method",
		Buckets:   prometheus.DefBuckets,
	}, []string{"action", "method"})

	// WikiAPIRequestsTotal counts api.php requests
	WikiAPIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "wiki_api_requests_total",
		Help:      "Total wiki API requests by action, method and status",
	}, []string{"action", "method", "status"})

	// WikiAPIErrors counts failed api.php requests by error code
	WikiAPIErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "wiki_api_errors_total",
		Help:      "Wiki API errors by action and error code",
	}, []string{"action", "error_code"})

	// EditOperations counts write operations by type and outcome
	EditOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "edit_operations_total",
		Help:      "Write operations by type and status",
	}, []string{"operation", "status"})

	// TokenFailures counts failed CSRF token acquisitions
	TokenFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "csrf_token_failures_total",
		Help:      "CSRF token requests that failed or returned no token",
	})

	// ContentSize tracks page content sizes read or written
	ContentSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "content_size_bytes",
		Help:      "Content size distribution in bytes",
		Buckets:   []float64{100, 1000, 10000, 50000, 100000, 250000, 500000, 1000000},
	}, []string{"operation"})
)

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordRequest records a completed tool call with its duration and outcome
func RecordRequest(tool string, duration float64, success bool) {
	RequestsTotal.WithLabelValues(tool, status(success)).Inc()
	RequestDuration.WithLabelValues(tool).Observe(duration)
}

// RecordAPICall records one api.php round trip
func RecordAPICall(action, method string, duration float64, success bool, errorCode string) {
	WikiAPIRequestsTotal.WithLabelValues(action, method, status(success)).Inc()
	WikiAPILatency.WithLabelValues(action, method).Observe(duration)
	if errorCode != "" {
		WikiAPIErrors.WithLabelValues(action, errorCode).Inc()
	}
}

// RecordAPIError records an error object returned in a 2xx api.php response
func RecordAPIError(action, code string) {
	WikiAPIErrors.WithLabelValues(action, code).Inc()
}

// RecordMutation records the outcome of an edit or delete sequence
func RecordMutation(operation string, success bool) {
	EditOperations.WithLabelValues(operation, status(success)).Inc()
}

// ObserveContentSize records the size of page content for an operation
func ObserveContentSize(operation string, size int) {
	ContentSize.WithLabelValues(operation).Observe(float64(size))
}

// Handler returns the HTTP handler that serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
