package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-wide Prometheus metrics. Module-specific metrics
// live next to their module.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers all process-wide Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gatehouse_http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}

// ObserveRequest records one request's latency.
func (m *Metrics) ObserveRequest(method string, status int, d time.Duration) {
	m.RequestDuration.WithLabelValues(method, statusClass(status)).Observe(d.Seconds())
}

// statusClass collapses statuses to their class to bound label cardinality.
func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
