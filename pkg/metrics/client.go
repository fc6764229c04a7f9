package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics records outbound requests to the inventory backend.
type ClientMetrics struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewClientMetrics registers the backend client metrics on the provided registerer.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	if reg == nil {
		return &ClientMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "apiclient_request_duration_seconds",
		Help:    "Duration of requests to the inventory backend in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "resource"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "apiclient_request_failures_total",
		Help: "Backend requests that failed in transport or returned a non-2xx status.",
	}, []string{"method", "resource", "status"})
	reg.MustRegister(duration, failures)
	return &ClientMetrics{duration: duration, failures: failures}
}

// ObserveDuration records how long a request against resource took.
func (c *ClientMetrics) ObserveDuration(method, resource string, d time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(method), normalizeLabel(resource)).Observe(d.Seconds())
}

// IncFailure counts a failed request. A status of 0 is recorded as "transport".
func (c *ClientMetrics) IncFailure(method, resource string, status int) {
	if c == nil || c.failures == nil {
		return
	}
	label := "transport"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	c.failures.WithLabelValues(normalizeLabel(method), normalizeLabel(resource), label).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
