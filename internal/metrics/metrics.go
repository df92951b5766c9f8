package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TSSRequestsTotal tracks outbound Secret Server calls (token and resource).
	TSSRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tss_api_requests_total",
			Help: "Total number of Secret Server API requests made (by endpoint, method, and status).",
		},
		[]string{"endpoint", "method", "status"},
	)

	// TSSRequestDuration measures the duration of outbound Secret Server calls.
	TSSRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tss_api_request_duration_seconds",
			Help:    "Duration of Secret Server API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"endpoint", "method"},
	)

	// SecretFetchesTotal counts secret fetches by outcome ("ok" or "invalid").
	SecretFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tss_secret_fetches_total",
			Help: "Number of secret fetches by outcome.",
		},
		[]string{"outcome"},
	)

	// AttachmentsResolved counts file attachments inlined into secret items.
	AttachmentsResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tss_secret_attachments_resolved_total",
			Help: "Number of file attachments downloaded and substituted into secret items.",
		},
	)
)

// IncRequest increments the request counter. A status of 0 means the
// request never produced a response.
func IncRequest(endpoint, method string, status int) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	TSSRequestsTotal.WithLabelValues(endpoint, method, label).Inc()
}

// ObserveDuration records elapsed time since start into a HistogramVec or SummaryVec.
func ObserveDuration(v any, start time.Time, labels ...string) {
	duration := time.Since(start).Seconds()
	switch metric := v.(type) {
	case *prometheus.HistogramVec:
		metric.WithLabelValues(labels...).Observe(duration)
	case *prometheus.SummaryVec:
		metric.WithLabelValues(labels...).Observe(duration)
	}
}

// IncSecretFetch records the outcome of one secret fetch.
func IncSecretFetch(outcome string) {
	SecretFetchesTotal.WithLabelValues(outcome).Inc()
}
