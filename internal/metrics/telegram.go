package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		apiRequestsTotal,
		apiRetriesTotal,
		apiRequestDuration,
	)
}

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegram_requests_total",
			Help:      "Bot API calls by method and final outcome.",
		},
		[]string{"method", "outcome"},
	)

	apiRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegram_retries_total",
			Help:      "Bot API retry waits by method and reason.",
		},
		[]string{"method", "reason"},
	)

	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "telegram_request_duration_seconds",
			Help:      "Bot API call latency including retries.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

// Retry reasons.
const (
	RetryRateLimited = "rate_limited"
	RetryHTTPError   = "http_error"
	RetryNetwork     = "network"
)

// ObserveAPICall records one finished Bot API call. A zero status means no response.
func ObserveAPICall(method string, status int, d time.Duration) {
	outcome := "network_error"
	if status != 0 {
		outcome = strconv.Itoa(status)
	}
	apiRequestsTotal.WithLabelValues(method, outcome).Inc()
	apiRequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// IncRetry counts one retry wait.
func IncRetry(method, reason string) {
	apiRetriesTotal.WithLabelValues(method, reason).Inc()
}
