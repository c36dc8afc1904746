package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SteamRequestsTotal tracks the number of outbound calls to the Steam Web API.
	SteamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steam_api_requests_total",
			Help: "Total number of Steam Web API requests made (by endpoint and status).",
		},
		[]string{"endpoint", "status"},
	)

	// SteamRequestDuration measures the duration of outbound Steam Web API calls.
	SteamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "steam_api_request_duration_seconds",
			Help:    "Duration of Steam Web API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms → ~10s
		},
		[]string{"endpoint"},
	)

	// RelayFaults counts faults returned to callers, by kind.
	RelayFaults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_faults_total",
			Help: "Number of achievement lookups that ended in a fault, by kind.",
		},
		[]string{"kind"},
	)
)

// IncSteamRequest increments the Steam API request counter.
// status is the HTTP status code as text, or "error" for transport failures.
func IncSteamRequest(endpoint, status string) {
	SteamRequestsTotal.WithLabelValues(endpoint, status).Inc()
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

// IncFault increments the fault counter for the given kind.
func IncFault(kind string) {
	RelayFaults.WithLabelValues(kind).Inc()
}
