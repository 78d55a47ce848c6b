// Package metrics defines stats-provider-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Provider counter vectors
var (
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_predictor",
		Name:      "provider_requests_total",
		Help:      "Total number of provider fetches by provider and status",
	}, []string{"provider", "status"})

	ProviderCacheEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_predictor",
		Name:      "provider_cache_events_total",
		Help:      "Total number of provider cache hits and misses",
	}, []string{"provider", "event"})

	ProviderRetriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_predictor",
		Name:      "provider_retries_total",
		Help:      "Total number of transient provider failures retried",
	}, []string{"provider"})
)

// RecordProviderRequest records a provider fetch.
// status should be one of: "success", "failure"
func RecordProviderRequest(provider, status string) {
	ProviderRequestsTotal.WithLabelValues(provider, status).Inc()
}

// RecordCacheEvent records a provider cache hit or miss.
// event should be one of: "hit", "miss"
func RecordCacheEvent(provider, event string) {
	ProviderCacheEventsTotal.WithLabelValues(provider, event).Inc()
}

// RecordProviderRetry records a retried transient provider failure.
func RecordProviderRetry(provider string) {
	ProviderRetriesTotal.WithLabelValues(provider).Inc()
}
