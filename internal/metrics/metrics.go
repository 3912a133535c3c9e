// Package metrics exposes Prometheus collectors for the enrichment pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MetadataLookups counts lookups by mode (title, id, search) and outcome
	// (found, not_found, unavailable).
	MetadataLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "popcornpicks_metadata_lookups_total",
			Help: "Total metadata lookups by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	MetadataLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "popcornpicks_metadata_lookup_duration_seconds",
			Help:    "Latency of metadata lookups including retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"mode"},
	)

	MetadataRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "popcornpicks_metadata_retries_total",
			Help: "Lookup attempts repeated after an unavailable response",
		},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "popcornpicks_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "popcornpicks_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	RequestCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "popcornpicks_request_cache_hits_total",
			Help: "Lookups answered from the request-scoped cache",
		},
	)

	RequestCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "popcornpicks_request_cache_misses_total",
			Help: "Lookups that reached the metadata client",
		},
	)

	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "popcornpicks_recommendations_total",
			Help: "Recommendation computations by outcome",
		},
		[]string{"outcome"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "popcornpicks_recommendation_duration_seconds",
			Help:    "Wall time of one recommendation computation",
			Buckets: prometheus.DefBuckets,
		},
	)

	Searches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "popcornpicks_searches_total",
			Help: "Catalog searches by whether anything matched",
		},
		[]string{"result"},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "popcornpicks_catalog_movies",
			Help: "Movies in the active catalog snapshot",
		},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "popcornpicks_catalog_reloads_total",
			Help: "Catalog file reload attempts by status",
		},
		[]string{"status"},
	)
)

// RecordLookup records one finished lookup.
func RecordLookup(mode, outcome string, elapsed time.Duration) {
	MetadataLookups.WithLabelValues(mode, outcome).Inc()
	MetadataLookupDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// RecordRecommendation records one finished recommendation.
func RecordRecommendation(outcome string, elapsed time.Duration) {
	Recommendations.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(elapsed.Seconds())
}

// RecordSearch records one catalog search.
func RecordSearch(matches int) {
	result := "hit"
	if matches == 0 {
		result = "miss"
	}
	Searches.WithLabelValues(result).Inc()
}

// SetBreakerState publishes a breaker transition.
func SetBreakerState(name, from, to string, level float64) {
	CircuitBreakerState.WithLabelValues(name).Set(level)
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
