package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentdex",
			Name:      "search_outcomes_total",
			Help:      "Search requests by the tier that produced results (None when all tiers were empty)",
		},
		[]string{"tier"},
	)

	SearchTierDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "talentdex",
			Name:      "search_tier_duration_seconds",
			Help:      "Similarity index call duration per tier",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"tier", "status"}, // status: "hit" / "empty" / "timeout" / "unavailable" / "error"
	)

	SearchDroppedFiltersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentdex",
			Name:      "search_dropped_filters_total",
			Help:      "Filters dropped before retrieval",
		},
		[]string{"reason"},
	)

	SearchSoftScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "talentdex",
			Name:      "search_soft_score",
			Help:      "Soft-filter match score of returned candidates",
			Buckets:   []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1},
		},
	)

	IngestProfilesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentdex",
			Name:      "ingest_profiles_total",
			Help:      "Candidate profiles processed by ingestion",
		},
		[]string{"status"}, // "ok" / "error"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search and ingest metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchOutcomesTotal)
	prometheus.MustRegister(SearchTierDuration)
	prometheus.MustRegister(SearchDroppedFiltersTotal)
	prometheus.MustRegister(SearchSoftScore)
	prometheus.MustRegister(IngestProfilesTotal)
	searchMetricsRegistered = true
}
