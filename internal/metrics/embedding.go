package metrics

import "github.com/prometheus/client_golang/prometheus"

// Embedder roles. Search queries and resume chunks go through separate
// embedder chains with their own instruction prefix.
const (
	RoleQuery    = "query"
	RoleDocument = "document"
)

// Embedding Prometheus metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentdex",
			Name:      "embedding_requests_total",
			Help:      "Embeddings API calls by role and status",
		},
		[]string{"provider", "model", "role", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "talentdex",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embeddings API call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model", "role"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentdex",
			Name:      "embedding_tokens_total",
			Help:      "Embedding tokens consumed by role",
		},
		[]string{"provider", "model", "role", "type"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentdex",
			Name:      "embedding_errors_total",
			Help:      "Embedding errors by type",
		},
		[]string{"provider", "model", "role", "error_type"},
	)

	// Query calls carry one text; document calls carry every chunk of a profile.
	EmbeddingBatchSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "talentdex",
			Name:      "embedding_batch_size",
			Help:      "Texts per embeddings API call",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
		},
		[]string{"provider", "model", "role"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentdex",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache lookups by role",
		},
		[]string{"role", "result"}, // result: "hit" / "miss" / "shared"
	)
)

// EmbeddingCacheFor returns the cache counter of one role, leaving only
// the "result" label.
func EmbeddingCacheFor(role string) *prometheus.CounterVec {
	return EmbeddingCacheTotal.MustCurryWith(prometheus.Labels{"role": role})
}

var embMetricsRegistered bool

// RegisterEmbeddingMetrics registers Prometheus embedding metrics. Must be called once from main.
func RegisterEmbeddingMetrics() {
	if embMetricsRegistered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingTokensTotal)
	prometheus.MustRegister(EmbeddingErrorsTotal)
	prometheus.MustRegister(EmbeddingBatchSize)
	prometheus.MustRegister(EmbeddingCacheTotal)
	embMetricsRegistered = true
}
