package talentdex

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// clientMetrics are the client-side series. Searches are labelled by the
// tier that answered ("None" when nothing matched); ingestion counts
// profiles, not calls.
type clientMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	searches   *prometheus.CounterVec
	candidates prometheus.Histogram
	profiles   *prometheus.CounterVec
}

func newClientMetrics(reg prometheus.Registerer) (*clientMetrics, error) {
	m := &clientMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "talentdex",
			Subsystem: "client",
			Name:      "operations_total",
			Help:      "Client operations by type and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "talentdex",
			Subsystem: "client",
			Name:      "operation_duration_seconds",
			Help:      "Client operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "talentdex",
			Subsystem: "client",
			Name:      "searches_total",
			Help:      "Successful searches by answering tier.",
		}, []string{"tier"}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "talentdex",
			Subsystem: "client",
			Name:      "search_candidates",
			Help:      "Candidates returned per successful search.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		}),
		profiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "talentdex",
			Subsystem: "client",
			Name:      "ingested_profiles_total",
			Help:      "Profiles passed to Ingest by result.",
		}, []string{"result"}),
	}
	errs := []error{
		registerOrReuse(reg, &m.operations),
		registerOrReuse(reg, &m.duration),
		registerOrReuse(reg, &m.searches),
		registerOrReuse(reg, &m.candidates),
		registerOrReuse(reg, &m.profiles),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers *c, or points it at the collector already
// registered under the same descriptor.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("talentdex: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("talentdex: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer logs and counts client operations. A nil observer is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *clientMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *clientMetrics
	if reg != nil {
		var err error
		m, err = newClientMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

// outcome maps an operation error to a low-cardinality label.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrEmbeddingProviderError):
		return "embedding_error"
	case errors.Is(err, ErrRetrievalFailed):
		return "retrieval_error"
	default:
		return "error"
	}
}

func (o *observer) observe(op string, start time.Time, err error, attrs ...any) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, outcome(err)).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}
	if o.logger == nil {
		return
	}
	attrs = append([]any{"op", op, "duration", dur}, attrs...)
	if err != nil {
		o.logger.Warn("operation failed", append(attrs, "error", err)...)
		return
	}
	o.logger.Debug("operation completed", attrs...)
}

func (o *observer) observeSearch(start time.Time, res SearchResult, err error) {
	if o == nil {
		return
	}
	if err != nil {
		o.observe("search", start, err)
		return
	}
	if o.metrics != nil {
		o.metrics.searches.WithLabelValues(res.Tier).Inc()
		o.metrics.candidates.Observe(float64(len(res.Candidates)))
	}
	o.observe("search", start, nil,
		"search_id", res.SearchID,
		"tier", res.Tier,
		"tiers_attempted", res.TiersAttempted,
		"candidates", len(res.Candidates),
	)
}

func (o *observer) observeIngest(start time.Time, results []IngestResult, err error) {
	if o == nil {
		return
	}
	var ok, failed int
	for _, r := range results {
		if r.OK {
			ok++
		} else {
			failed++
		}
	}
	if o.metrics != nil {
		o.metrics.profiles.WithLabelValues("ok").Add(float64(ok))
		o.metrics.profiles.WithLabelValues("failed").Add(float64(failed))
	}
	o.observe("ingest", start, err, "profiles", len(results), "failed", failed)
}
