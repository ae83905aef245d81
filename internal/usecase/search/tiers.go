package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/search/hit"
	"github.com/kailas-cloud/talentdex/internal/domain/search/predicate"
	"github.com/kailas-cloud/talentdex/internal/logger"
	"github.com/kailas-cloud/talentdex/internal/metrics"
)

// Tier names reported to callers.
const (
	Tier1 = "Tier 1"
	Tier2 = "Tier 2"
	Tier3 = "Tier 3"
)

// tier is one rung of the fallback ladder.
type tier struct {
	name   string
	pred   *predicate.Predicate
	cutoff float64
	topK   int
}

// ladder returns the tiers in order of decreasing strictness.
func (s *Service) ladder(pred *predicate.Predicate) []tier {
	return []tier{
		{name: Tier1, pred: pred, cutoff: s.cfg.Cutoff, topK: s.cfg.TopK},
		{name: Tier2, cutoff: s.cfg.Cutoff, topK: s.cfg.TopK},
		{name: Tier3, cutoff: s.cfg.Tier3Cutoff, topK: s.cfg.Tier3TopK},
	}
}

type retrieval struct {
	tier      string
	docs      []hit.Document
	attempted int
}

// retrieve runs the tiers sequentially and stops at the first one that
// returns at least one document. Timeouts and unavailable indexes count
// as empty tiers; other index errors abort with ErrRetrievalFailed.
func (s *Service) retrieve(
	ctx context.Context, namespace string, vector []float32, tiers []tier,
) (retrieval, error) {
	log := logger.FromContext(ctx)
	var out retrieval

	for _, t := range tiers {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("before %s: %w", t.name, err)
		}
		out.attempted++

		docs, status, err := s.queryTier(ctx, namespace, vector, t)
		if err != nil {
			log.Error("Tier failed",
				zap.String("tier", t.name),
				zap.String("namespace", namespace),
				zap.Error(err),
			)
			return out, err
		}
		if len(docs) > 0 {
			out.tier = t.name
			out.docs = docs
			log.Info("Tier returned results",
				zap.String("tier", t.name),
				zap.Int("documents", len(docs)),
			)
			return out, nil
		}
		log.Info("Tier empty, relaxing",
			zap.String("tier", t.name),
			zap.String("status", status),
			zap.Stringer("predicate", t.pred),
		)
	}
	return out, nil
}

// queryTier performs one bounded index call and classifies its result.
func (s *Service) queryTier(
	ctx context.Context, namespace string, vector []float32, t tier,
) ([]hit.Document, string, error) {
	ctx, span := tracer.Start(ctx, "search.tier")
	defer span.End()
	span.SetAttributes(
		attribute.String("tier", t.name),
		attribute.Int("top_k", t.topK),
		attribute.Float64("cutoff", t.cutoff),
		attribute.Bool("predicate", !t.pred.IsEmpty()),
	)

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.IndexTimeout)
	defer cancel()

	start := time.Now()
	docs, err := s.index.Query(callCtx, hit.Query{
		Namespace: namespace,
		Vector:    vector,
		Predicate: t.pred,
		TopK:      t.topK,
		Cutoff:    t.cutoff,
	})
	status := classify(ctx, callCtx, docs, err)
	metrics.SearchTierDuration.WithLabelValues(t.name, status).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.String("status", status), attribute.Int("documents", len(docs)))

	switch status {
	case statusHit, statusEmpty:
		return docs, status, nil
	case statusTimeout, statusUnavailable:
		logger.FromContext(ctx).Warn("Tier counted as empty",
			zap.String("tier", t.name),
			zap.String("status", status),
			zap.Error(err),
		)
		return nil, status, nil
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "index query failed")
		if ctx.Err() != nil {
			return nil, status, fmt.Errorf("%s: %w", t.name, ctx.Err())
		}
		return nil, status, fmt.Errorf("%w: %s: %w", domain.ErrRetrievalFailed, t.name, err)
	}
}

const (
	statusHit         = "hit"
	statusEmpty       = "empty"
	statusTimeout     = "timeout"
	statusUnavailable = "unavailable"
	statusError       = "error"
)

func classify(parent, call context.Context, docs []hit.Document, err error) string {
	switch {
	case err == nil && len(docs) > 0:
		return statusHit
	case err == nil:
		return statusEmpty
	case errors.Is(err, domain.ErrIndexUnavailable):
		return statusUnavailable
	// only the per-call deadline counts as a timeout, not the caller's
	case parent.Err() == nil && (errors.Is(err, context.DeadlineExceeded) || call.Err() != nil):
		return statusTimeout
	default:
		return statusError
	}
}
