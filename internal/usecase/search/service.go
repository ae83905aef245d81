package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
	"github.com/kailas-cloud/talentdex/internal/domain/search/filter"
	"github.com/kailas-cloud/talentdex/internal/domain/search/hit"
	"github.com/kailas-cloud/talentdex/internal/domain/search/predicate"
	"github.com/kailas-cloud/talentdex/internal/domain/search/request"
	"github.com/kailas-cloud/talentdex/internal/domain/search/result"
	"github.com/kailas-cloud/talentdex/internal/logger"
	"github.com/kailas-cloud/talentdex/internal/metrics"
)

var tracer = otel.Tracer("github.com/kailas-cloud/talentdex/internal/usecase/search")

// traceTop is how many ranked candidates get logged per search.
const traceTop = 5

// Service runs tiered candidate retrieval and soft-filter ranking.
type Service struct {
	index    Index
	embed    Embedder
	splitter filter.Splitter
	cfg      Config
}

// New creates a search service.
func New(index Index, embed Embedder, cfg Config) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		index:    index,
		embed:    embed,
		splitter: filter.NewSplitter(cfg.StrictKeys),
		cfg:      cfg,
	}
}

// Search splits the request filters, retrieves candidates through the
// tier ladder and ranks them by soft-filter score and similarity. An
// outcome with no matches is not an error.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Outcome, error) {
	searchID := uuid.NewString()
	ctx, log := logger.With(ctx,
		zap.String("search_id", searchID),
		zap.String("tenant", req.Tenant()),
	)

	ctx, span := tracer.Start(ctx, "search")
	defer span.End()
	span.SetAttributes(attribute.String("search_id", searchID), attribute.String("tenant", req.Tenant()))

	set := s.split(ctx, req.Filters())
	pred := s.buildPredicate(ctx, set.Strict())

	emb, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		return result.Outcome{}, fmt.Errorf("vectorize query: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(emb.TotalTokens)

	r, err := s.retrieve(ctx, domain.Namespace(req.Tenant()), emb.Embedding, s.ladder(pred))
	if err != nil {
		return result.Outcome{}, err
	}
	span.SetAttributes(attribute.Int("tiers_attempted", r.attempted))

	if len(r.docs) == 0 {
		metrics.SearchOutcomesTotal.WithLabelValues(result.NoneTier).Inc()
		log.Info("No results found", zap.Int("tiers_attempted", r.attempted))
		return result.Empty(searchID, r.attempted), nil
	}
	metrics.SearchOutcomesTotal.WithLabelValues(r.tier).Inc()

	soft := set.Soft()
	docs := merge(r.docs)
	matches := make([]result.Match, 0, len(docs))
	for _, d := range docs {
		sc := scoreSoft(d.Metadata, soft)
		metrics.SearchSoftScore.Observe(sc.score)
		matches = append(matches, s.toMatch(d, sc))
	}

	limit := req.Limit()
	if limit == 0 {
		limit = s.cfg.MaxResults
	}
	matches = rank(matches, limit)
	logTop(log, r.tier, matches)

	return result.Outcome{
		SearchID:  searchID,
		Matches:   matches,
		Tier:      r.tier,
		Attempted: r.attempted,
	}, nil
}

func (s *Service) split(ctx context.Context, raws []filter.Raw) filter.Set {
	set, drops := s.splitter.Split(raws)
	log := logger.FromContext(ctx)
	for _, d := range drops {
		metrics.SearchDroppedFiltersTotal.WithLabelValues(d.Reason).Inc()
		log.Warn("Filter dropped",
			zap.String("key", d.Key),
			zap.String("reason", d.Reason),
			zap.Error(d.Err),
		)
	}
	log.Debug("Filters split",
		zap.Int("strict", len(set.Strict())),
		zap.Int("soft", len(set.Soft())),
		zap.Int("dropped", len(drops)),
	)
	return set
}

func (s *Service) buildPredicate(ctx context.Context, strict []filter.Filter) *predicate.Predicate {
	pred, skipped := predicate.Build(strict)
	for _, sk := range skipped {
		metrics.SearchDroppedFiltersTotal.WithLabelValues("predicate_skipped").Inc()
		logger.FromContext(ctx).Warn("Strict filter skipped",
			zap.String("key", sk.Key),
			zap.String("reason", sk.Reason),
		)
	}
	return pred
}

func (s *Service) toMatch(d hit.Document, sc softScore) result.Match {
	m := d.Metadata
	title := metaString(m, candidate.LatestJobTitle)
	if title == "" {
		title = metaString(m, candidate.JobTitle)
	}
	return result.Match{
		CandidateID: d.CandidateID,
		Name:        metaString(m, candidate.Name),
		JobTitle:    title,
		Domain:      metaString(m, candidate.CareerDomain),
		Experience:  m[candidate.YearsExperience],
		Location:    metaStrings(m, candidate.Location),
		TechSkills:  metaStrings(m, candidate.TechSkills),
		LeadSkills:  metaStrings(m, candidate.LeadSkills),
		Education:   metaString(m, candidate.Education),
		Link:        resumeLink(s.cfg.PopupURL, d.CandidateID),
		Score:       sc.score,
		Matched:     round2(sc.matched),
		Required:    sc.total,
		Similarity:  d.Score,
		Snippet:     d.Text,
	}
}

// resumeLink builds "<popup_url>?ID=<id>".
func resumeLink(popupURL, id string) string {
	if popupURL == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(popupURL, "?") {
		sep = "&"
	}
	return popupURL + sep + "ID=" + url.QueryEscape(id)
}

func metaString(m map[string]any, key string) string {
	switch t := m[key].(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func metaStrings(m map[string]any, key string) []string {
	switch t := m[key].(type) {
	case nil:
		return []string{}
	case string:
		if t == "" {
			return []string{}
		}
		return []string{t}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(t)}
	}
}

func logTop(log *zap.Logger, tier string, matches []result.Match) {
	n := min(traceTop, len(matches))
	for i := range n {
		m := matches[i]
		log.Info("Ranked candidate",
			zap.String("tier", tier),
			zap.Int("rank", i+1),
			zap.String("candidate_id", m.CandidateID),
			zap.Float64("score", m.Score),
			zap.Float64("similarity", m.Similarity),
		)
	}
}
