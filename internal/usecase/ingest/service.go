package ingest

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
	domingest "github.com/kailas-cloud/talentdex/internal/domain/ingest"
	"github.com/kailas-cloud/talentdex/internal/domain/search/request"
	"github.com/kailas-cloud/talentdex/internal/logger"
	"github.com/kailas-cloud/talentdex/internal/metrics"
)

// MaxProfiles is the maximum number of profiles per ingest call.
const MaxProfiles = 100

// DefaultWorkers returns the pool size used when none is configured.
func DefaultWorkers() int {
	return max(1, runtime.NumCPU()/2)
}

// Service embeds candidate profiles and writes them to the namespace index.
type Service struct {
	repo  Repository
	embed Embedder
	pool  *ants.Pool
}

// New creates an ingest service backed by a pool of workers goroutines.
// Release must be called to stop the pool.
func New(repo Repository, embed Embedder, workers int) (*Service, error) {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create ingest pool: %w", err)
	}
	return &Service{repo: repo, embed: embed, pool: pool}, nil
}

// Release stops the worker pool.
func (s *Service) Release() {
	s.pool.Release()
}

// Ingest upserts profiles into the tenant namespace. Every profile gets its
// own result; one failing profile does not affect the others. The error is
// non-nil only when the call as a whole is rejected.
func (s *Service) Ingest(ctx context.Context, tenant string, profiles []candidate.Profile) ([]domingest.Result, error) {
	if err := request.ValidateTenant(tenant); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	if len(profiles) > MaxProfiles {
		return nil, fmt.Errorf("%w: too many profiles (max %d)", domain.ErrInvalidRequest, MaxProfiles)
	}

	ns := domain.Namespace(tenant)
	log := logger.FromContext(ctx).With(zap.String("tenant", tenant), zap.String("namespace", ns))

	results := make([]domingest.Result, len(profiles))
	tokens := make([]int, len(profiles))

	var wg sync.WaitGroup
	for i := range profiles {
		p := profiles[i]
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			results[i], tokens[i] = s.ingestOne(ctx, ns, p)
		})
		if err != nil {
			wg.Done()
			results[i] = domingest.NewError(p.ID(), fmt.Errorf("submit: %w", err))
		}
	}
	wg.Wait()

	usage := domain.UsageFromContext(ctx)
	for i, r := range results {
		usage.AddTokens(tokens[i])
		if r.Status() == domingest.StatusOK {
			metrics.IngestProfilesTotal.WithLabelValues(string(domingest.StatusOK)).Inc()
			continue
		}
		metrics.IngestProfilesTotal.WithLabelValues(string(domingest.StatusError)).Inc()
		log.Warn("Profile ingestion failed", zap.String("candidate_id", r.CandidateID()), zap.Error(r.Err()))
	}

	ok, failed := domingest.Summary(results)
	log.Info("Profiles ingested", zap.Int("ok", ok), zap.Int("failed", failed))
	return results, nil
}

func (s *Service) ingestOne(ctx context.Context, ns string, p candidate.Profile) (domingest.Result, int) {
	if err := ctx.Err(); err != nil {
		return domingest.NewError(p.ID(), err), 0
	}

	texts := p.Chunks()
	emb, err := domain.EmbedAll(ctx, s.embed, texts)
	if err != nil {
		return domingest.NewError(p.ID(), fmt.Errorf("vectorize chunks: %w", err)), 0
	}
	if len(emb.Embeddings) != len(texts) {
		return domingest.NewError(p.ID(), fmt.Errorf(
			"%w: got %d vectors for %d chunks", domain.ErrEmbeddingProviderError, len(emb.Embeddings), len(texts),
		)), emb.TotalTokens
	}

	chunks := make([]candidate.Chunk, len(texts))
	for i, vec := range emb.Embeddings {
		chunks[i] = p.Chunk(i, vec)
	}

	if err := s.repo.EnsureNamespace(ctx, ns, len(emb.Embeddings[0])); err != nil {
		return domingest.NewError(p.ID(), fmt.Errorf("ensure namespace: %w", err)), emb.TotalTokens
	}
	if err := s.repo.Upsert(ctx, ns, chunks); err != nil {
		return domingest.NewError(p.ID(), fmt.Errorf("upsert: %w", err)), emb.TotalTokens
	}
	return domingest.NewOK(p.ID(), len(chunks)), emb.TotalTokens
}

// Delete removes every chunk of a candidate from the tenant namespace and
// returns how many were removed. A candidate with no chunks yields
// domain.ErrNotFound.
func (s *Service) Delete(ctx context.Context, tenant, candidateID string) (int, error) {
	if err := request.ValidateTenant(tenant); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	if candidateID == "" {
		return 0, fmt.Errorf("%w: candidate id is required", domain.ErrInvalidRequest)
	}

	n, err := s.repo.DeleteCandidate(ctx, domain.Namespace(tenant), candidateID)
	if err != nil {
		return 0, fmt.Errorf("delete candidate: %w", err)
	}
	logger.FromContext(ctx).Info("Candidate deleted",
		zap.String("tenant", tenant),
		zap.String("candidate_id", candidateID),
		zap.Int("chunks", n),
	)
	return n, nil
}
