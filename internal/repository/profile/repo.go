// Package profile stores candidate resume chunks in a Valkey/Redis hash
// index, one FT index per namespace.
package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
)

// store is the consumer interface for profile writes (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Del(ctx context.Context, keys ...string) (int64, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Keyspace(namespace string) db.Keyspace
}

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo implements usecase/ingest.Repository.
type Repo struct {
	store    store
	distance db.DistanceMetric
	hnsw     HNSWConfig

	mu      sync.Mutex
	ensured map[string]bool
}

// New creates a profile repository.
func New(s store) *Repo {
	return &Repo{
		store:    s,
		distance: db.DistanceCosine,
		hnsw:     HNSWConfig{M: 16, EFConstruct: 200},
		ensured:  make(map[string]bool),
	}
}

// WithHNSW configures HNSW index parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// EnsureNamespace creates the namespace index on first use.
func (r *Repo) EnsureNamespace(ctx context.Context, namespace string, dim int) error {
	r.mu.Lock()
	done := r.ensured[namespace]
	r.mu.Unlock()
	if done {
		return nil
	}

	ks := r.store.Keyspace(namespace)
	name := ks.Index()
	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	if !exists {
		def, err := buildIndex(ks, dim, r.distance, r.hnsw)
		if err != nil {
			return fmt.Errorf("build index %s: %w", name, err)
		}
		if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("create index %s: %w", name, err)
		}
	}

	r.mu.Lock()
	r.ensured[namespace] = true
	r.mu.Unlock()
	return nil
}

// Upsert writes every chunk of one candidate in a single pipeline and
// removes chunks left over from a longer previous version.
func (r *Repo) Upsert(ctx context.Context, namespace string, chunks []candidate.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	ks := r.store.Keyspace(namespace)
	items := make([]db.HashSetItem, len(chunks))
	keep := make(map[string]bool, len(chunks))
	for i := range chunks {
		key := ks.Key(chunks[i].ID)
		items[i] = db.HashSetItem{Key: key, Fields: buildHashFields(&chunks[i])}
		keep[key] = true
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset chunks of %s: %w", chunks[0].CandidateID, err)
	}

	existing, err := r.store.Scan(ctx, candidateMatch(ks, chunks[0].CandidateID))
	if err != nil {
		return fmt.Errorf("scan chunks of %s: %w", chunks[0].CandidateID, err)
	}
	var stale []string
	for _, k := range existing {
		if !keep[k] {
			stale = append(stale, k)
		}
	}
	if len(stale) > 0 {
		if _, err := r.store.Del(ctx, stale...); err != nil {
			return fmt.Errorf("del stale chunks of %s: %w", chunks[0].CandidateID, err)
		}
	}
	return nil
}

// DeleteCandidate removes every chunk of a candidate. It returns
// domain.ErrNotFound when the candidate has no chunks.
func (r *Repo) DeleteCandidate(ctx context.Context, namespace, candidateID string) (int, error) {
	keys, err := r.store.Scan(ctx, candidateMatch(r.store.Keyspace(namespace), candidateID))
	if err != nil {
		return 0, fmt.Errorf("scan chunks of %s: %w", candidateID, err)
	}
	if len(keys) == 0 {
		return 0, domain.ErrNotFound
	}

	n, err := r.store.Del(ctx, keys...)
	if err != nil {
		return 0, fmt.Errorf("del chunks of %s: %w", candidateID, err)
	}
	return int(n), nil
}

// candidateMatch matches every chunk key of one candidate.
func candidateMatch(ks db.Keyspace, candidateID string) string {
	return ks.Match(candidateID + "#")
}
