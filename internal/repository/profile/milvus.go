package profile

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
)

type milvusWriter interface {
	EnsureCollection(ctx context.Context, namespace string, dim int) error
	Upsert(ctx context.Context, namespace string, chunks []candidate.Chunk) error
	DeleteStale(ctx context.Context, namespace, candidateID string, keep []string) error
	DeleteCandidate(ctx context.Context, namespace, candidateID string) (int, error)
}

// MilvusRepo implements usecase/ingest.Repository over Milvus collections.
type MilvusRepo struct {
	client milvusWriter

	mu      sync.Mutex
	ensured map[string]bool
}

// NewMilvus creates a Milvus-backed profile repository.
func NewMilvus(c milvusWriter) *MilvusRepo {
	return &MilvusRepo{client: c, ensured: make(map[string]bool)}
}

// EnsureNamespace creates and loads the namespace collection on first use.
func (r *MilvusRepo) EnsureNamespace(ctx context.Context, namespace string, dim int) error {
	r.mu.Lock()
	done := r.ensured[namespace]
	r.mu.Unlock()
	if done {
		return nil
	}
	if err := r.client.EnsureCollection(ctx, namespace, dim); err != nil {
		return fmt.Errorf("ensure collection %s: %w", namespace, err)
	}
	r.mu.Lock()
	r.ensured[namespace] = true
	r.mu.Unlock()
	return nil
}

// Upsert writes the chunks of one candidate and drops stale ones.
func (r *MilvusRepo) Upsert(ctx context.Context, namespace string, chunks []candidate.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := r.client.Upsert(ctx, namespace, chunks); err != nil {
		return fmt.Errorf("upsert chunks of %s: %w", chunks[0].CandidateID, err)
	}
	keep := make([]string, len(chunks))
	for i, ch := range chunks {
		keep[i] = ch.ID
	}
	if err := r.client.DeleteStale(ctx, namespace, chunks[0].CandidateID, keep); err != nil {
		return fmt.Errorf("delete stale chunks of %s: %w", chunks[0].CandidateID, err)
	}
	return nil
}

// DeleteCandidate removes every chunk of a candidate.
func (r *MilvusRepo) DeleteCandidate(ctx context.Context, namespace, candidateID string) (int, error) {
	n, err := r.client.DeleteCandidate(ctx, namespace, candidateID)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", candidateID, err)
	}
	if n == 0 {
		return 0, domain.ErrNotFound
	}
	return n, nil
}
