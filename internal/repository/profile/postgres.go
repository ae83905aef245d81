package profile

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
)

type postgresWriter interface {
	EnsureSchema(ctx context.Context, dim int) error
	Upsert(ctx context.Context, namespace string, chunks []candidate.Chunk) error
	DeleteCandidate(ctx context.Context, namespace, candidateID string) (int64, error)
}

// PostgresRepo implements usecase/ingest.Repository over the pgvector
// chunk table. Every namespace shares one table, so the schema is ensured
// once per process.
type PostgresRepo struct {
	store postgresWriter

	mu    sync.Mutex
	ready bool
}

// NewPostgres creates a Postgres-backed profile repository.
func NewPostgres(s postgresWriter) *PostgresRepo {
	return &PostgresRepo{store: s}
}

// EnsureNamespace creates the chunk table on first use.
func (r *PostgresRepo) EnsureNamespace(ctx context.Context, _ string, dim int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ready {
		return nil
	}
	if err := r.store.EnsureSchema(ctx, dim); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	r.ready = true
	return nil
}

// Upsert writes the chunks of one candidate.
func (r *PostgresRepo) Upsert(ctx context.Context, namespace string, chunks []candidate.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := r.store.Upsert(ctx, namespace, chunks); err != nil {
		return fmt.Errorf("upsert chunks of %s: %w", chunks[0].CandidateID, err)
	}
	return nil
}

// DeleteCandidate removes every chunk of a candidate.
func (r *PostgresRepo) DeleteCandidate(ctx context.Context, namespace, candidateID string) (int, error) {
	n, err := r.store.DeleteCandidate(ctx, namespace, candidateID)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", candidateID, err)
	}
	if n == 0 {
		return 0, domain.ErrNotFound
	}
	return int(n), nil
}
