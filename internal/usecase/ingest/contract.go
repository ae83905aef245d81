package ingest

import (
	"context"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
)

// Repository writes and removes candidate chunks in a namespace.
type Repository interface {
	EnsureNamespace(ctx context.Context, namespace string, dim int) error
	Upsert(ctx context.Context, namespace string, chunks []candidate.Chunk) error
	DeleteCandidate(ctx context.Context, namespace, candidateID string) (int, error)
}

// Embedder vectorizes profile chunks. Batching is used when supported.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
