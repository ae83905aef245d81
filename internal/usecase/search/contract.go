package search

import (
	"context"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/search/hit"
)

// Index is the similarity index the tiers query. Implementations return
// domain.ErrIndexUnavailable when the namespace has no index yet; any
// other error is treated as a hard retrieval failure.
type Index interface {
	Query(ctx context.Context, q hit.Query) ([]hit.Document, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
