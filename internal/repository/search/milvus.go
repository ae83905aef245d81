package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/db/milvus"
	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/search/hit"
)

type milvusSearcher interface {
	Search(ctx context.Context, p milvus.SearchParams) ([]milvus.Hit, error)
}

// MilvusRepo implements usecase/search.Index over per-namespace Milvus
// collections. Milvus has no similarity floor, so the cutoff is applied here.
type MilvusRepo struct {
	client milvusSearcher
}

// NewMilvus creates a Milvus-backed search repository.
func NewMilvus(c milvusSearcher) *MilvusRepo {
	return &MilvusRepo{client: c}
}

// Query performs a filtered KNN search on a namespace.
func (r *MilvusRepo) Query(ctx context.Context, q hit.Query) ([]hit.Document, error) {
	hits, err := r.client.Search(ctx, milvus.SearchParams{
		Namespace: q.Namespace,
		Vector:    q.Vector,
		Filter:    q.Predicate,
		TopK:      q.TopK,
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, fmt.Errorf("namespace %s: %w", q.Namespace, domain.ErrIndexUnavailable)
		}
		return nil, fmt.Errorf("milvus search %s: %w", q.Namespace, err)
	}

	docs := make([]hit.Document, 0, len(hits))
	for _, h := range hits {
		if h.Score < q.Cutoff {
			continue
		}
		docs = append(docs, hit.Document{
			CandidateID: h.CandidateID,
			ChunkID:     h.ID,
			Score:       h.Score,
			Metadata:    h.Metadata,
			Text:        h.Content,
		})
	}
	return docs, nil
}
