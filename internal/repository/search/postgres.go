package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/db/postgres"
	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/search/hit"
)

type postgresSearcher interface {
	Search(ctx context.Context, p postgres.SearchParams) ([]postgres.Hit, error)
}

// PostgresRepo implements usecase/search.Index over the pgvector chunk table.
// The cutoff is pushed down into SQL.
type PostgresRepo struct {
	store postgresSearcher
}

// NewPostgres creates a Postgres-backed search repository.
func NewPostgres(s postgresSearcher) *PostgresRepo {
	return &PostgresRepo{store: s}
}

// Query performs a filtered KNN search on a namespace.
func (r *PostgresRepo) Query(ctx context.Context, q hit.Query) ([]hit.Document, error) {
	hits, err := r.store.Search(ctx, postgres.SearchParams{
		Namespace: q.Namespace,
		Vector:    q.Vector,
		Filter:    q.Predicate,
		TopK:      q.TopK,
		Cutoff:    q.Cutoff,
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, fmt.Errorf("namespace %s: %w", q.Namespace, domain.ErrIndexUnavailable)
		}
		return nil, fmt.Errorf("postgres search %s: %w", q.Namespace, err)
	}

	docs := make([]hit.Document, 0, len(hits))
	for _, h := range hits {
		docs = append(docs, hit.Document{
			CandidateID: h.CandidateID,
			ChunkID:     h.ID,
			Score:       h.Similarity,
			Metadata:    h.Metadata,
			Text:        h.Content,
		})
	}
	return docs, nil
}
