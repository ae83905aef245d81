package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain/search/predicate"
)

// SearchParams is one filtered KNN call against a namespace.
type SearchParams struct {
	Namespace string
	Vector    []float32
	Filter    *predicate.Predicate
	TopK      int
	Cutoff    float64
}

// Hit is one chunk returned by Search. Similarity is 1 - cosine distance.
type Hit struct {
	ID          string
	CandidateID string
	Content     string
	Metadata    map[string]any
	Similarity  float64
}

// buildSearch renders the similarity query. $1 is the query vector.
func buildSearch(p SearchParams) (string, []any) {
	w := newWhereBuilder(pgvector.NewVector(p.Vector))
	w.add("namespace = " + w.bind(p.Namespace))
	w.predicate(p.Filter)
	w.add(fmt.Sprintf("1 - (embedding <=> $1) >= %s", w.bind(p.Cutoff)))
	limit := w.bind(p.TopK)

	query := fmt.Sprintf(`SELECT id, candidate_id, content, metadata, 1 - (embedding <=> $1) AS similarity
FROM %s
WHERE %s
ORDER BY embedding <=> $1
LIMIT %s`, TableName, w.sql(), limit)
	return query, w.args
}

// Search runs a filtered cosine similarity search. A missing table yields
// db.ErrIndexNotFound.
func (s *Store) Search(ctx context.Context, p SearchParams) ([]Hit, error) {
	if len(p.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if p.TopK <= 0 {
		return nil, fmt.Errorf("top k must be positive")
	}

	ctx, span := tracer.Start(ctx, "postgres.Search",
		trace.WithAttributes(
			attribute.String("namespace", p.Namespace),
			attribute.Int("top_k", p.TopK),
		))
	defer span.End()

	query, args := buildSearch(p)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		if isUndefinedTable(err) {
			return nil, db.ErrIndexNotFound
		}
		span.RecordError(err)
		return nil, &db.Error{Backend: db.BackendPostgres, Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var (
			h    Hit
			meta []byte
		)
		if err := rows.Scan(&h.ID, &h.CandidateID, &h.Content, &meta, &h.Similarity); err != nil {
			return nil, &db.Error{Backend: db.BackendPostgres, Op: db.OpQuery, Err: err}
		}
		h.Metadata = map[string]any{}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &h.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata of %s: %w", h.ID, err)
			}
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Backend: db.BackendPostgres, Op: db.OpQuery, Err: err}
	}

	span.SetAttributes(attribute.Int("result_count", len(hits)))
	return hits, nil
}
