package milvus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
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
}

// Hit is one chunk returned by Search. Score is cosine similarity.
type Hit struct {
	ID          string
	CandidateID string
	Content     string
	Metadata    map[string]any
	Score       float64
}

var outputFields = []string{FieldID, FieldCandidateID, FieldContent, FieldMetadata}

// Search runs a filtered HNSW search. A namespace without a collection
// yields db.ErrIndexNotFound.
func (c *Client) Search(ctx context.Context, p SearchParams) ([]Hit, error) {
	if len(p.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if p.TopK <= 0 {
		return nil, fmt.Errorf("top k must be positive")
	}

	name := c.CollectionName(p.Namespace)
	expr := buildExpr(p.Filter)
	ctx, span := tracer.Start(ctx, "milvus.Search",
		trace.WithAttributes(
			attribute.String("collection", name),
			attribute.String("expr", expr),
			attribute.Int("top_k", p.TopK),
		))
	defer span.End()

	has, err := c.milvus.HasCollection(ctx, name)
	if err != nil {
		span.RecordError(err)
		return nil, &db.Error{Backend: db.BackendMilvus, Op: db.OpSearch, Err: err}
	}
	if !has {
		return nil, db.ErrIndexNotFound
	}

	sp, err := entity.NewIndexHNSWSearchParam(c.config.SearchEf)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create search param: %w", err)
	}

	results, err := c.milvus.Search(ctx,
		name,
		nil,
		expr,
		outputFields,
		[]entity.Vector{entity.FloatVector(p.Vector)},
		FieldVector,
		entity.COSINE,
		p.TopK,
		sp,
	)
	if err != nil {
		span.RecordError(err)
		return nil, &db.Error{Backend: db.BackendMilvus, Op: db.OpSearch, Err: err}
	}

	var hits []Hit
	for _, result := range results {
		hits = append(hits, parseResult(result)...)
	}

	span.SetAttributes(attribute.Int("result_count", len(hits)))
	return hits, nil
}

func parseResult(result client.SearchResult) []Hit {
	hits := make([]Hit, 0, result.ResultCount)
	idCol, _ := result.Fields.GetColumn(FieldID).(*entity.ColumnVarChar)
	candCol, _ := result.Fields.GetColumn(FieldCandidateID).(*entity.ColumnVarChar)
	textCol, _ := result.Fields.GetColumn(FieldContent).(*entity.ColumnVarChar)
	metaCol, _ := result.Fields.GetColumn(FieldMetadata).(*entity.ColumnJSONBytes)

	for i := 0; i < result.ResultCount; i++ {
		h := Hit{}
		if i < len(result.Scores) {
			h.Score = float64(result.Scores[i])
		}
		if idCol != nil && i < idCol.Len() {
			h.ID = idCol.Data()[i]
		}
		if candCol != nil && i < candCol.Len() {
			h.CandidateID = candCol.Data()[i]
		}
		if textCol != nil && i < textCol.Len() {
			h.Content = textCol.Data()[i]
		}
		if metaCol != nil && i < metaCol.Len() {
			h.Metadata = decodeMetadata(metaCol.Data()[i])
		}
		hits = append(hits, h)
	}
	return hits
}

func decodeMetadata(raw []byte) map[string]any {
	m := map[string]any{}
	if len(raw) == 0 {
		return m
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{}
	}
	return m
}
