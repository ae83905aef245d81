package milvus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
)

// Upsert writes chunks into the namespace collection, replacing rows with
// the same chunk id. The collection must already exist.
func (c *Client) Upsert(ctx context.Context, namespace string, chunks []candidate.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	name := c.CollectionName(namespace)
	ctx, span := tracer.Start(ctx, "milvus.Upsert",
		trace.WithAttributes(attribute.String("collection", name), attribute.Int("count", len(chunks))))
	defer span.End()

	cols, err := chunkColumns(chunks)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if _, err := c.milvus.Upsert(ctx, name, "", cols...); err != nil {
		span.RecordError(err)
		return &db.Error{Backend: db.BackendMilvus, Op: db.OpUpsert, Err: err}
	}
	return nil
}

func chunkColumns(chunks []candidate.Chunk) ([]entity.Column, error) {
	dim := len(chunks[0].Vector)
	ids := make([]string, len(chunks))
	candidates := make([]string, len(chunks))
	texts := make([]string, len(chunks))
	metas := make([][]byte, len(chunks))
	vectors := make([][]float32, len(chunks))

	for i, ch := range chunks {
		if len(ch.Vector) != dim {
			return nil, fmt.Errorf("chunk %s: vector dimension %d, want %d", ch.ID, len(ch.Vector), dim)
		}
		meta, err := json.Marshal(candidate.Typed(ch.Metadata))
		if err != nil {
			return nil, fmt.Errorf("chunk %s: encode metadata: %w", ch.ID, err)
		}
		ids[i] = ch.ID
		candidates[i] = ch.CandidateID
		texts[i] = ch.Text
		metas[i] = meta
		vectors[i] = ch.Vector
	}

	return []entity.Column{
		entity.NewColumnVarChar(FieldID, ids),
		entity.NewColumnVarChar(FieldCandidateID, candidates),
		entity.NewColumnVarChar(FieldContent, texts),
		entity.NewColumnJSONBytes(FieldMetadata, metas),
		entity.NewColumnFloatVector(FieldVector, dim, vectors),
	}, nil
}

// DeleteCandidate removes every chunk of a candidate and returns how many
// chunks matched. A missing collection deletes nothing.
func (c *Client) DeleteCandidate(ctx context.Context, namespace, candidateID string) (int, error) {
	name := c.CollectionName(namespace)
	ctx, span := tracer.Start(ctx, "milvus.DeleteCandidate",
		trace.WithAttributes(attribute.String("collection", name), attribute.String("candidate_id", candidateID)))
	defer span.End()

	has, err := c.milvus.HasCollection(ctx, name)
	if err != nil {
		span.RecordError(err)
		return 0, &db.Error{Backend: db.BackendMilvus, Op: db.OpDel, Err: err}
	}
	if !has {
		return 0, nil
	}

	expr := candidateExpr(candidateID)
	rs, err := c.milvus.Query(ctx, name, nil, expr, []string{FieldID})
	if err != nil {
		span.RecordError(err)
		return 0, &db.Error{Backend: db.BackendMilvus, Op: db.OpQuery, Err: err}
	}
	n := 0
	if col := rs.GetColumn(FieldID); col != nil {
		n = col.Len()
	}
	if n == 0 {
		return 0, nil
	}

	if err := c.milvus.Delete(ctx, name, "", expr); err != nil {
		span.RecordError(err)
		return 0, &db.Error{Backend: db.BackendMilvus, Op: db.OpDel, Err: err}
	}
	return n, nil
}

// DeleteStale removes chunks of a candidate whose ids are not in keep.
func (c *Client) DeleteStale(ctx context.Context, namespace, candidateID string, keep []string) error {
	name := c.CollectionName(namespace)
	ctx, span := tracer.Start(ctx, "milvus.DeleteStale",
		trace.WithAttributes(attribute.String("collection", name), attribute.String("candidate_id", candidateID)))
	defer span.End()

	if err := c.milvus.Delete(ctx, name, "", staleExpr(candidateID, keep)); err != nil {
		span.RecordError(err)
		return &db.Error{Backend: db.BackendMilvus, Op: db.OpDel, Err: err}
	}
	return nil
}
