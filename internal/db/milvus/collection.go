package milvus

import (
	"context"
	"fmt"
	"strconv"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Collection field names.
const (
	FieldID          = "id"
	FieldCandidateID = "candidate_id"
	FieldContent     = "content"
	FieldMetadata    = "metadata"
	FieldVector      = "vector"
)

const (
	maxIDLength      = 256
	maxContentLength = 65535
)

// chunkSchema describes one collection per namespace.
func chunkSchema(name string, dim int) *entity.Schema {
	return &entity.Schema{
		CollectionName: name,
		Description:    "Candidate resume chunks",
		Fields: []*entity.Field{
			{
				Name:       FieldID,
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": strconv.Itoa(maxIDLength),
				},
			},
			{
				Name:     FieldCandidateID,
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": strconv.Itoa(maxIDLength),
				},
			},
			{
				Name:     FieldContent,
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": strconv.Itoa(maxContentLength),
				},
			},
			{
				Name:     FieldMetadata,
				DataType: entity.FieldTypeJSON,
			},
			{
				Name:     FieldVector,
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": strconv.Itoa(dim),
				},
			},
		},
	}
}

// EnsureCollection creates, indexes and loads the namespace collection if it
// does not exist yet.
func (c *Client) EnsureCollection(ctx context.Context, namespace string, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("vector dimension must be positive")
	}
	name := c.CollectionName(namespace)
	ctx, span := tracer.Start(ctx, "milvus.EnsureCollection",
		trace.WithAttributes(attribute.String("collection", name), attribute.Int("dim", dim)))
	defer span.End()

	has, err := c.milvus.HasCollection(ctx, name)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("check collection: %w", err)
	}
	if has {
		return nil
	}

	if err := c.milvus.CreateCollection(ctx, chunkSchema(name, dim), entity.DefaultShardNumber); err != nil {
		span.RecordError(err)
		return fmt.Errorf("create collection: %w", err)
	}

	idx, err := entity.NewIndexHNSW(entity.COSINE, c.config.HNSWM, c.config.HNSWEfConstruct)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("create index: %w", err)
	}
	if err := c.milvus.CreateIndex(ctx, name, FieldVector, idx, false); err != nil {
		span.RecordError(err)
		return fmt.Errorf("create index: %w", err)
	}

	if err := c.milvus.LoadCollection(ctx, name, false); err != nil {
		span.RecordError(err)
		return fmt.Errorf("load collection: %w", err)
	}
	return nil
}
