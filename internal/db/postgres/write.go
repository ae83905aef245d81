package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
)

var upsertSQL = fmt.Sprintf(`INSERT INTO %s (namespace, id, candidate_id, content, metadata, embedding, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (namespace, id) DO UPDATE SET
	candidate_id = EXCLUDED.candidate_id,
	content = EXCLUDED.content,
	metadata = EXCLUDED.metadata,
	embedding = EXCLUDED.embedding,
	updated_at = now()`, TableName)

var deleteStaleSQL = fmt.Sprintf(`DELETE FROM %s WHERE namespace = $1 AND candidate_id = $2 AND NOT (id = ANY($3))`, TableName)

var deleteCandidateSQL = fmt.Sprintf(`DELETE FROM %s WHERE namespace = $1 AND candidate_id = $2`, TableName)

// Upsert writes the chunks of one candidate in one transaction and removes
// chunks left over from a longer previous version.
func (s *Store) Upsert(ctx context.Context, namespace string, chunks []candidate.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	ctx, span := tracer.Start(ctx, "postgres.Upsert",
		trace.WithAttributes(attribute.String("namespace", namespace), attribute.Int("count", len(chunks))))
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		return &db.Error{Backend: db.BackendPostgres, Op: db.OpUpsert, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		span.RecordError(err)
		return &db.Error{Backend: db.BackendPostgres, Op: db.OpUpsert, Err: err}
	}
	defer stmt.Close()

	for _, ch := range chunks {
		meta, err := json.Marshal(candidate.Typed(ch.Metadata))
		if err != nil {
			return fmt.Errorf("chunk %s: encode metadata: %w", ch.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			namespace, ch.ID, ch.CandidateID, ch.Text, meta, pgvector.NewVector(ch.Vector),
		); err != nil {
			span.RecordError(err)
			return &db.Error{Backend: db.BackendPostgres, Op: db.OpUpsert, Err: err}
		}
	}

	ids := make([]string, len(chunks))
	for i, ch := range chunks {
		ids[i] = ch.ID
	}
	if _, err := tx.ExecContext(ctx, deleteStaleSQL, namespace, chunks[0].CandidateID, pq.Array(ids)); err != nil {
		span.RecordError(err)
		return &db.Error{Backend: db.BackendPostgres, Op: db.OpDel, Err: err}
	}

	if err := tx.Commit(); err != nil {
		span.RecordError(err)
		return &db.Error{Backend: db.BackendPostgres, Op: db.OpUpsert, Err: err}
	}
	return nil
}

// DeleteCandidate removes every chunk of a candidate and returns how many
// rows were deleted.
func (s *Store) DeleteCandidate(ctx context.Context, namespace, candidateID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.DeleteCandidate",
		trace.WithAttributes(attribute.String("namespace", namespace), attribute.String("candidate_id", candidateID)))
	defer span.End()

	res, err := s.db.ExecContext(ctx, deleteCandidateSQL, namespace, candidateID)
	if err != nil {
		if isUndefinedTable(err) {
			return 0, nil
		}
		span.RecordError(err)
		return 0, &db.Error{Backend: db.BackendPostgres, Op: db.OpDel, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &db.Error{Backend: db.BackendPostgres, Op: db.OpDel, Err: err}
	}
	return n, nil
}
