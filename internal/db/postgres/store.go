// Package postgres implements the candidate chunk index on PostgreSQL with
// the pgvector extension.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"

	"github.com/kailas-cloud/talentdex/internal/db"
)

var tracer = otel.Tracer("postgres")

// Config holds connection pool settings.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store reads and writes candidate chunks in one table shared by every
// namespace.
type Store struct {
	db *sql.DB
}

// Open connects with lib/pq and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	sqlDB, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: sqlDB}, nil
}

// NewStore wraps an existing connection pool.
func NewStore(sqlDB *sql.DB) *Store {
	return &Store{db: sqlDB}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the pgvector extension, the chunk table and its
// indexes. The vector dimension is fixed at table creation.
func (s *Store) EnsureSchema(ctx context.Context, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("vector dimension must be positive")
	}
	ctx, span := tracer.Start(ctx, "postgres.EnsureSchema")
	defer span.End()

	for _, stmt := range schemaStatements(dim) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			span.RecordError(err)
			return &db.Error{Backend: db.BackendPostgres, Op: db.OpCreateIndex, Err: err}
		}
	}
	return nil
}

// TableName is the chunk table.
const TableName = "candidate_chunks"

func schemaStatements(dim int) []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	namespace    TEXT NOT NULL,
	id           TEXT NOT NULL,
	candidate_id TEXT NOT NULL,
	content      TEXT NOT NULL,
	metadata     JSONB NOT NULL DEFAULT '{}'::jsonb,
	embedding    vector(%d) NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (namespace, id)
)`, TableName, dim),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_candidate_idx ON %s (namespace, candidate_id)`, TableName, TableName),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_metadata_idx ON %s USING GIN (metadata)`, TableName, TableName),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING hnsw (embedding vector_cosine_ops)`, TableName, TableName),
	}
}

// undefinedTable is the SQLSTATE for a missing relation.
const undefinedTable = "42P01"

func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == undefinedTable
}
