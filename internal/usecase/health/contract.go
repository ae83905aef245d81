package health

import "context"

// DBPinger reaches the similarity index backend (Valkey, Redis, Milvus or Postgres).
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker reaches the embedding provider. A failure degrades
// search but does not take the service down.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
