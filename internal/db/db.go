package db

import (
	"context"
	"strings"
	"time"
)

// Store is the Valkey/Redis facade combining all sub-interfaces. Milvus and
// Postgres have their own clients.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	HashStore
	KVStore
	IndexManager
	Searcher
	Keyspace(namespace string) Keyspace
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem holds a single key+fields pair for pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore writes and removes resume chunk hashes.
type HashStore interface {
	HSetMulti(ctx context.Context, items []HashSetItem) error
	Del(ctx context.Context, keys ...string) (int64, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// KVStore provides simple key-value operations (embedding cache).
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// IndexManager creates per-namespace FT indexes on first ingest.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher provides vector similarity search over FT indexes.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}

// Keyspace names everything one namespace owns in a shared instance:
// chunk hashes under <root><namespace>: and the FT index <root><namespace>:idx.
type Keyspace struct {
	prefix string
}

// NewKeyspace returns the keyspace of namespace under root.
func NewKeyspace(root, namespace string) Keyspace {
	return Keyspace{prefix: root + namespace + ":"}
}

// Index is the FT index name.
func (k Keyspace) Index() string { return k.prefix + "idx" }

// Prefix is the key prefix the index covers.
func (k Keyspace) Prefix() string { return k.prefix }

// Key returns the hash key of a chunk.
func (k Keyspace) Key(chunkID string) string { return k.prefix + chunkID }

// ChunkID strips the namespace prefix from a hash key.
func (k Keyspace) ChunkID(key string) string { return strings.TrimPrefix(key, k.prefix) }

// Match returns a SCAN pattern for keys starting with idPrefix. Glob
// metacharacters in idPrefix are escaped.
func (k Keyspace) Match(idPrefix string) string {
	return globEscaper.Replace(k.prefix) + globEscaper.Replace(idPrefix) + "*"
}

var globEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)
