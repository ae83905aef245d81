package talentdex

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // valkey, redis, milvus or postgres
	addrs    []string
	password string

	milvusAddr     string
	milvusUser     string
	milvusPassword string
	postgresDSN    string

	embedder            Embedder
	queryInstruction    string
	documentInstruction string

	hnswM           int
	hnswEFConstruct int

	strictFields []string
	cutoff       *float64
	topK         int
	maxResults   int
	popupURL     string
	workers      int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to connect to a Valkey instance with
// the valkey-search module.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis 8+ instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithMilvus configures the client to store candidates in Milvus.
func WithMilvus(addr, username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "milvus"
		c.milvusAddr = addr
		c.milvusUser = username
		c.milvusPassword = password
	})
}

// WithPostgres configures the client to store candidates in Postgres with
// the pgvector extension.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "postgres"
		c.postgresDSN = dsn
	})
}

// WithEmbedder sets the text embedding provider. Required for search and ingestion.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithInstructions sets the prefixes instruction-tuned embedding models
// expect: query for search text, document for resume chunks. For example
// "query: " and "passage: " for E5 models.
func WithInstructions(query, document string) Option {
	return optionFunc(func(c *clientConfig) {
		c.queryInstruction = query
		c.documentInstruction = document
	})
}

// WithHNSW configures HNSW index parameters for Valkey/Redis.
// Defaults: M=16, EFConstruct=200.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithStrictFields sets the filter keys enforced at the index.
// Default: location and career_domain.
func WithStrictFields(keys ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.strictFields = keys
	})
}

// WithSimilarityCutoff sets the minimum similarity a chunk needs to be retrieved.
// Default: 0.7.
func WithSimilarityCutoff(cutoff float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.cutoff = &cutoff
	})
}

// WithTopK sets how many chunks each index call asks for. Default: 100.
func WithTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = k
	})
}

// WithMaxResults sets how many candidates a search returns when the
// builder sets no limit. Default: 20.
func WithMaxResults(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxResults = n
	})
}

// WithPopupURL enables resume links built from the given viewer base URL.
func WithPopupURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.popupURL = url
	})
}

// WithWorkers sets the ingestion worker pool size. Default: NumCPU/2.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
