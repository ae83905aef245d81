// Package app is the composition root shared by the API server and the CLI:
// it opens the backend, assembles the embedder chain and the services.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/backend"
	"github.com/kailas-cloud/talentdex/internal/config"
	"github.com/kailas-cloud/talentdex/internal/db"
	dbMilvus "github.com/kailas-cloud/talentdex/internal/db/milvus"
	dbPostgres "github.com/kailas-cloud/talentdex/internal/db/postgres"
	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/metrics"
	"github.com/kailas-cloud/talentdex/internal/repository/embcache"
	profilerepo "github.com/kailas-cloud/talentdex/internal/repository/profile"
	openaiEmb "github.com/kailas-cloud/talentdex/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/talentdex/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/talentdex/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/talentdex/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/talentdex/internal/usecase/search"
)

// App holds the wired services.
type App struct {
	Backend *backend.Backend
	Search  *searchuc.Service
	Ingest  *ingestuc.Service
	Health  *healthuc.Service
}

// Build opens the configured backend and wires every service on top of it.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	provName, vecCfg, provCfg, ok := cfg.Vectorizer()
	if !ok {
		return nil, errors.New("no vectorizer configured")
	}

	b, err := backend.Open(ctx, BackendConfig(cfg))
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to database", zap.String("driver", b.Driver))

	// The cache needs the key-value store, which only Valkey/Redis provide.
	var cache db.KVStore
	if cfg.Cache.Enabled {
		cache = b.KV
	}
	cacheTTL := time.Duration(cfg.Cache.TTLSec) * time.Second

	docEmbedder := BuildEmbedder(provName, provCfg, vecCfg, metrics.RoleDocument, vecCfg.DocumentInstruction, cache, cacheTTL, logger)
	queryEmbedder := BuildEmbedder(provName, provCfg, vecCfg, metrics.RoleQuery, vecCfg.QueryInstruction, cache, cacheTTL, logger)
	logger.Info("Embedders created",
		zap.String("provider", provName),
		zap.String("model", vecCfg.Model),
		zap.Int("dimensions", vecCfg.Dimensions),
		zap.Bool("cache", cache != nil),
	)

	ingestSvc, err := ingestuc.New(b.Profiles, docEmbedder, cfg.Ingest.Workers)
	if err != nil {
		b.Close()
		return nil, err
	}

	return &App{
		Backend: b,
		Search:  searchuc.New(b.Index, queryEmbedder, SearchConfig(cfg)),
		Ingest:  ingestSvc,
		Health:  healthuc.New(b.Driver, b.Pinger, newEmbeddingHealthChecker(docEmbedder)),
	}, nil
}

// Close stops the ingest pool and releases the backend.
func (a *App) Close() {
	a.Ingest.Release()
	a.Backend.Close()
}

// BackendConfig maps the database section onto a backend configuration.
func BackendConfig(cfg *config.Config) backend.Config {
	d := cfg.Database
	return backend.Config{
		Driver:           d.Driver,
		Addrs:            d.Addrs,
		Password:         d.Password,
		ReadinessTimeout: time.Duration(d.ReadinessTimeout) * time.Second,
		HNSW:             profilerepo.HNSWConfig{M: d.HNSWM, EFConstruct: d.HNSWEFConstruct},
		Milvus: dbMilvus.Config{
			Address:          d.Milvus.Address,
			Username:         d.Milvus.Username,
			Password:         d.Milvus.Password,
			CollectionPrefix: d.Milvus.CollectionPrefix,
			HNSWM:            d.HNSWM,
			HNSWEfConstruct:  d.HNSWEFConstruct,
			SearchEf:         d.Milvus.SearchEf,
		},
		Postgres: dbPostgres.Config{
			DSN:             d.Postgres.DSN,
			MaxOpenConns:    d.Postgres.MaxOpenConns,
			MaxIdleConns:    d.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(d.Postgres.ConnMaxLifetime) * time.Second,
		},
	}
}

// SearchConfig maps the search and resume sections onto the search service
// configuration. Config.ApplyDefaults has already resolved the tier 3 fallbacks.
func SearchConfig(cfg *config.Config) searchuc.Config {
	s := cfg.Search
	sc := searchuc.Config{
		StrictKeys:   s.StrictFields,
		TopK:         s.TopK,
		Tier3TopK:    s.Tier3.TopK,
		MaxResults:   s.MaxResults,
		IndexTimeout: time.Duration(s.IndexTimeoutMS) * time.Millisecond,
		PopupURL:     cfg.Resume.PopupURL,
		Cutoff:       searchuc.DefaultCutoff,
		Tier3Cutoff:  searchuc.DefaultCutoff,
	}
	if s.SimilarityCutoff != nil {
		sc.Cutoff = *s.SimilarityCutoff
		sc.Tier3Cutoff = *s.SimilarityCutoff
	}
	if s.Tier3.SimilarityCutoff != nil {
		sc.Tier3Cutoff = *s.Tier3.SimilarityCutoff
	}
	return sc
}

// BuildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction.
// role separates query and document series in the embedding metrics. A nil
// cache skips the caching layer.
func BuildEmbedder(
	provName string,
	provCfg config.ProviderConfig,
	vecCfg config.VectorizerConfig,
	role string,
	instruction string,
	cache db.KVStore,
	cacheTTL time.Duration,
	logger *zap.Logger,
) domain.Embedder {
	// Base provider (with transport metrics built-in)
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     provCfg.APIKey,
		BaseURL:    provCfg.BaseURL,
		Model:      vecCfg.Model,
		Dimensions: vecCfg.Dimensions,
		Provider:   provName,
		Role:       role,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cache != nil {
		embedder = embcache.New(base, cache, cacheTTL, metrics.EmbeddingCacheFor(role), logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(
		embedder, provName, vecCfg.Model, vecCfg.Dimensions, logger,
	)

	// Instruction prefix (outermost, so the cache key includes the instruction)
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}
	return embedder
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}
