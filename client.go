package talentdex

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/talentdex/internal/backend"
	dbMilvus "github.com/kailas-cloud/talentdex/internal/db/milvus"
	dbPostgres "github.com/kailas-cloud/talentdex/internal/db/postgres"
	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
	domingest "github.com/kailas-cloud/talentdex/internal/domain/ingest"
	"github.com/kailas-cloud/talentdex/internal/domain/search/request"
	"github.com/kailas-cloud/talentdex/internal/domain/search/result"
	profilerepo "github.com/kailas-cloud/talentdex/internal/repository/profile"
	healthuc "github.com/kailas-cloud/talentdex/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/talentdex/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/talentdex/internal/usecase/search"
)

// Internal interfaces, swapped for fakes in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (result.Outcome, error)
}

type ingestUseCase interface {
	Ingest(ctx context.Context, tenant string, profiles []candidate.Profile) ([]domingest.Result, error)
	Delete(ctx context.Context, tenant, candidateID string) (int, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the talentdex entry point.
type Client struct {
	closeFn   func()
	searchSvc searchUseCase
	ingestSvc ingestUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the configured backend.
// The provided context bounds the initial connection.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	bcfg, err := backendConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err := candidate.ValidateStrictKeys(cfg.strictFields); err != nil {
		return nil, fmt.Errorf("talentdex: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	b, err := backend.Open(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("talentdex: %w", err)
	}

	c, err := wireClient(b, cfg, obs)
	if err != nil {
		b.Close()
		return nil, err
	}
	return c, nil
}

func backendConfig(cfg *clientConfig) (backend.Config, error) {
	switch cfg.driver {
	case backend.Valkey, backend.Redis:
		if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
			return backend.Config{}, errors.New("talentdex: database address required")
		}
	case backend.Milvus:
		if cfg.milvusAddr == "" {
			return backend.Config{}, errors.New("talentdex: milvus address required")
		}
	case backend.Postgres:
		if cfg.postgresDSN == "" {
			return backend.Config{}, errors.New("talentdex: postgres dsn required")
		}
	case "":
		return backend.Config{}, errors.New(
			"talentdex: backend required (use WithValkey, WithRedis, WithMilvus or WithPostgres)",
		)
	default:
		return backend.Config{}, fmt.Errorf("talentdex: unknown driver %q", cfg.driver)
	}

	return backend.Config{
		Driver:   cfg.driver,
		Addrs:    cfg.addrs,
		Password: cfg.password,
		HNSW:     profilerepo.HNSWConfig{M: cfg.hnswM, EFConstruct: cfg.hnswEFConstruct},
		Milvus: dbMilvus.Config{
			Address:         cfg.milvusAddr,
			Username:        cfg.milvusUser,
			Password:        cfg.milvusPassword,
			HNSWM:           cfg.hnswM,
			HNSWEfConstruct: cfg.hnswEFConstruct,
		},
		Postgres: dbPostgres.Config{DSN: cfg.postgresDSN},
	}, nil
}

func wireClient(b *backend.Backend, cfg *clientConfig, obs *observer) (*Client, error) {
	// Without an embedder every search and ingest call fails with a clear error.
	queryEmb, docEmb := newEmbedders(cfg.embedder, cfg.queryInstruction, cfg.documentInstruction)

	searchSvc := searchuc.New(b.Index, queryEmb, searchConfig(cfg))
	ingestSvc, err := ingestuc.New(b.Profiles, docEmb, cfg.workers)
	if err != nil {
		return nil, fmt.Errorf("talentdex: %w", err)
	}
	healthSvc := healthuc.New(b.Driver, b.Pinger, nil)

	return &Client{
		closeFn: func() {
			ingestSvc.Release()
			b.Close()
		},
		searchSvc: searchSvc,
		ingestSvc: ingestSvc,
		healthSvc: healthSvc,
		obs:       obs,
	}, nil
}

func searchConfig(cfg *clientConfig) searchuc.Config {
	sc := searchuc.DefaultConfig()
	sc.StrictKeys = cfg.strictFields
	if cfg.cutoff != nil {
		sc.Cutoff = *cfg.cutoff
		sc.Tier3Cutoff = *cfg.cutoff
	}
	if cfg.topK > 0 {
		sc.TopK = cfg.topK
		sc.Tier3TopK = cfg.topK
	}
	if cfg.maxResults > 0 {
		sc.MaxResults = cfg.maxResults
	}
	sc.PopupURL = cfg.popupURL
	return sc
}

// Close releases all resources.
func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// Search returns a query builder scoped to one tenant.
func (c *Client) Search(tenant string) *SearchBuilder {
	return &SearchBuilder{tenant: tenant, svc: c.searchSvc, obs: c.obs}
}
