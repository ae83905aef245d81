// Package backend opens the configured similarity index and hands out the
// repositories the use cases depend on.
package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/talentdex/internal/db"
	dbMilvus "github.com/kailas-cloud/talentdex/internal/db/milvus"
	dbPostgres "github.com/kailas-cloud/talentdex/internal/db/postgres"
	dbValkey "github.com/kailas-cloud/talentdex/internal/db/valkey"
	profilerepo "github.com/kailas-cloud/talentdex/internal/repository/profile"
	searchrepo "github.com/kailas-cloud/talentdex/internal/repository/search"
	healthuc "github.com/kailas-cloud/talentdex/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/talentdex/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/talentdex/internal/usecase/search"
)

// Drivers.
const (
	Valkey   = "valkey"
	Redis    = "redis"
	Milvus   = "milvus"
	Postgres = "postgres"
)

// DefaultReadinessTimeout bounds the wait for a Valkey/Redis server.
const DefaultReadinessTimeout = 10 * time.Second

// Config selects and configures one backend.
type Config struct {
	Driver           string
	Addrs            []string
	Password         string
	ReadinessTimeout time.Duration
	HNSW             profilerepo.HNSWConfig
	Milvus           dbMilvus.Config
	Postgres         dbPostgres.Config
}

// Backend bundles the index, the profile writer and the health check of
// one opened backend.
type Backend struct {
	Driver   string
	Index    searchuc.Index
	Profiles ingestuc.Repository
	Pinger   healthuc.DBPinger
	// KV is set only for Valkey/Redis; the embedding cache lives there.
	KV db.KVStore

	closeFn func()
}

// Open connects to the configured backend. Valkey and Redis share the
// rueidis store and are polled until ready.
func Open(ctx context.Context, cfg Config) (*Backend, error) {
	switch cfg.Driver {
	case Valkey, Redis, "":
		return openKeyValue(ctx, cfg)
	case Milvus:
		c, err := dbMilvus.NewClient(ctx, cfg.Milvus)
		if err != nil {
			return nil, fmt.Errorf("create milvus client: %w", err)
		}
		return &Backend{
			Driver:   Milvus,
			Index:    searchrepo.NewMilvus(c),
			Profiles: profilerepo.NewMilvus(c),
			Pinger:   c,
			closeFn:  func() { _ = c.Close() },
		}, nil
	case Postgres:
		s, err := dbPostgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return &Backend{
			Driver:   Postgres,
			Index:    searchrepo.NewPostgres(s),
			Profiles: profilerepo.NewPostgres(s),
			Pinger:   s,
			closeFn:  func() { _ = s.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func openKeyValue(ctx context.Context, cfg Config) (*Backend, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = Valkey
	}
	store, err := dbValkey.NewStore(dbValkey.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", driver, err)
	}

	timeout := cfg.ReadinessTimeout
	if timeout <= 0 {
		timeout = DefaultReadinessTimeout
	}
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("%s not ready: %w", driver, err)
	}

	return NewKeyValue(driver, store, cfg.HNSW), nil
}

// NewKeyValue wraps an already connected Valkey/Redis store.
func NewKeyValue(driver string, store db.Store, hnsw profilerepo.HNSWConfig) *Backend {
	return &Backend{
		Driver:   driver,
		Index:    searchrepo.New(store),
		Profiles: profilerepo.New(store).WithHNSW(hnsw),
		Pinger:   store,
		KV:       store,
		closeFn:  store.Close,
	}
}

// Close releases the backend connection.
func (b *Backend) Close() {
	if b.closeFn != nil {
		b.closeFn()
	}
}
