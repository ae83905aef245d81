package valkey

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain"
)

var _ db.Store = (*Store)(nil)

// Config holds connection parameters. The same store serves Valkey with
// valkey-search and Redis 8+ with the query engine.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	// KeyPrefix roots every namespace keyspace. Defaults to domain.KeyPrefix.
	KeyPrefix string
}

// Store implements db.Store via rueidis.
type Store struct {
	client rueidis.Client
	root   string
}

// NewStore creates a store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH reply parsing expects RESP2 arrays
	})
	if err != nil {
		return nil, fmt.Errorf("create rueidis client: %w", err)
	}
	return newStore(client, cfg.KeyPrefix), nil
}

func newStore(client rueidis.Client, root string) *Store {
	if root == "" {
		root = domain.KeyPrefix
	}
	return &Store{client: client, root: root}
}

// Keyspace returns the key and index names of one tenant namespace.
func (s *Store) Keyspace(namespace string) db.Keyspace {
	return db.NewKeyspace(s.root, namespace)
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the server answers, then verifies that the
// search module is loaded. A server without FT.* commands fails at once
// with db.ErrSearchModuleMissing instead of failing every later query.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err != nil {
				continue
			}
			return s.checkSearchModule(ctx)
		}
	}
}

// checkSearchModule lists FT indexes. Servers without valkey-search or the
// Redis query engine reject the command as unknown.
func (s *Store) checkSearchModule(ctx context.Context) error {
	err := s.do(ctx, s.b().Arbitrary("FT._LIST").Build()).Error()
	switch {
	case err == nil:
		return nil
	case isRedisErr(err, "unknown command"):
		return fmt.Errorf("%w: %w", db.ErrSearchModuleMissing, err)
	default:
		return &db.Error{Backend: db.BackendValkey, Op: db.OpListIndexes, Err: err}
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// isRedisErr reports whether err is a server reply containing substr,
// ignoring case.
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
