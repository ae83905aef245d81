package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/db/milvus"
	"github.com/kailas-cloud/talentdex/internal/db/postgres"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchKNNFn func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Keyspace(namespace string) db.Keyspace {
	return db.NewKeyspace(domain.KeyPrefix, namespace)
}

type mockMilvus struct {
	searchFn func(ctx context.Context, p milvus.SearchParams) ([]milvus.Hit, error)
}

func (m *mockMilvus) Search(ctx context.Context, p milvus.SearchParams) ([]milvus.Hit, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, p)
	}
	return nil, nil
}

type mockPostgres struct {
	searchFn func(ctx context.Context, p postgres.SearchParams) ([]postgres.Hit, error)
}

func (m *mockPostgres) Search(ctx context.Context, p postgres.SearchParams) ([]postgres.Hit, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, p)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testVector() []float32 {
	return []float32{0.1, 0.1, 0.1, 0.1}
}
