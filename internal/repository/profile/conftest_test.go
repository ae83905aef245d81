package profile

import (
	"context"
	"testing"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	delFn         func(ctx context.Context, keys ...string) (int64, error)
	scanFn        func(ctx context.Context, pattern string) ([]string, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) (int64, error) {
	if m.delFn != nil {
		return m.delFn(ctx, keys...)
	}
	return int64(len(keys)), nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) Keyspace(namespace string) db.Keyspace {
	return db.NewKeyspace(domain.KeyPrefix, namespace)
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testChunks(t *testing.T, id string, n int) []candidate.Chunk {
	t.Helper()
	texts := make([]string, n)
	for i := range texts {
		texts[i] = "chunk text"
	}
	p, err := candidate.NewProfile(id, map[string]any{
		candidate.Location:        []any{"Toronto", "Remote"},
		candidate.YearsExperience: 6.0,
		candidate.CareerDomain:    "Engineering",
	}, texts)
	if err != nil {
		t.Fatalf("NewProfile: %v", err)
	}
	chunks := make([]candidate.Chunk, n)
	for i := range chunks {
		chunks[i] = p.Chunk(i, []float32{0.5, 0.25})
	}
	return chunks
}
