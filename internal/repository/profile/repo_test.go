package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain"
)

// --- EnsureNamespace ---

func TestEnsureNamespace_CreatesOnce(t *testing.T) {
	repo, ms := newTestRepo(t)
	created := 0
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		created++
		if def.Name != "talentdex:acme_Resumes_NS:idx" {
			t.Errorf("unexpected index name %s", def.Name)
		}
		if len(def.Prefixes) != 1 || def.Prefixes[0] != "talentdex:acme_Resumes_NS:" {
			t.Errorf("unexpected prefixes %v", def.Prefixes)
		}
		return nil
	}

	for i := 0; i < 3; i++ {
		if err := repo.EnsureNamespace(context.Background(), "acme_Resumes_NS", 4); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if created != 1 {
		t.Errorf("expected one FT.CREATE, got %d", created)
	}
}

func TestEnsureNamespace_Exists(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		t.Error("must not create an existing index")
		return nil
	}
	if err := repo.EnsureNamespace(context.Background(), "ns", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureNamespace_RaceLost(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error { return db.ErrIndexExists }
	if err := repo.EnsureNamespace(context.Background(), "ns", 4); err != nil {
		t.Fatalf("index created concurrently must not fail: %v", err)
	}
}

func TestEnsureNamespace_Error(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return false, errors.New("boom") }
	if err := repo.EnsureNamespace(context.Background(), "ns", 4); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildIndex(t *testing.T) {
	def, err := buildIndex(db.NewKeyspace(domain.KeyPrefix, "ns"), 8, db.DistanceCosine, HNSWConfig{M: 16, EFConstruct: 200})
	if err != nil {
		t.Fatalf("buildIndex: %v", err)
	}

	byName := make(map[string]db.IndexField, len(def.Fields))
	for _, f := range def.Fields {
		byName[f.Name] = f
	}
	if byName["years_of_experience"].Kind != db.KindNumeric {
		t.Error("years_of_experience must be NUMERIC")
	}
	loc := byName["location"]
	if loc.Kind != db.KindTag || loc.Separator != "|" || loc.CaseSensitive {
		t.Errorf("location must be a case-insensitive TAG split on |, got %+v", loc)
	}
	vec := byName[db.FieldVector]
	if vec.Kind != db.KindVector || vec.Alias != db.VectorAlias || vec.Vector.Dim != 8 {
		t.Errorf("unexpected vector field %+v", vec)
	}
	if _, ok := byName["latest_job_title"]; !ok {
		t.Error("latest_job_title must be indexed")
	}
}

// --- Upsert ---

func TestUpsert_WritesHashes(t *testing.T) {
	repo, ms := newTestRepo(t)
	var got []db.HashSetItem
	ms.hsetMultiFn = func(_ context.Context, items []db.HashSetItem) error {
		got = items
		return nil
	}

	if err := repo.Upsert(context.Background(), "ns", testChunks(t, "r1", 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[1].Key != "talentdex:ns:r1#1" {
		t.Errorf("unexpected key %s", got[1].Key)
	}
	f := got[0].Fields
	if f["location"] != "Toronto|Remote" {
		t.Errorf("location = %q", f["location"])
	}
	if f["years_of_experience"] != "6" {
		t.Errorf("years_of_experience = %q", f["years_of_experience"])
	}
	if f[db.FieldCandidate] != "r1" || f["doc_id"] != "r1" {
		t.Errorf("candidate fields missing: %v", f)
	}
	if len(f[db.FieldVector]) != 8 {
		t.Errorf("vector must be 2 float32 values, got %d bytes", len(f[db.FieldVector]))
	}
}

func TestUpsert_RemovesStaleChunks(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "talentdex:ns:r1#*" {
			t.Errorf("unexpected pattern %s", pattern)
		}
		return []string{"talentdex:ns:r1#0", "talentdex:ns:r1#1", "talentdex:ns:r1#2"}, nil
	}
	var deleted []string
	ms.delFn = func(_ context.Context, keys ...string) (int64, error) {
		deleted = keys
		return int64(len(keys)), nil
	}

	if err := repo.Upsert(context.Background(), "ns", testChunks(t, "r1", 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deleted) != 2 || deleted[0] != "talentdex:ns:r1#1" || deleted[1] != "talentdex:ns:r1#2" {
		t.Errorf("unexpected stale keys %v", deleted)
	}
}

func TestUpsert_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetMultiFn = func(_ context.Context, _ []db.HashSetItem) error { return errors.New("pipeline failed") }
	if err := repo.Upsert(context.Background(), "ns", testChunks(t, "r1", 1)); err == nil {
		t.Fatal("expected error")
	}
}

// --- DeleteCandidate ---

func TestDeleteCandidate(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return []string{"talentdex:ns:r1#0", "talentdex:ns:r1#1"}, nil
	}
	n, err := repo.DeleteCandidate(context.Background(), "ns", "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted, got %d", n)
	}
}

func TestDeleteCandidate_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.DeleteCandidate(context.Background(), "ns", "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCandidate_ScansEscapedPattern(t *testing.T) {
	repo, ms := newTestRepo(t)
	var pattern string
	ms.scanFn = func(_ context.Context, p string) ([]string, error) {
		pattern = p
		return []string{"talentdex:ns:a*b#0"}, nil
	}

	if _, err := repo.DeleteCandidate(context.Background(), "ns", "a*b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pattern != `talentdex:ns:a\*b#*` {
		t.Errorf("scan pattern = %q", pattern)
	}
}
