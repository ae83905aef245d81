package talentdex

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
	domingest "github.com/kailas-cloud/talentdex/internal/domain/ingest"
)

func TestIngest_MixedProfiles(t *testing.T) {
	var gotTenant string
	var gotIDs []string
	mock := &mockIngestUC{
		ingestFn: func(_ context.Context, tenant string, profiles []candidate.Profile) ([]domingest.Result, error) {
			gotTenant = tenant
			out := make([]domingest.Result, len(profiles))
			for i, p := range profiles {
				gotIDs = append(gotIDs, p.ID())
				if p.ID() == "r3" {
					out[i] = domingest.NewError(p.ID(), domain.ErrEmbeddingProviderError)
					continue
				}
				out[i] = domingest.NewOK(p.ID(), len(p.Chunks()))
			}
			return out, nil
		},
	}

	c := &Client{ingestSvc: mock}
	results, err := c.Ingest(context.Background(), "acme", []Profile{
		{ID: "r1", Chunks: []string{"go", "kubernetes"}},
		{ID: "r2"},
		{ID: "r3", Chunks: []string{"python"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotTenant != "acme" {
		t.Errorf("tenant = %q, want acme", gotTenant)
	}
	if len(gotIDs) != 2 || gotIDs[0] != "r1" || gotIDs[1] != "r3" {
		t.Errorf("ingested ids = %v, want [r1 r3]", gotIDs)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if !results[0].OK || results[0].Chunks != 2 {
		t.Errorf("r1 = %+v, want ok with 2 chunks", results[0])
	}
	if results[1].OK || !errors.Is(results[1].Err, ErrInvalidRequest) {
		t.Errorf("r2 = %+v, want validation error", results[1])
	}
	if results[2].OK || !errors.Is(results[2].Err, ErrEmbeddingProviderError) {
		t.Errorf("r3 = %+v, want provider error", results[2])
	}
}

func TestIngest_AllInvalid(t *testing.T) {
	mock := &mockIngestUC{
		ingestFn: func(_ context.Context, _ string, _ []candidate.Profile) ([]domingest.Result, error) {
			t.Fatal("ingest service must not be called")
			return nil, nil
		},
	}

	c := &Client{ingestSvc: mock}
	results, err := c.Ingest(context.Background(), "acme", []Profile{{ID: "bad#id", Chunks: []string{"x"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Err == nil {
		t.Errorf("results = %+v, want one error", results)
	}
}

func TestIngest_Rejected(t *testing.T) {
	mock := &mockIngestUC{
		ingestFn: func(_ context.Context, _ string, _ []candidate.Profile) ([]domingest.Result, error) {
			return nil, domain.ErrInvalidRequest
		},
	}

	c := &Client{ingestSvc: mock}
	_, err := c.Ingest(context.Background(), "bad.tenant", []Profile{{ID: "r1", Chunks: []string{"x"}}})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestDelete(t *testing.T) {
	mock := &mockIngestUC{
		deleteFn: func(_ context.Context, tenant, id string) (int, error) {
			if id == "missing" {
				return 0, domain.ErrNotFound
			}
			return 3, nil
		},
	}

	c := &Client{ingestSvc: mock}
	n, err := c.Delete(context.Background(), "acme", "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted = %d, want 3", n)
	}

	_, err = c.Delete(context.Background(), "acme", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
