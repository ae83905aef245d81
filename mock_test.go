package talentdex

import (
	"context"

	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
	domingest "github.com/kailas-cloud/talentdex/internal/domain/ingest"
	"github.com/kailas-cloud/talentdex/internal/domain/search/request"
	"github.com/kailas-cloud/talentdex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/talentdex/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, req *request.Request) (result.Outcome, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req *request.Request) (result.Outcome, error) {
	return m.searchFn(ctx, req)
}

// --- ingestUseCase mock ---

type mockIngestUC struct {
	ingestFn func(ctx context.Context, tenant string, profiles []candidate.Profile) ([]domingest.Result, error)
	deleteFn func(ctx context.Context, tenant, id string) (int, error)
}

func (m *mockIngestUC) Ingest(
	ctx context.Context, tenant string, profiles []candidate.Profile,
) ([]domingest.Result, error) {
	return m.ingestFn(ctx, tenant, profiles)
}

func (m *mockIngestUC) Delete(ctx context.Context, tenant, id string) (int, error) {
	return m.deleteFn(ctx, tenant, id)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- public Embedder mock ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}
