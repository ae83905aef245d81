package search

import (
	"context"
	"sync"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/search/hit"
)

type fakeIndex struct {
	mu      sync.Mutex
	calls   []hit.Query
	queryFn func(ctx context.Context, q hit.Query) ([]hit.Document, error)
}

func (f *fakeIndex) Query(ctx context.Context, q hit.Query) ([]hit.Document, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	f.mu.Unlock()
	if f.queryFn == nil {
		return nil, nil
	}
	return f.queryFn(ctx, q)
}

func (f *fakeIndex) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	f.calls++
	if f.err != nil {
		return domain.EmbeddingResult{}, f.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}, TotalTokens: 7}, nil
}

func doc(id string, score float64, meta map[string]any) hit.Document {
	return hit.Document{CandidateID: id, ChunkID: id + "#0", Score: score, Metadata: meta}
}
