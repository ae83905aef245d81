package talentdex

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/talentdex/internal/domain"
)

// Embedder converts text to vector embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder is an Embedder that can vectorize several texts in one
// provider call. Ingestion embeds all chunks of a profile through it when
// available.
type BatchEmbedder interface {
	Embedder
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbeddingResult carries one vector per input text, in input order.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// newEmbedders builds the query and document embedders the services use.
// Instruction-tuned models get a different prefix for search queries and
// for resume chunks; an empty instruction sends the text unchanged.
func newEmbedders(e Embedder, queryInstruction, documentInstruction string) (query, document domain.Embedder) {
	var base domain.Embedder = noopEmbedder{}
	if e != nil {
		base = adapt(e)
	}
	return withInstruction(base, queryInstruction), withInstruction(base, documentInstruction)
}

func withInstruction(e domain.Embedder, instruction string) domain.Embedder {
	if instruction == "" {
		return e
	}
	return domain.NewInstructionEmbedder(e, instruction)
}

// adapt exposes BatchEmbed only when the user's embedder supports it, so
// domain.EmbedAll falls back to per-chunk calls otherwise.
func adapt(e Embedder) domain.Embedder {
	if be, ok := e.(BatchEmbedder); ok {
		return &batchEmbedderAdapter{embedderAdapter{inner: e}, be}
	}
	return &embedderAdapter{inner: e}
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
// Every failure is reported as a provider error.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w: %w", domain.ErrEmbeddingProviderError, err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

type batchEmbedderAdapter struct {
	embedderAdapter
	batch BatchEmbedder
}

func (a *batchEmbedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	r, err := a.batch.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w: %w", domain.ErrEmbeddingProviderError, err)
	}
	if len(r.Embeddings) != len(texts) {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w: got %d vectors for %d texts",
			domain.ErrEmbeddingProviderError, len(r.Embeddings), len(texts))
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   r.Embeddings,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder fails every call; it stands in when WithEmbedder was not given.
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"talentdex: embedder not configured (use WithEmbedder)",
	)
}
