// Package openai talks to any OpenAI-compatible embeddings endpoint
// (OpenAI, Nebius, vLLM, Ollama).
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/metrics"
)

var tracer = otel.Tracer("github.com/kailas-cloud/talentdex/internal/transport/openai")

// Embedder vectorizes resume chunks and search queries through the
// embeddings API.
type Embedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	user       string
	provider   string
	role       string
	logger     *zap.Logger
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	// User is forwarded as the OpenAI "user" field for abuse tracking.
	User     string
	Provider string
	// Role labels the metrics: metrics.RoleQuery or metrics.RoleDocument.
	// Defaults to document.
	Role   string
	Logger *zap.Logger
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	role := cfg.Role
	if role == "" {
		role = metrics.RoleDocument
	}

	return &Embedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		user:       cfg.User,
		provider:   cfg.Provider,
		role:       role,
		logger:     logger,
	}
}

// Embed vectorizes one text.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := e.create(ctx, []string{text})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{
		Embedding:    res.Embeddings[0],
		PromptTokens: res.PromptTokens,
		TotalTokens:  res.TotalTokens,
	}, nil
}

// BatchEmbed vectorizes all texts in one request. The provider may return
// data out of order; vectors are placed by their index.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}
	return e.create(ctx, texts)
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (e *Embedder) create(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	ctx, span := tracer.Start(ctx, "embedding.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("embedding.provider", e.provider),
		attribute.String("embedding.model", string(e.model)),
		attribute.String("embedding.role", e.role),
		attribute.Int("embedding.inputs", len(texts)),
	)

	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		User:           e.user,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		e.fail("api_error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "embedding request failed")
		e.logger.Warn("Embedding request failed",
			zap.String("provider", e.provider),
			zap.String("role", e.role),
			zap.Int("inputs", len(texts)),
			zap.Error(err),
		)
		return domain.BatchEmbeddingResult{}, parseAPIError(err)
	}

	if len(resp.Data) != len(texts) {
		reason := "count_mismatch"
		if len(resp.Data) == 0 {
			reason = "empty_response"
		}
		e.fail(reason)
		span.SetStatus(codes.Error, reason)
		return domain.BatchEmbeddingResult{}, fmt.Errorf("%w: got %d embeddings for %d inputs",
			domain.ErrEmbeddingProviderError, len(resp.Data), len(texts))
	}

	data := resp.Data
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })
	out := domain.BatchEmbeddingResult{
		Embeddings:   make([][]float32, len(data)),
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}
	for i, d := range data {
		out.Embeddings[i] = d.Embedding
	}

	model := string(e.model)
	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, model, e.role, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(e.provider, model, e.role).Observe(elapsed.Seconds())
	metrics.EmbeddingBatchSize.WithLabelValues(e.provider, model, e.role).Observe(float64(len(texts)))
	if out.TotalTokens > 0 {
		metrics.EmbeddingTokensTotal.WithLabelValues(e.provider, model, e.role, "prompt").Add(float64(out.PromptTokens))
		metrics.EmbeddingTokensTotal.WithLabelValues(e.provider, model, e.role, "total").Add(float64(out.TotalTokens))
	}
	span.SetAttributes(attribute.Int("embedding.total_tokens", out.TotalTokens))

	return out, nil
}

func (e *Embedder) fail(errorType string) {
	model := string(e.model)
	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, model, e.role, "error").Inc()
	metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, model, e.role, errorType).Inc()
}

// parseAPIError wraps every provider failure with domain.ErrEmbeddingProviderError
// so the API maps it to 502. Cancellation keeps its identity.
func parseAPIError(err error) error {
	wrap := domain.ErrEmbeddingProviderError

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("embedding request: %w", err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := string(reqErr.Body)
		if detail := extractDetail(reqErr.Body); detail != "" {
			body = detail
		}
		return fmt.Errorf("embedding API error %d: %s: %w", reqErr.HTTPStatusCode, body, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("embedding request failed: %w", wrap)
}

// extractDetail reads the "detail" field of a Nebius-style error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		return parsed.Detail
	}
	return ""
}
