package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	os.Exit(m.Run())
}

type embeddingData struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type embeddingResponse struct {
	Object string          `json:"object"`
	Data   []embeddingData `json:"data"`
	Model  string          `json:"model"`
	Usage  struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
	User  string   `json:"user"`
}

// newServer answers every embeddings call with data and tokens, and records
// the last decoded request.
func newServer(t *testing.T, tokens int, data ...embeddingData) (*httptest.Server, *embeddingRequest) {
	t.Helper()
	var last embeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&last); err != nil {
			t.Errorf("decode request: %v", err)
		}

		resp := embeddingResponse{Object: "list", Model: "test-model", Data: data}
		resp.Usage.PromptTokens = tokens
		resp.Usage.TotalTokens = tokens
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func newTestEmbedder(url string) *Embedder {
	return NewEmbedder(&Config{
		APIKey:     "test-key",
		BaseURL:    url,
		Model:      "test-model",
		Dimensions: 4,
		User:       "talentdex",
		Provider:   "test",
		Logger:     zap.NewNop(),
	})
}

func TestEmbedder_Embed(t *testing.T) {
	want := []float32{0.1, 0.2, 0.3, 0.4}
	srv, req := newServer(t, 10, embeddingData{Object: "embedding", Embedding: want})

	result, err := newTestEmbedder(srv.URL).Embed(context.Background(), "senior go engineer")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(result.Embedding) != len(want) {
		t.Fatalf("expected %d dimensions, got %d", len(want), len(result.Embedding))
	}
	for i, v := range result.Embedding {
		if v != want[i] {
			t.Errorf("vec[%d] = %f, expected %f", i, v, want[i])
		}
	}
	if result.PromptTokens != 10 || result.TotalTokens != 10 {
		t.Errorf("usage = %d/%d, expected 10/10", result.PromptTokens, result.TotalTokens)
	}
	if len(req.Input) != 1 || req.Input[0] != "senior go engineer" {
		t.Errorf("input = %v", req.Input)
	}
	if req.User != "talentdex" {
		t.Errorf("user = %q, expected talentdex", req.User)
	}
}

func TestEmbedder_MetricsLabelledByRole(t *testing.T) {
	srv, _ := newServer(t, 5, embeddingData{Object: "embedding", Embedding: []float32{0.1, 0.2, 0.3, 0.4}})

	query := NewEmbedder(&Config{
		BaseURL:  srv.URL,
		Model:    "test-model",
		Provider: "test",
		Role:     metrics.RoleQuery,
	})
	document := newTestEmbedder(srv.URL)

	queryCalls := metrics.EmbeddingRequestsTotal.WithLabelValues("test", "test-model", metrics.RoleQuery, "success")
	docCalls := metrics.EmbeddingRequestsTotal.WithLabelValues("test", "test-model", metrics.RoleDocument, "success")
	queryBefore, docBefore := testutil.ToFloat64(queryCalls), testutil.ToFloat64(docCalls)

	if _, err := query.Embed(context.Background(), "go engineer in toronto"); err != nil {
		t.Fatalf("query Embed failed: %v", err)
	}
	if got := testutil.ToFloat64(queryCalls) - queryBefore; got != 1 {
		t.Errorf("query calls = %v, want 1", got)
	}
	if got := testutil.ToFloat64(docCalls) - docBefore; got != 0 {
		t.Errorf("document calls = %v, want 0 (role defaults to document only when unset)", got)
	}

	if _, err := document.Embed(context.Background(), "10 years of Go"); err != nil {
		t.Fatalf("document Embed failed: %v", err)
	}
	if got := testutil.ToFloat64(docCalls) - docBefore; got != 1 {
		t.Errorf("document calls = %v, want 1", got)
	}
}

func TestEmbedder_BatchEmbed_RestoresOrder(t *testing.T) {
	srv, req := newServer(t, 20,
		embeddingData{Object: "embedding", Embedding: []float32{0.3, 0.4}, Index: 1},
		embeddingData{Object: "embedding", Embedding: []float32{0.1, 0.2}, Index: 0},
	)

	result, err := newTestEmbedder(srv.URL).BatchEmbed(context.Background(), []string{"kubernetes", "postgres"})
	if err != nil {
		t.Fatalf("BatchEmbed failed: %v", err)
	}

	if len(req.Input) != 2 {
		t.Fatalf("expected one request with 2 inputs, got %v", req.Input)
	}
	if len(result.Embeddings) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(result.Embeddings))
	}
	if result.Embeddings[0][0] != 0.1 {
		t.Errorf("expected first vec[0]=0.1, got %f", result.Embeddings[0][0])
	}
	if result.Embeddings[1][0] != 0.3 {
		t.Errorf("expected second vec[0]=0.3, got %f", result.Embeddings[1][0])
	}
	if result.TotalTokens != 20 {
		t.Errorf("expected TotalTokens=20, got %d", result.TotalTokens)
	}
}

func TestEmbedder_BatchEmbed_Empty(t *testing.T) {
	result, err := newTestEmbedder("http://unused").BatchEmbed(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Embeddings != nil {
		t.Errorf("expected nil embeddings for empty input, got %v", result.Embeddings)
	}
}

func TestEmbedder_CountMismatch(t *testing.T) {
	srv, _ := newServer(t, 5, embeddingData{Object: "embedding", Embedding: []float32{0.1}})

	_, err := newTestEmbedder(srv.URL).BatchEmbed(context.Background(), []string{"a", "b"})
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestEmbedder_EmptyResponse(t *testing.T) {
	srv, _ := newServer(t, 0)

	_, err := newTestEmbedder(srv.URL).Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestEmbedder_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "rate limit exceeded",
				"type":    "rate_limit_error",
			},
		})
	}))
	defer srv.Close()

	_, err := newTestEmbedder(srv.URL).Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError for 429, got %v", err)
	}
}

func TestEmbedder_Canceled(t *testing.T) {
	srv, _ := newServer(t, 1, embeddingData{Object: "embedding", Embedding: []float32{0.1}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEmbedder(srv.URL).Embed(ctx, "hello")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Error("cancellation must not be reported as a provider error")
	}
}

func TestExtractDetail(t *testing.T) {
	if got := extractDetail([]byte(`{"detail":"model not found"}`)); got != "model not found" {
		t.Errorf("detail = %q", got)
	}
	if got := extractDetail([]byte(`not json`)); got != "" {
		t.Errorf("expected empty detail, got %q", got)
	}
}
