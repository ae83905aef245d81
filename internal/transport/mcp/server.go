// Package mcp exposes candidate search as a Model Context Protocol tool.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/search/filter"
	"github.com/kailas-cloud/talentdex/internal/domain/search/request"
	"github.com/kailas-cloud/talentdex/internal/domain/search/result"
	"github.com/kailas-cloud/talentdex/internal/logger"
	"github.com/kailas-cloud/talentdex/internal/version"
)

// ServerName is the MCP server name.
const ServerName = "talentdex"

// SearchToolName is the name of the candidate search tool.
const SearchToolName = "search_candidates"

// Searcher runs a candidate search.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Outcome, error)
}

// Server wraps the MCP server with the search service.
type Server struct {
	mcp           *server.MCPServer
	search        Searcher
	defaultTenant string
	logger        *zap.Logger
}

// NewServer creates an MCP server. defaultTenant is used when a tool call
// names no tenant; empty makes the tenant argument mandatory.
func NewServer(search Searcher, defaultTenant string, logger *zap.Logger) *Server {
	s := &Server{
		mcp:           server.NewMCPServer(ServerName, version.Version, server.WithToolCapabilities(false)),
		search:        search,
		defaultTenant: defaultTenant,
		logger:        logger,
	}
	s.mcp.AddTool(searchCandidatesTool(), s.handleSearchCandidates)
	return s
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	if err := server.ServeStdio(s.mcp); err != nil {
		return fmt.Errorf("serve stdio: %w", err)
	}
	return nil
}

func searchCandidatesTool() mcp.Tool {
	return mcp.Tool{
		Name: SearchToolName,
		Description: "Search candidate resumes of a tenant with a natural language query. " +
			"Strict filters (location, career_domain) narrow retrieval and are relaxed when nothing matches; " +
			"other filters only affect ranking.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"tenant": map[string]any{
					"type":        "string",
					"description": "Tenant id; its resumes live in the <tenant>_Resumes_NS namespace",
				},
				"query": map[string]any{
					"type":        "string",
					"description": "Free text describing the wanted candidate",
				},
				"filters": map[string]any{
					"description": "List of {name, value, operator} objects or a key -> value object. " +
						"Keys: candidate_name, job_title, career_domain, years_of_experience, location, " +
						"technical_skills, leadership_skills, highest_education_level",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of candidates to return",
					"minimum":     1,
					"maximum":     request.MaxLimit,
				},
			},
			Required: []string{"query"},
		},
	}
}

type searchOutput struct {
	SearchID   string          `json:"search_id"`
	Tier       string          `json:"tier"`
	Attempted  int             `json:"tiers_attempted"`
	Message    string          `json:"message,omitempty"`
	Candidates []result.Record `json:"candidates"`
}

func (s *Server) handleSearchCandidates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}

	tenant, _ := args["tenant"].(string)
	if tenant == "" {
		tenant = s.defaultTenant
	}
	query, _ := args["query"].(string)

	raws, err := filtersArg(args["filters"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	limit := 0
	if n, ok := args["limit"].(float64); ok {
		limit = int(n)
	}

	searchReq, err := request.New(tenant, query, raws, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ctx, _ = logger.With(logger.ContextWithLogger(ctx, s.logger), zap.String("transport", "mcp"))
	outcome, err := s.search.Search(ctx, &searchReq)
	if err != nil {
		s.logger.Warn("search failed", zap.Error(err))
		return mcp.NewToolResultError(toolErrorMessage(err)), nil
	}

	data, err := json.MarshalIndent(searchOutput{
		SearchID:   outcome.SearchID,
		Tier:       outcome.Tier,
		Attempted:  outcome.Attempted,
		Message:    outcome.Message,
		Candidates: outcome.Records(),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// filtersArg accepts filters as decoded JSON or as a JSON string.
func filtersArg(v any) ([]filter.Raw, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return filter.DecodeRaws([]byte(t)) //nolint:wrapcheck // message goes to the caller verbatim
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("encode filters: %w", err)
		}
		return filter.DecodeRaws(data) //nolint:wrapcheck // message goes to the caller verbatim
	}
}

func toolErrorMessage(err error) string {
	for _, s := range []error{
		domain.ErrInvalidRequest,
		domain.ErrEmbeddingProviderError,
		domain.ErrRetrievalFailed,
	} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}
