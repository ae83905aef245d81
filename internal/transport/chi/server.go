package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
	domingest "github.com/kailas-cloud/talentdex/internal/domain/ingest"
	"github.com/kailas-cloud/talentdex/internal/domain/search/filter"
	"github.com/kailas-cloud/talentdex/internal/domain/search/request"
	"github.com/kailas-cloud/talentdex/internal/domain/search/result"
	gen "github.com/kailas-cloud/talentdex/internal/transport/generated"
	healthuc "github.com/kailas-cloud/talentdex/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/talentdex/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/talentdex/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements generated.ServerInterface for the oapi-codegen chi router.
type Server struct {
	gen.Unimplemented
	search        *searchuc.Service
	ingest        *ingestuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ gen.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	ingest *ingestuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search: search,
		ingest: ingest,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, gen.ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrVectorDimMismatch,
			http.StatusBadGateway, gen.ErrorResponseCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, gen.ErrorResponseCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrRetrievalFailed, http.StatusServiceUnavailable, gen.ErrorResponseCodeRetrievalFailed),
	}
	return s
}

// SearchCandidates handles POST /v1/tenants/{tenant}/search.
func (s *Server) SearchCandidates(w http.ResponseWriter, r *http.Request, tenant gen.Tenant) {
	var req gen.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var raws []filter.Raw
	if req.Filters != nil {
		data, err := json.Marshal(*req.Filters)
		if err == nil {
			raws, err = filter.DecodeRaws(data)
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, err.Error())
			return
		}
	}

	s.runSearch(w, r, tenant, req.Query, raws, derefInt(req.Limit))
}

// SearchCandidatesGet handles GET /v1/tenants/{tenant}/search.
func (s *Server) SearchCandidatesGet(
	w http.ResponseWriter,
	r *http.Request,
	tenant gen.Tenant,
	params gen.SearchCandidatesGetParams,
) {
	var raws []filter.Raw
	if params.Filters != nil {
		var err error
		raws, err = filter.DecodeRaws([]byte(*params.Filters))
		if err != nil {
			writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, err.Error())
			return
		}
	}

	s.runSearch(w, r, tenant, params.Query, raws, derefInt(params.Limit))
}

func (s *Server) runSearch(
	w http.ResponseWriter,
	r *http.Request,
	tenant, query string,
	raws []filter.Raw,
	limit int,
) {
	searchReq, err := request.New(tenant, query, raws, limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	outcome, err := s.search.Search(ctx, &searchReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, outcomeToGen(outcome))
}

// UpsertCandidates handles PUT /v1/tenants/{tenant}/candidates.
func (s *Server) UpsertCandidates(w http.ResponseWriter, r *http.Request, tenant gen.Tenant) {
	var req gen.UpsertCandidatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Candidates) == 0 || len(req.Candidates) > ingestuc.MaxProfiles {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed,
			fmt.Sprintf("candidates count must be between 1 and %d", ingestuc.MaxProfiles))
		return
	}

	items := make([]gen.UpsertResultItem, len(req.Candidates))
	profiles := make([]candidate.Profile, 0, len(req.Candidates))
	validIdx := make([]int, 0, len(req.Candidates))
	for i, c := range req.Candidates {
		p, err := profileFromGen(c)
		if err != nil {
			items[i] = gen.UpsertResultItem{
				Id:     c.Id,
				Status: gen.UpsertResultItemStatusError,
				Error: &gen.ErrorResponse{
					Code:    gen.ErrorResponseCodeValidationFailed,
					Message: err.Error(),
				},
			}
			continue
		}
		profiles = append(profiles, p)
		validIdx = append(validIdx, i)
	}

	if len(profiles) > 0 {
		ctx, usage := domain.NewContextWithUsage(r.Context())
		results, err := s.ingest.Ingest(ctx, tenant, profiles)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		for j, res := range results {
			items[validIdx[j]] = ingestResultToGen(res)
		}
		setEmbeddingHeaders(w, usage)
	}

	succeeded, failed := 0, 0
	for _, item := range items {
		if item.Status == gen.UpsertResultItemStatusOk {
			succeeded++
		} else {
			failed++
		}
	}

	writeJSON(w, http.StatusOK, gen.UpsertCandidatesResponse{
		Items:     items,
		Succeeded: succeeded,
		Failed:    failed,
	})
}

// DeleteCandidate handles DELETE /v1/tenants/{tenant}/candidates/{candidateId}.
func (s *Server) DeleteCandidate(w http.ResponseWriter, r *http.Request, tenant gen.Tenant, candidateID string) {
	if _, err := s.ingest.Delete(r.Context(), tenant, candidateID); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]gen.HealthResponseChecks)
	for k, v := range report.Checks {
		checks[k] = gen.HealthResponseChecks(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	resp := gen.HealthResponse{
		Status: gen.HealthResponseStatus(report.Status),
		Checks: checks,
	}
	if report.Backend != "" {
		resp.Backend = &report.Backend
	}
	writeJSON(w, httpStatus, resp)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// InvalidParamHandler renders oapi-codegen parameter binding errors.
func InvalidParamHandler(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, err.Error())
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code gen.ErrorResponseCode, message string) {
	writeJSON(w, status, gen.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrNotFound,
		domain.ErrVectorDimMismatch,
		domain.ErrEmbeddingProviderError,
		domain.ErrRetrievalFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code gen.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, gen.ErrorResponseCodeInternalError, "internal error")
}

func profileFromGen(c gen.CandidateProfile) (candidate.Profile, error) {
	var meta map[string]any
	if c.Metadata != nil {
		meta = *c.Metadata
	}
	p, err := candidate.NewProfile(c.Id, meta, c.Chunks)
	if err != nil {
		return candidate.Profile{}, fmt.Errorf("invalid candidate: %w", err)
	}
	return p, nil
}

func ingestResultToGen(r domingest.Result) gen.UpsertResultItem {
	item := gen.UpsertResultItem{
		Id:     r.CandidateID(),
		Status: gen.UpsertResultItemStatus(r.Status()),
	}
	if r.Err() != nil {
		item.Error = &gen.ErrorResponse{
			Code:    ingestErrorCode(r.Err()),
			Message: safeDomainMessage(r.Err()),
		}
		return item
	}
	chunks := r.Chunks()
	item.Chunks = &chunks
	return item
}

func ingestErrorCode(err error) gen.ErrorResponseCode {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return gen.ErrorResponseCodeValidationFailed
	case errors.Is(err, domain.ErrVectorDimMismatch), errors.Is(err, domain.ErrEmbeddingProviderError):
		return gen.ErrorResponseCodeEmbeddingProviderError
	default:
		return gen.ErrorResponseCodeInternalError
	}
}

func outcomeToGen(o result.Outcome) gen.SearchResponse {
	items := make([]gen.Candidate, len(o.Matches))
	for i := range o.Matches {
		items[i] = matchToGen(&o.Matches[i])
	}
	resp := gen.SearchResponse{
		SearchId:       o.SearchID,
		Tier:           o.Tier,
		TiersAttempted: o.Attempted,
		Items:          items,
	}
	if o.Message != "" {
		resp.Message = &o.Message
	}
	return resp
}

func matchToGen(m *result.Match) gen.Candidate {
	c := gen.Candidate{
		ResumeId:         m.CandidateID,
		Name:             strPtr(m.Name),
		JobTitle:         strPtr(m.JobTitle),
		CareerDomain:     strPtr(m.Domain),
		Education:        strPtr(m.Education),
		ResumeLink:       strPtr(m.Link),
		Snippet:          strPtr(m.Snippet),
		Location:         &m.Location,
		TechnicalSkills:  &m.TechSkills,
		LeadershipSkills: &m.LeadSkills,
		Score:            m.Score,
		Similarity:       m.Similarity,
		MatchedCount:     &m.Matched,
		TotalRequired:    &m.Required,
	}
	if m.Experience != nil {
		c.YearsOfExperience = &m.Experience
	}
	return c
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
