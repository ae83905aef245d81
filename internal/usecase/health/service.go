package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded means search still works from the index but ingestion or
	// query embedding may fail.
	Degraded Status = "degraded"
	// Unhealthy means the index backend is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// DefaultCheckTimeout bounds each component check.
const DefaultCheckTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status  Status
	Backend string
	Checks  map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	backend   string
	db        DBPinger
	embedding EmbeddingChecker
	timeout   time.Duration
}

// New creates a Service for the named index backend. embedding can be nil.
func New(backend string, db DBPinger, embedding EmbeddingChecker) *Service {
	return &Service{backend: backend, db: db, embedding: embedding, timeout: DefaultCheckTimeout}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks["database"] = s.check(ctx, s.db.Ping)
	if s.embedding != nil {
		checks["embedding"] = s.check(ctx, s.embedding.HealthCheck)
	}

	status := Healthy
	switch {
	case checks["database"] == CheckError:
		status = Unhealthy
	case checks["embedding"] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Backend: s.backend, Checks: checks}
}

func (s *Service) check(ctx context.Context, fn func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
