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
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names used in Report.Checks.
const (
	ComponentDatabase  = "database"
	ComponentDocStore  = "docstore"
	ComponentAI        = "ai"
	ComponentEmbedding = "embedding"
)

// DefaultCheckTimeout bounds every individual check.
const DefaultCheckTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        Pinger
	docstore  Pinger
	ai        Checker
	embedding Checker
	timeout   time.Duration
}

// New creates a Service for the relational database and the document store.
func New(db, docstore Pinger) *Service {
	return &Service{db: db, docstore: docstore, timeout: DefaultCheckTimeout}
}

// WithAI adds the generative AI collaborator check. A nil checker is ignored.
func (s *Service) WithAI(c Checker) *Service {
	s.ai = c
	return s
}

// WithEmbedding adds the embedding model check. A nil checker is ignored.
func (s *Service) WithEmbedding(c Checker) *Service {
	s.embedding = c
	return s
}

// Check runs health checks against all components.
// An unreachable AI collaborator degrades the report; answers still fall back to templates.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks[ComponentDatabase] = s.run(ctx, s.db.Ping)
	checks[ComponentDocStore] = s.run(ctx, s.docstore.Ping)
	if s.ai != nil {
		checks[ComponentAI] = s.run(ctx, s.ai.HealthCheck)
	}
	if s.embedding != nil {
		checks[ComponentEmbedding] = s.run(ctx, s.embedding.HealthCheck)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) run(ctx context.Context, check func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := check(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
