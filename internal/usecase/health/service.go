package health

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragchat/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates a model provider is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the vector store is unreachable.
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

// Component names reported in Report.Checks.
const (
	ComponentVectorStore = "vector_store"
	ComponentEmbedding   = "embedding"
	ComponentGeneration  = "generation"
)

// DefaultCheckTimeout bounds each component probe.
const DefaultCheckTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store      StorePinger
	embedding  ProviderChecker
	generation ProviderChecker
	timeout    time.Duration
}

// New creates a Service. embedding and generation can be nil.
func New(store StorePinger, embedding, generation ProviderChecker) *Service {
	return &Service{
		store:      store,
		embedding:  embedding,
		generation: generation,
		timeout:    DefaultCheckTimeout,
	}
}

// WithTimeout overrides the per-component probe timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks[ComponentVectorStore] = s.probe(ctx, ComponentVectorStore, s.store.Ping)
	if s.embedding != nil {
		checks[ComponentEmbedding] = s.probe(ctx, ComponentEmbedding, s.embedding.HealthCheck)
	}
	if s.generation != nil {
		checks[ComponentGeneration] = s.probe(ctx, ComponentGeneration, s.generation.HealthCheck)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks[ComponentVectorStore] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) probe(ctx context.Context, name string, fn func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		logger.FromContext(ctx).Warn("Health check failed",
			zap.String("component", name),
			zap.Error(err),
		)
		return CheckError
	}
	return CheckOK
}
