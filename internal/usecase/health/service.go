// Package health aggregates readiness checks for the service dependencies.
package health

import "context"

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

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store   StorePinger
	encoder EncoderChecker
}

// New creates a Service. encoder can be nil.
func New(store StorePinger, encoder EncoderChecker) *Service {
	return &Service{store: store, encoder: encoder}
}

// Check probes the vector store and the embedding provider. A failing
// encoder degrades search but writes may still queue, so the report is
// degraded rather than a hard failure.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.store.Ping(ctx); err != nil {
		checks["vector_store"] = CheckError
	} else {
		checks["vector_store"] = CheckOK
	}

	if s.encoder != nil {
		if err := s.encoder.HealthCheck(ctx); err != nil {
			checks["encoder"] = CheckError
		} else {
			checks["encoder"] = CheckOK
		}
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
