package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing; searches still work.
	Degraded Status = "degraded"
	// Unhealthy indicates searches cannot be served.
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
	CheckSearchBackend  = "search_backend"
	CheckCache          = "cache"
	CheckCircuitBreaker = "circuit_breaker"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	backend Pinger
	cache   Pinger
	breaker Breaker
}

// New creates a Service. cache and breaker can be nil when not configured.
func New(backend, cache Pinger, breaker Breaker) *Service {
	return &Service{backend: backend, cache: cache, breaker: breaker}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.backend.Ping(ctx); err != nil {
		checks[CheckSearchBackend] = CheckError
		status = Unhealthy
	} else {
		checks[CheckSearchBackend] = CheckOK
	}

	if s.cache != nil {
		checks[CheckCache] = probe(ctx, s.cache)
	}
	if s.breaker != nil {
		checks[CheckCircuitBreaker] = CheckOK
		if s.breaker.IsOpen() {
			checks[CheckCircuitBreaker] = CheckError
		}
	}

	if status == Healthy {
		for _, v := range checks {
			if v == CheckError {
				status = Degraded
				break
			}
		}
	}

	return Report{Status: status, Checks: checks}
}

func probe(ctx context.Context, p Pinger) CheckResult {
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
