package di

import (
	"github.com/samber/do/v2"

	"github.com/canberks/riotbroker/internal/observability"
)

// ObservabilityService wraps the /healthz and /metrics handler shared by
// every listener that has Observability enabled.
type ObservabilityService struct {
	Handler *observability.Handler
}

// NewObservability builds the handler from the registry and health
// tracker, so it reports live connection counts and circuit-breaker state
// without owning either.
func NewObservability(i do.Injector) (*ObservabilityService, error) {
	registrySvc := do.MustInvoke[*RegistryService](i)
	healthSvc := do.MustInvoke[*HealthTrackerService](i)

	handler := observability.NewHandler(registrySvc.Registry, healthSvc.Get())

	return &ObservabilityService{Handler: handler}, nil
}
