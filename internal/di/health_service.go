package di

import (
	"sync/atomic"

	"github.com/samber/do/v2"

	"github.com/canberks/riotbroker/internal/config"
	"github.com/canberks/riotbroker/internal/health"
)

// HealthTrackerService wraps the per-connection circuit breaker tracker for
// DI, with atomic swap support so a config hot-reload can re-seed
// health.CircuitBreakerConfig without invalidating handlers already
// holding a *health.Tracker reference from an earlier Get.
type HealthTrackerService struct {
	tracker atomic.Pointer[health.Tracker]
	cfgSvc  *ConfigService
	logger  *LoggerService
}

// Get returns the current circuit breaker tracker (lock-free read).
func (s *HealthTrackerService) Get() *health.Tracker {
	return s.tracker.Load()
}

// NewHealthTracker creates the circuit breaker tracker from configuration,
// rebuilding it from the current health.CircuitBreakerConfig on every
// config hot-reload.
func NewHealthTracker(i do.Injector) (*HealthTrackerService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	loggerSvc := do.MustInvoke[*LoggerService](i)

	svc := &HealthTrackerService{cfgSvc: cfgSvc, logger: loggerSvc}
	svc.tracker.Store(health.NewTracker(cfgSvc.Config.Health.CircuitBreaker, loggerSvc.Logger))
	svc.startWatching()

	return svc, nil
}

func (s *HealthTrackerService) startWatching() {
	if s.cfgSvc.watcher == nil {
		return
	}
	s.cfgSvc.watcher.OnReload(func(newCfg *config.Config) error {
		s.tracker.Store(health.NewTracker(newCfg.Health.CircuitBreaker, s.logger.Logger))
		return nil
	})
}
