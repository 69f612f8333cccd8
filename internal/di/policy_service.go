package di

import (
	"github.com/samber/do/v2"

	"github.com/canberks/riotbroker/internal/config"
	"github.com/canberks/riotbroker/internal/policy"
	"github.com/canberks/riotbroker/internal/ratelimit"
)

// PolicyService wraps the connection policy used by every listener.
// Policy is a *policy.AtomicPolicy so listeners constructed once at
// startup keep seeing reloaded limits: only the policy it wraps is
// swapped on hot-reload, never the interface value handed to listeners.
type PolicyService struct {
	Policy *policy.AtomicPolicy
}

// newRateLimiterFactory returns a RateLimiterFactory reading its
// triggers-per-minute limit from cfg. Only TokenBucketLimiter implements
// the per-connection Allow/Wait interface RateLimitedPolicy needs; the
// ro_native backend operates on reactive streams (ratelimit.Limit), not
// on a single connection's trigger check, and so has no bearing here.
func newRateLimiterFactory(cfg config.RateLimiterConfig) policy.RateLimiterFactory {
	tpm := cfg.TriggersPerMinute
	return func() ratelimit.RateLimiter {
		return ratelimit.NewTokenBucketLimiter(tpm)
	}
}

// buildPolicy assembles a DefaultPolicy from cfg's getters, wrapped in a
// RateLimitedPolicy whenever a triggers-per-minute ceiling is configured.
func buildPolicy(cfg config.PolicyConfig) policy.Policy {
	base := &policy.DefaultPolicy{
		HeaderMaxMessageBytes: cfg.GetHeaderMessageMaxBytes(),
		HeaderMaxTotalBytes:   cfg.GetHeaderTotalMaxBytes(),
		MinTriggerInterval:    cfg.GetMinTriggerInterval(),
		Freeze:                cfg.GetFreezeDuration(),
		KeepAlive:             cfg.GetKeepAlivePeriod(),
	}

	if cfg.RateLimiter.TriggersPerMinute <= 0 {
		return base
	}

	return policy.NewRateLimitedPolicy(base, newRateLimiterFactory(cfg.RateLimiter))
}

// NewPolicy builds the connection policy from configuration.
func NewPolicy(i do.Injector) (*PolicyService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)

	svc := &PolicyService{Policy: policy.NewAtomicPolicy(buildPolicy(cfgSvc.Config.Policy))}
	svc.startWatching(cfgSvc)

	return svc, nil
}

func (s *PolicyService) startWatching(cfgSvc *ConfigService) {
	if cfgSvc.watcher == nil {
		return
	}
	cfgSvc.watcher.OnReload(func(newCfg *config.Config) error {
		s.Policy.Store(buildPolicy(newCfg.Policy))
		return nil
	})
}
