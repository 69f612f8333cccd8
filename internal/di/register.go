package di

import "github.com/samber/do/v2"

// RegisterSingletons registers all service providers as singletons.
// Services are registered in dependency order:
// 1. Config (no dependencies)
// 2. Logger (depends on Config)
// 3. Cache (depends on Config)
// 4. RegexCache (depends on Cache) - shared SFE filter compile cache
// 5. HealthTracker (depends on Config, Logger)
// 6. Policy (depends on Config) - connection policy, rate-limited
// 7. Audit (depends on Logger) - policy decision audit sink
// 8. Registry (no dependencies) - process-wide connection set
// 9. Executor (no dependencies) - single-threaded scheduler, starts Run()
// 10. Observability (depends on Registry, HealthTracker)
// 11. ByteStreamListener (depends on Registry, Policy, Executor, Logger)
// 12. FrameStreamListener (depends on Registry, Policy, Executor, Logger, Observability).
func RegisterSingletons(i do.Injector) {
	do.Provide(i, NewConfig)
	do.Provide(i, NewLogger)
	do.Provide(i, NewCache)
	do.Provide(i, NewRegexCache)
	do.Provide(i, NewHealthTracker)
	do.Provide(i, NewPolicy)
	do.Provide(i, NewAudit)
	do.Provide(i, NewRegistry)
	do.Provide(i, NewExecutor)
	do.Provide(i, NewObservability)
	do.Provide(i, NewByteStreamListener)
	do.Provide(i, NewFrameStreamListener)
}
