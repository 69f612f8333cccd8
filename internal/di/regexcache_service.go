package di

import (
	"github.com/samber/do/v2"

	"github.com/canberks/riotbroker/internal/sfe"
)

// RegexCacheService wraps the process-wide SFE filter-regex compile cache
// and installs it as sfe's shared cache on construction.
type RegexCacheService struct {
	Cache *sfe.RegexCache
}

// NewRegexCache builds the regex cache on top of the configured backend
// cache (nil when caching is disabled, leaving only the in-process map)
// and installs it via sfe.SetRegexCache so every parsed filter consults it.
func NewRegexCache(i do.Injector) (*RegexCacheService, error) {
	cacheSvc := do.MustInvoke[*CacheService](i)

	rc := sfe.NewRegexCache(cacheSvc.Cache)
	sfe.SetRegexCache(rc)

	return &RegexCacheService{Cache: rc}, nil
}
