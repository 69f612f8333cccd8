package sfe

import (
	"context"
	"errors"
	"regexp"
	"sync"

	"github.com/canberks/riotbroker/internal/cache"
)

// RegexCache is the optional process-wide compile cache for regex filter
// nodes (SPEC_FULL.md §11's shared SFE compile cache), distinct from
// internal/broker's mandatory per-connection expression_cache: many
// connections subscribing the same literal or bare-token filter
// (`'battery_low'`) would otherwise each pay regexp.Compile for an
// identical pattern.
//
// A *regexp.Regexp can't cross the wire, so the local sync.Map is always
// the source of truth for the compiled object; the internal/cache.Cache
// backend only ever stores a presence marker for patterns that compiled.
// Nothing reads that marker to skip compilation: a pattern missing from
// the local map is always compiled locally.
type RegexCache struct {
	backend cache.Cache
	local   sync.Map // string -> *regexp.Regexp
}

// NewRegexCache wraps backend (nil disables the shared presence marker,
// leaving only the local in-process map).
func NewRegexCache(backend cache.Cache) *RegexCache {
	return &RegexCache{backend: backend}
}

// sharedRegexCache is consulted by parser.regex when set. Left nil (the
// default), every regex literal is compiled fresh per parse, which is
// correct but redundant across connections sharing a filter.
var sharedRegexCache *RegexCache

// SetRegexCache installs the process-wide compile cache. Pass nil to
// disable caching.
func SetRegexCache(rc *RegexCache) {
	sharedRegexCache = rc
}

// compileAnchored compiles raw as a whole-string-anchored regex, consulting
// the shared cache if one is installed.
func compileAnchored(raw string) (*regexp.Regexp, error) {
	if sharedRegexCache == nil {
		return regexp.Compile(`\A(?:` + raw + `)\z`)
	}
	return sharedRegexCache.compile(context.Background(), raw)
}

func (c *RegexCache) compile(ctx context.Context, raw string) (*regexp.Regexp, error) {
	pattern := `\A(?:` + raw + `)\z`
	if v, ok := c.local.Load(pattern); ok {
		return v.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	c.local.Store(pattern, re)

	if c.backend != nil {
		if _, getErr := c.backend.Get(ctx, pattern); errors.Is(getErr, cache.ErrNotFound) {
			_ = c.backend.Set(ctx, pattern, []byte{1})
		}
	}
	return re, nil
}
