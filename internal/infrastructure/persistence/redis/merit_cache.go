package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/schoolhub/school-admin/internal/domain/academic"
	"github.com/schoolhub/school-admin/internal/domain/ranking"
	"github.com/schoolhub/school-admin/pkg/circuitbreaker"
)

// MeritCache implements ranking.MeritCache on top of Cache.
// Calls go through an optional circuit breaker; while it is open every call
// fails fast with circuitbreaker.ErrCircuitOpen.
//
// Every term/year has a generation counter, plus one shared by all scopes.
// Invalidation bumps the counter before deleting keys. A stored list carries
// the version it was computed under and only counts as a hit while that
// version is still current.
type MeritCache struct {
	cache   *Cache
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

var _ ranking.MeritCache = (*MeritCache)(nil)

// cachedMerit is the stored form of a merit list.
type cachedMerit struct {
	Version string               `json:"version"`
	Entries []ranking.MeritEntry `json:"entries"`
}

// NewMeritCache creates a merit cache. ttl <= 0 selects TTLRanking and a nil
// breaker disables fail-fast.
func NewMeritCache(cache *Cache, ttl time.Duration, breaker *circuitbreaker.CircuitBreaker) *MeritCache {
	if ttl <= 0 {
		ttl = TTLRanking
	}
	return &MeritCache{cache: cache, ttl: ttl, breaker: breaker}
}

func (m *MeritCache) call(ctx context.Context, fn func(context.Context) error) error {
	if m.breaker == nil {
		return fn(ctx)
	}
	return m.breaker.Execute(ctx, fn)
}

// meritVersion joins the term/year and global generations.
func meritVersion(scopeGen, allGen int64) string {
	return strconv.FormatInt(scopeGen, 10) + "." + strconv.FormatInt(allGen, 10)
}

// GetMerit returns the cached list of scope when it was computed under the
// current generation.
func (m *MeritCache) GetMerit(ctx context.Context, scope ranking.Scope) (ranking.MeritLookup, error) {
	var lookup ranking.MeritLookup

	err := m.call(ctx, func(ctx context.Context) error {
		gens, err := m.cache.Counters(ctx, MeritGenKey(scope.Year, string(scope.Term)), MeritGenAllKey)
		if err != nil {
			return err
		}
		lookup.Version = meritVersion(gens[0], gens[1])

		var cached cachedMerit
		err = m.cache.Get(ctx, MeritKey(scope.String()), &cached)
		if errors.Is(err, ErrCacheMiss) {
			return nil
		}
		if err != nil {
			return err
		}

		if cached.Version == lookup.Version {
			lookup.Entries = cached.Entries
			lookup.Hit = true
		}
		return nil
	})
	if err != nil {
		return ranking.MeritLookup{}, err
	}
	return lookup, nil
}

// SetMerit stores the list of scope under version. An empty list is cached as
// well.
func (m *MeritCache) SetMerit(ctx context.Context, scope ranking.Scope, version string, entries []ranking.MeritEntry) error {
	if entries == nil {
		entries = []ranking.MeritEntry{}
	}
	return m.call(ctx, func(ctx context.Context) error {
		return m.cache.Set(ctx, MeritKey(scope.String()), cachedMerit{Version: version, Entries: entries}, m.ttl)
	})
}

// Invalidate retires every cached scope of term/year, whatever the class.
func (m *MeritCache) Invalidate(ctx context.Context, term academic.Term, year string) error {
	return m.call(ctx, func(ctx context.Context) error {
		if err := m.cache.Incr(ctx, MeritGenKey(year, string(term))); err != nil {
			return err
		}
		return m.cache.DeleteByPattern(ctx, MeritPattern(year, string(term)))
	})
}

// InvalidateAll retires every cached merit list.
func (m *MeritCache) InvalidateAll(ctx context.Context) error {
	return m.call(ctx, func(ctx context.Context) error {
		if err := m.cache.Incr(ctx, MeritGenAllKey); err != nil {
			return err
		}
		return m.cache.DeleteByPattern(ctx, PrefixMerit+"*")
	})
}
