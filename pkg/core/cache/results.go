package cache

import (
	"time"
)

// Outcome is the memoized result of evaluating one expression. Failures
// are cached too: evaluation is deterministic for a given policy set.
type Outcome struct {
	Value float64
	Err   error
}

// ResultCache memoizes expression outcomes per policy set
type ResultCache struct {
	cache *Cache
}

// ResultsConfig holds configuration for the result cache
type ResultsConfig struct {
	MaxEntries int           // Max cached expressions (default: 1000)
	TTL        time.Duration // Lifetime of an outcome (default: 10 minutes)
}

// NewResultCache creates a new result cache
func NewResultCache(cfg ResultsConfig) *ResultCache {
	return &ResultCache{
		cache: New(Config{
			MaxItems: cfg.MaxEntries,
			TTL:      cfg.TTL,
		}),
	}
}

// resultKey scopes an expression by the policies that shaped its outcome
func resultKey(policy, expression string) string {
	return policy + "\x00" + expression
}

// Evaluate returns the cached outcome for expression or computes it with
// eval. The boolean reports a cache hit.
func (r *ResultCache) Evaluate(policy, expression string, eval func(string) (float64, error)) (float64, bool, error) {
	key := resultKey(policy, expression)

	if cached, ok := r.cache.Get(key); ok {
		outcome := cached.(Outcome)
		return outcome.Value, true, outcome.Err
	}

	value, err := eval(expression)
	r.cache.Set(key, Outcome{Value: value, Err: err})
	return value, false, err
}

// Len returns the number of cached outcomes
func (r *ResultCache) Len() int {
	return r.cache.Size()
}

// HitRate returns the hit rate in percent
func (r *ResultCache) HitRate() float64 {
	_, _, rate := r.cache.Stats()
	return rate
}

// Clear drops every cached outcome
func (r *ResultCache) Clear() {
	r.cache.Clear()
}

// Close stops the underlying cache
func (r *ResultCache) Close() {
	r.cache.Close()
}
