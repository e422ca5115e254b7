package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// QuotaRepository counts free-tier searches per anonymous visitor
// fingerprint. Counters expire after 30 days, matching the cookie the
// client keeps the fingerprint in. Best-effort: a restart resets counts.
type QuotaRepository struct {
	cache *cache.Cache
}

func NewQuotaRepository() *QuotaRepository {
	c := cache.New(30*24*time.Hour, time.Hour)
	return &QuotaRepository{
		cache: c,
	}
}

// Increment bumps the counter for a fingerprint and returns the new count.
func (r *QuotaRepository) Increment(fingerprint string) int {
	if err := r.cache.Add(fingerprint, 1, cache.DefaultExpiration); err == nil {
		return 1
	}
	n, err := r.cache.IncrementInt(fingerprint, 1)
	if err != nil {
		r.cache.Set(fingerprint, 1, cache.DefaultExpiration)
		return 1
	}
	return n
}

// Count returns the current counter without incrementing.
func (r *QuotaRepository) Count(fingerprint string) int {
	if x, found := r.cache.Get(fingerprint); found {
		if n, ok := x.(int); ok {
			return n
		}
	}
	return 0
}
