package memory

import (
	"time"

	"patent-scout-be/pkg/orchestrator"

	"github.com/patrickmn/go-cache"
)

// LiveSessionRepository holds the runtimes of sessions with recent
// activity. Idle sessions fall out after the TTL; their last snapshot
// lives in the session record store.
type LiveSessionRepository struct {
	cache *cache.Cache
}

func NewLiveSessionRepository(ttl time.Duration) *LiveSessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	return &LiveSessionRepository{
		cache: c,
	}
}

func (r *LiveSessionRepository) Save(rt *orchestrator.Runtime) {
	r.cache.Set(rt.ID(), rt, cache.DefaultExpiration)
}

func (r *LiveSessionRepository) Get(sessionID string) (*orchestrator.Runtime, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*orchestrator.Runtime), true
	}
	return nil, false
}

// Touch refreshes the TTL of an active session.
func (r *LiveSessionRepository) Touch(sessionID string) {
	if x, found := r.cache.Get(sessionID); found {
		r.cache.Set(sessionID, x, cache.DefaultExpiration)
	}
}

func (r *LiveSessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
