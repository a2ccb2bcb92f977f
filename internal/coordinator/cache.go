package coordinator

import (
	"encoding/json"
	"time"

	"github.com/jonboulle/clockwork"
)

// responseCache keeps recent operation results keyed by operation type plus
// canonicalized args. Entries expire after a fixed TTL that is independent
// of the per-request timeout: a cached result can outlive several timeout
// windows. Expiry is a stored instant compared against the clock on each
// access, so tests drive it with a fake clock instead of wall-time waits.
//
// All access happens on the coordinator actor goroutine; no locking needed.
type responseCache struct {
	entries map[string]cacheEntry
	ttl     time.Duration
	clock   clockwork.Clock
}

type cacheEntry struct {
	result   json.RawMessage
	storedAt time.Time
}

func newResponseCache(ttl time.Duration, clock clockwork.Clock) *responseCache {
	return &responseCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

func (c *responseCache) get(key string) (json.RawMessage, bool) {
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock.Since(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.result, true
}

func (c *responseCache) set(key string, result json.RawMessage) {
	c.entries[key] = cacheEntry{result: result, storedAt: c.clock.Now()}
}

func (c *responseCache) evictExpired() int {
	evicted := 0
	for key, entry := range c.entries {
		if c.clock.Since(entry.storedAt) >= c.ttl {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}
