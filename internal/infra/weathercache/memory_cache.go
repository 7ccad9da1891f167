package weathercache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/yanqian/moodmate/internal/domain/weather"
)

type entry struct {
	snapshot  weather.Snapshot
	expiresAt time.Time
}

// MemoryCache keeps snapshots in process memory.
type MemoryCache struct {
	mu      sync.RWMutex
	clock   clockwork.Clock
	entries map[string]entry
}

// NewMemoryCache constructs a cache that expires entries against clock.
func NewMemoryCache(clock clockwork.Clock) *MemoryCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryCache{clock: clock, entries: make(map[string]entry)}
}

// Get implements weather.Cache. Expired entries are evicted on read.
func (c *MemoryCache) Get(_ context.Context, key string) (weather.Snapshot, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return weather.Snapshot{}, false, nil
	}
	if c.expired(e) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && c.expired(cur) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return weather.Snapshot{}, false, nil
	}
	return e.snapshot, true, nil
}

// Set implements weather.Cache. A non-positive ttl stores the entry without expiry.
func (c *MemoryCache) Set(_ context.Context, key string, snapshot weather.Snapshot, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = c.clock.Now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{snapshot: snapshot, expiresAt: exp}
	return nil
}

func (c *MemoryCache) expired(e entry) bool {
	if e.expiresAt.IsZero() {
		return false
	}
	return !c.clock.Now().Before(e.expiresAt)
}

var _ weather.Cache = (*MemoryCache)(nil)
