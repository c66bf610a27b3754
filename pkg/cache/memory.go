package cache

import (
	"context"
	"sync"
	"time"
)

// Memory cache defaults.
const (
	DefaultMaxEntries    = 10000
	DefaultSweepInterval = 5 * time.Minute
)

// MemoryOption configures a [MemoryCache].
type MemoryOption func(*MemoryCache)

// WithMaxEntries caps the number of stored entries; 0 or less disables the
// cap.
func WithMaxEntries(n int) MemoryOption { return func(c *MemoryCache) { c.maxEntries = n } }

// WithSweepInterval sets how often expired entries are purged; 0 or less
// disables the background sweep.
func WithSweepInterval(d time.Duration) MemoryOption { return func(c *MemoryCache) { c.sweepEvery = d } }

// MemoryCache keeps entries in a process-local map. Expired entries are
// purged by a background sweep, and inserts beyond the entry cap evict an
// existing entry. It is safe for concurrent use.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]cacheEntry
	now        func() time.Time
	maxEntries int
	sweepEvery time.Duration

	stopSweep chan struct{}
	stopOnce  sync.Once
}

// NewMemoryCache creates an empty in-memory cache and starts its sweep
// loop. Call Close to stop it.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		entries:    make(map[string]cacheEntry),
		now:        time.Now,
		maxEntries: DefaultMaxEntries,
		sweepEvery: DefaultSweepInterval,
		stopSweep:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sweepEvery > 0 {
		go c.sweepLoop()
	}
	return c
}

func (c *MemoryCache) sweepLoop() {
	ticker := time.NewTicker(c.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-c.stopSweep:
			return
		}
	}
}

// Sweep removes expired entries and returns how many were removed.
func (c *MemoryCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked(c.now())
}

func (c *MemoryCache) sweepLocked(now time.Time) int {
	n := 0
	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

// Get returns a copy of the stored value; expired entries are evicted.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if entry.expired(c.now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), entry.Data...), true, nil
}

// Set stores a copy of data. When the cache is full, expired entries are
// purged first and then the entry closest to expiry is evicted.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	now := c.now()
	entry := cacheEntry{Data: append([]byte(nil), data...)}
	if ttl > 0 {
		entry.ExpiresAt = now.Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		if c.sweepLocked(now) == 0 {
			c.evictLocked()
		}
	}
	c.entries[key] = entry
	return nil
}

// evictLocked drops the entry that expires first.
func (c *MemoryCache) evictLocked() {
	victim, found := "", false
	var soonest time.Time
	for key, entry := range c.entries {
		if found && !expiresBefore(entry.ExpiresAt, soonest) {
			continue
		}
		victim, soonest, found = key, entry.ExpiresAt, true
	}
	if found {
		delete(c.entries, victim)
	}
}

// expiresBefore orders expiry times with the zero time (never) last.
func expiresBefore(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	return b.IsZero() || a.Before(b)
}

// Delete removes key.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, including expired ones not yet
// swept.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the sweep loop and drops all entries. It is safe to call more
// than once.
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stopSweep) })
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
