package api

import (
	"sync"

	"github.com/sitepulse/sitepulse/internal/store"
)

// SnapshotCache is a thread-safe LRU cache of stored snapshots keyed by day.
type SnapshotCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*store.Snapshot
	order   []string // oldest first
}

// NewSnapshotCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 64.
func NewSnapshotCache(maxSize int) *SnapshotCache {
	if maxSize <= 0 {
		maxSize = 64
	}
	return &SnapshotCache{
		maxSize: maxSize,
		entries: make(map[string]*store.Snapshot),
	}
}

// Get retrieves a snapshot from the cache, or nil if not found.
func (c *SnapshotCache) Get(day string) *store.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, ok := c.entries[day]
	if !ok {
		return nil
	}
	c.moveToEnd(day)
	return snap
}

// Put adds a snapshot to the cache, evicting the oldest if full.
func (c *SnapshotCache) Put(day string, snap *store.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[day]; ok {
		c.entries[day] = snap
		c.moveToEnd(day)
		return
	}

	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[day] = snap
	c.order = append(c.order, day)
}

// Invalidate drops a day, e.g. after it was rescored.
func (c *SnapshotCache) Invalidate(day string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[day]; !ok {
		return
	}
	delete(c.entries, day)
	for i, k := range c.order {
		if k == day {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Len reports the number of cached snapshots.
func (c *SnapshotCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *SnapshotCache) moveToEnd(day string) {
	for i, k := range c.order {
		if k == day {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, day)
			return
		}
	}
}
