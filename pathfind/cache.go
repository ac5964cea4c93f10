package pathfind

import "sync"

// CacheStats is a point-in-time view of a Cache
type CacheStats struct {
	Entries  int    `json:"entries"`
	Capacity int    `json:"capacity"`
	Hits     uint64 `json:"hits"`
	Misses   uint64 `json:"misses"`
	Stores   uint64 `json:"stores"`
	Flushes  uint64 `json:"flushes"`
}

// Cache memoizes computed paths by request fingerprint.
//
// Every operation is a single critical section. The cache never holds more
// than its capacity: when a store finds it full, every entry is dropped first.
// Paths are copied on the way in and on the way out.
type Cache struct {
	mu       sync.Mutex
	entries  map[uint64][]Coordinate
	capacity int

	hits    uint64
	misses  uint64
	stores  uint64
	flushes uint64
}

// NewCache creates a cache holding at most capacity paths. A capacity below
// one falls back to DefaultCacheBase * DefaultCacheMultiplier.
func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = DefaultCacheBase * DefaultCacheMultiplier
	}
	return &Cache{
		entries:  make(map[uint64][]Coordinate),
		capacity: capacity,
	}
}

// Get returns a copy of the path stored under key
func (c *Cache) Get(key uint64) ([]Coordinate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	path, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	return copyPath(path), true
}

// Put stores a copy of path under key. A nil path is stored as empty.
func (c *Cache) Put(key uint64, path []Coordinate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		clear(c.entries)
		c.flushes++
	}
	c.entries[key] = copyPath(path)
	c.stores++
}

// Len returns the number of stored paths
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the maximum number of stored paths
func (c *Cache) Capacity() int {
	return c.capacity
}

// Clear drops every entry
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.flushes++
}

// Stats returns counters and the current size
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Entries:  len(c.entries),
		Capacity: c.capacity,
		Hits:     c.hits,
		Misses:   c.misses,
		Stores:   c.stores,
		Flushes:  c.flushes,
	}
}
