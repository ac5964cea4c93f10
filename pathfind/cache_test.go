package pathfind

import (
	"reflect"
	"sync"
	"testing"
)

func TestCache_CopiesOnPutAndGet(t *testing.T) {
	c := NewCache(4)
	path := []Coordinate{{0, 0}, {1, 0}}
	c.Put(1, path)

	path[0] = Coordinate{9, 9}
	got, ok := c.Get(1)
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if got[0] != (Coordinate{0, 0}) {
		t.Errorf("Cache observed caller mutation: %v", got)
	}

	got[1] = Coordinate{7, 7}
	again, _ := c.Get(1)
	if again[1] != (Coordinate{1, 0}) {
		t.Errorf("Cache observed mutation of a returned path: %v", again)
	}
}

func TestCache_StoresEmptyPath(t *testing.T) {
	c := NewCache(4)
	c.Put(1, nil)

	got, ok := c.Get(1)
	if !ok {
		t.Fatal("Expected empty result to be cached")
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Expected non-nil empty path, got %#v", got)
	}
}

func TestCache_ClearsEverythingAtCapacity(t *testing.T) {
	c := NewCache(2)
	c.Put(1, []Coordinate{{1, 1}})
	c.Put(2, []Coordinate{{2, 2}})
	c.Put(3, []Coordinate{{3, 3}})

	if c.Len() != 1 {
		t.Errorf("Expected only the newest entry after overflow, got %d entries", c.Len())
	}
	if _, ok := c.Get(1); ok {
		t.Error("Expected key 1 to be flushed")
	}
	if _, ok := c.Get(3); !ok {
		t.Error("Expected key 3 to survive")
	}

	stats := c.Stats()
	if stats.Flushes != 1 {
		t.Errorf("Expected 1 flush, got %d", stats.Flushes)
	}
	if stats.Stores != 3 {
		t.Errorf("Expected 3 stores, got %d", stats.Stores)
	}
}

func TestCache_OverwriteAtCapacityKeepsEntries(t *testing.T) {
	c := NewCache(2)
	c.Put(1, []Coordinate{{1, 1}})
	c.Put(2, []Coordinate{{2, 2}})
	c.Put(2, []Coordinate{{4, 4}})

	if c.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", c.Len())
	}
	got, _ := c.Get(2)
	if !reflect.DeepEqual(got, []Coordinate{{4, 4}}) {
		t.Errorf("Expected overwritten path, got %v", got)
	}
}

func TestCache_Defaults(t *testing.T) {
	c := NewCache(0)
	if c.Capacity() != DefaultCacheBase*DefaultCacheMultiplier {
		t.Errorf("Expected default capacity %d, got %d", DefaultCacheBase*DefaultCacheMultiplier, c.Capacity())
	}
}

func TestCache_StatsAndClear(t *testing.T) {
	c := NewCache(8)
	c.Put(1, []Coordinate{{0, 0}})
	c.Get(1)
	c.Get(2)

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Entries != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Expected empty cache after Clear, got %d", c.Len())
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := NewCache(16)
	var wg sync.WaitGroup

	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := uint64((worker*31 + i) % 40)
				c.Put(key, []Coordinate{{X: int(key), Y: worker}})
				if path, ok := c.Get(key); ok && len(path) != 1 {
					t.Errorf("Torn read of key %d: %v", key, path)
				}
			}
		}(worker)
	}
	wg.Wait()

	if c.Len() > c.Capacity() {
		t.Errorf("Cache grew past capacity: %d > %d", c.Len(), c.Capacity())
	}
}
