// Package modulecache implements the fixed-capacity, FNV-1a bucketed module
// cache from spec.md §4.4: a single-thread-only, grow-free hash map from a
// normalized key to evaluated exports, with per-entry access statistics.
package modulecache

import (
	"fmt"
	"hash/fnv"
	"sync/atomic"
	"time"
)

// entry is one cached module's value plus its statistics.
type entry struct {
	key        string
	value      interface{}
	firstLoad  time.Time
	lastAccess atomic.Int64 // unix nanos, advisory per the Design Notes
	hits       atomic.Int64
}

// Stats is a snapshot of one entry's access statistics.
type Stats struct {
	FirstLoad  time.Time
	LastAccess time.Time
	Hits       int64
}

// Cache is the bucketed hash table described in spec.md §4.4. It does not
// deep-copy values; it holds references whose lifetime equals the
// runtime's.
type Cache struct {
	buckets  [][]*entry
	capacity int
	size     int
}

const defaultBucketCount = 256

// New returns a Cache sized for at most capacity entries. capacity <= 0
// means unbounded (sized only by available memory, still a grow-only
// table as spec.md §9 notes).
func New(capacity int) *Cache {
	return &Cache{
		buckets:  make([][]*entry, defaultBucketCount),
		capacity: capacity,
	}
}

func bucketIndex(key string, numBuckets int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % numBuckets
}

// Get returns the cached value for key, incrementing its hit counter and
// updating last-access on a hit.
func (c *Cache) Get(key string) (interface{}, bool) {
	idx := bucketIndex(key, len(c.buckets))
	for _, e := range c.buckets[idx] {
		if e.key == key {
			e.hits.Add(1)
			e.lastAccess.Store(time.Now().UnixNano())
			return e.value, true
		}
	}
	return nil, false
}

// Put inserts or replaces the value for key. Replacing an existing key
// resets its statistics. Inserting when the cache is at capacity returns an
// error; there is no eviction policy, per spec.md §9.
func (c *Cache) Put(key string, value interface{}) error {
	idx := bucketIndex(key, len(c.buckets))
	for _, e := range c.buckets[idx] {
		if e.key == key {
			e.value = value
			e.firstLoad = time.Now()
			e.hits.Store(0)
			e.lastAccess.Store(0)
			return nil
		}
	}
	if c.capacity > 0 && c.size >= c.capacity {
		return fmt.Errorf("module cache at capacity (%d entries)", c.capacity)
	}
	e := &entry{key: key, value: value, firstLoad: time.Now()}
	c.buckets[idx] = append(c.buckets[idx], e)
	c.size++
	return nil
}

// Delete removes key's cache entry, if present. Used by loaders to undo a
// speculative insert on evaluation failure, per spec.md §4.7.
func (c *Cache) Delete(key string) {
	idx := bucketIndex(key, len(c.buckets))
	bucket := c.buckets[idx]
	for i, e := range bucket {
		if e.key == key {
			c.buckets[idx] = append(bucket[:i], bucket[i+1:]...)
			c.size--
			return
		}
	}
}

// StatsFor returns the access statistics for key, if cached.
func (c *Cache) StatsFor(key string) (Stats, bool) {
	idx := bucketIndex(key, len(c.buckets))
	for _, e := range c.buckets[idx] {
		if e.key == key {
			var last time.Time
			if ns := e.lastAccess.Load(); ns != 0 {
				last = time.Unix(0, ns)
			}
			return Stats{FirstLoad: e.firstLoad, LastAccess: last, Hits: e.hits.Load()}, true
		}
	}
	return Stats{}, false
}

// Len returns the number of cached entries.
func (c *Cache) Len() int { return c.size }
