package simplify

import (
	"container/list"
	"sync"

	"github.com/evanjt/veloq-sub002/internal/section"
)

// Cache is a bounded LRU of simplified polylines keyed by track identity.
// Simplification is deterministic, so entries never go stale on their own;
// they are evicted by capacity or invalidated when the owning section's
// matches change.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

type cacheEntry struct {
	key    string
	points []section.Point
}

// NewCache creates a cache holding at most capacity entries. A capacity <= 0
// defaults to 128.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 128
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Get returns the cached simplified polyline for key, if present.
func (c *Cache) Get(key string) ([]section.Point, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).points, true
}

// Put stores a simplified polyline, evicting the least recently used entry
// when the cache is full.
func (c *Cache) Put(key string, points []section.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).points = points
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&cacheEntry{key: key, points: points})
	c.entries[key] = el

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// Invalidate drops a single entry, e.g. when an activity's section matches
// were recomputed.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.Remove(el)
		delete(c.entries, key)
	}
}

// Clear empties the cache, e.g. on a section change.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.entries = make(map[string]*list.Element)
}

// Len reports the number of cached polylines.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
