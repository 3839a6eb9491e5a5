// Package cache keeps a bounded set of loaded models, evicting the
// least recently used when full.
package cache

import (
	"errors"
	"fmt"
	"sync"

	"github.com/chessmind/engine/internal/model"
)

// ErrBadCapacity reports a non-positive cache capacity.
var ErrBadCapacity = errors.New("cache capacity must be positive")

// Loader resolves a model id to a loaded handle.
type Loader interface {
	Load(id string) (model.Handle, error)
}

// Cache is a strict LRU over model handles. All methods are safe for
// concurrent use; loads run outside the lock so a slow load never
// blocks hits on other ids.
type Cache struct {
	mu       sync.Mutex
	loader   Loader
	capacity int
	entries  map[string]model.Handle
	order    []string // least recently used first
}

// New creates a cache holding at most capacity models.
func New(capacity int, loader Loader) (*Cache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadCapacity, capacity)
	}
	return &Cache{
		loader:   loader,
		capacity: capacity,
		entries:  make(map[string]model.Handle),
		order:    make([]string, 0, capacity),
	}, nil
}

// Get returns the model for id, loading it on a miss. A failed load
// caches nothing and returns the loader's error wrapped. When two
// goroutines load the same id at once, the later insert wins and the
// id is still counted once against capacity.
func (c *Cache) Get(id string) (model.Handle, error) {
	c.mu.Lock()
	if h, ok := c.entries[id]; ok {
		c.touch(id)
		c.mu.Unlock()
		return h, nil
	}
	c.mu.Unlock()

	h, err := c.loader.Load(id)
	if err != nil {
		return nil, fmt.Errorf("load model %q: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[id]; ok {
		// A concurrent load finished first; keep the newest handle.
		c.entries[id] = h
		c.touch(id)
		return h, nil
	}
	c.insert(id, h)
	return h, nil
}

// Put inserts or replaces the model for id. Replacing an entry
// refreshes its recency and never evicts.
func (c *Cache) Put(id string, h model.Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[id]; ok {
		c.entries[id] = h
		c.touch(id)
		return
	}
	c.insert(id, h)
}

// Preload gets each id in order, skipping failures, and returns how
// many of the requested ids are resident afterwards.
func (c *Cache) Preload(ids []string) int {
	for _, id := range ids {
		if _, err := c.Get(id); err != nil {
			continue
		}
	}
	resident := 0
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if c.Contains(id) {
			resident++
		}
	}
	return resident
}

// Contains reports whether id is resident without touching recency.
func (c *Cache) Contains(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[id]
	return ok
}

// Len returns the number of resident models.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Remove evicts id and reports whether it was resident.
func (c *Cache) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[id]; !ok {
		return false
	}
	delete(c.entries, id)
	for i := range c.order {
		if c.order[i] == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear evicts everything.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]model.Handle)
	c.order = c.order[:0]
}

// touch moves an existing id to the most recently used slot.
// Callers hold the lock.
func (c *Cache) touch(id string) {
	for i := range c.order {
		if c.order[i] == id {
			copy(c.order[i:], c.order[i+1:])
			c.order[len(c.order)-1] = id
			return
		}
	}
}

// insert adds a new id, evicting the least recently used entries
// while the cache is full. Callers hold the lock.
func (c *Cache) insert(id string, h model.Handle) {
	for len(c.entries) >= c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[id] = h
	c.order = append(c.order, id)
}
