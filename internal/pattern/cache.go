package pattern

import (
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/golang/groupcache/singleflight"
)

// DefaultCacheSize is used when a cache is created with a non-positive size.
const DefaultCacheSize = 100

// Cache holds compiled patterns keyed by pattern text. The least recently
// used pattern is evicted first. Concurrent misses on the same pattern
// compile it once.
type Cache struct {
	mu      sync.Mutex // guards lru
	lru     *lru.Cache
	compile singleflight.Group
	config  Config
}

// NewCache creates a cache holding at most size patterns, each compiled
// with config.
func NewCache(size int, config Config) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{
		lru:    lru.New(size),
		config: config,
	}
}

// Get returns the compiled Regex for pattern and whether it was already
// cached. On a miss the pattern is compiled and stored. Patterns that
// fail to compile are not stored.
func (c *Cache) Get(pattern string) (re *Regex, hit bool, err error) {
	c.mu.Lock()
	v, ok := c.lru.Get(pattern)
	c.mu.Unlock()
	if ok {
		return v.(*Regex), true, nil
	}

	v, err = c.compile.Do(pattern, func() (interface{}, error) {
		re, err := CompileWithConfig(pattern, c.config)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.lru.Add(pattern, re)
		c.mu.Unlock()
		return re, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*Regex), false, nil
}

// Len returns the number of cached patterns.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Clear removes all cached patterns.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Clear()
}
