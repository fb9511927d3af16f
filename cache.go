package rextract

import (
	"github.com/kolkov/rextract/internal/pattern"
)

// Cache holds compiled matchers keyed by the literal pattern text.
// It is owned by the caller and safe for concurrent use.
type Cache struct {
	c *pattern.Cache
}

// NewCache creates a cache for at most size patterns compiled with config.
// A non-positive size selects the default of 100; a nil config uses the
// defaults. The least recently used pattern is evicted first.
func NewCache(size int, config *CompileConfig) *Cache {
	return &Cache{c: pattern.NewCache(size, config.internal())}
}

// Get returns the matcher for text and whether it was already cached,
// compiling and storing it on a miss. Patterns that fail to compile are
// not stored.
func (c *Cache) Get(text string) (m *Matcher, cached bool, err error) {
	re, cached, err := c.c.Get(text)
	if err != nil {
		return nil, false, &PatternError{Pattern: text, Err: err}
	}
	return &Matcher{re: re}, cached, nil
}

// Len returns the number of cached patterns.
func (c *Cache) Len() int {
	return c.c.Len()
}

// Clear removes all cached patterns.
func (c *Cache) Clear() {
	c.c.Clear()
}
