package screens

import "sync"

// Cache maps screen identifiers to sanitized markup. Entries are written once
// per key until Reset.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Get returns the cached markup for id.
func (c *Cache) Get(id string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	html, ok := c.entries[id]
	return html, ok
}

// Put stores markup for id, replacing any previous entry.
func (c *Cache) Put(id, html string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = html
}

// Len returns the number of cached screens.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
}
