package cache

import (
	"sync"
	"time"
)

// Entry represents a cached item with expiration
type Entry struct {
	Value      interface{}
	Expiration time.Time
	created    time.Time
}

// IsExpired checks if the entry has expired
func (e *Entry) IsExpired() bool {
	if e.Expiration.IsZero() {
		return false // Never expires
	}
	return time.Now().After(e.Expiration)
}

// Cache is a thread-safe in-memory cache with TTL support
type Cache struct {
	mu       sync.RWMutex
	items    map[string]*Entry
	maxItems int
	ttl      time.Duration

	// Metrics
	hits   int64
	misses int64

	stop     chan struct{}
	stopOnce sync.Once
}

// Config holds cache configuration
type Config struct {
	MaxItems        int
	TTL             time.Duration
	CleanupInterval time.Duration
}

// DefaultConfig returns default cache configuration
func DefaultConfig() Config {
	return Config{
		MaxItems:        1000,
		TTL:             10 * time.Minute,
		CleanupInterval: time.Minute,
	}
}

// New creates a new cache instance. Close stops its cleanup goroutine.
func New(cfg Config) *Cache {
	defaults := DefaultConfig()
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = defaults.MaxItems
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaults.TTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaults.CleanupInterval
	}

	c := &Cache{
		items:    make(map[string]*Entry),
		maxItems: cfg.MaxItems,
		ttl:      cfg.TTL,
		stop:     make(chan struct{}),
	}

	go c.cleanupLoop(cfg.CleanupInterval)

	return c
}

// Get retrieves a value from the cache
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.items[key]
	if !exists {
		c.misses++
		return nil, false
	}

	if entry.IsExpired() {
		delete(c.items, key)
		c.misses++
		return nil, false
	}

	c.hits++
	return entry.Value, true
}

// Set stores a value in the cache with the default TTL
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		c.evictOldest()
	}

	now := time.Now()
	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}

	c.items[key] = &Entry{
		Value:      value,
		Expiration: exp,
		created:    now,
	}
}

// Clear removes all items from the cache
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*Entry)
}

// Size returns the number of items in the cache
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats returns cache statistics
func (c *Cache) Stats() (hits, misses int64, hitRate float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	hits = c.hits
	misses = c.misses
	total := hits + misses
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return
}

// Close stops the cleanup goroutine
func (c *Cache) Close() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

// evictOldest removes the entry inserted first (must be called with lock held)
func (c *Cache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.items {
		if oldestKey == "" || entry.created.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.created
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

// cleanupLoop periodically removes expired entries
func (c *Cache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// cleanup removes all expired entries
func (c *Cache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.items {
		if entry.IsExpired() {
			delete(c.items, key)
		}
	}
}
