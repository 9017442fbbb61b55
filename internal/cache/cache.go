// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package cache

import (
	"sync"
	"time"
)

// Entry is a cached value with its expiry.
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Stats tracks cache effectiveness.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Cache is a thread-safe in-memory map with TTL expiry.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration

	statsMu sync.Mutex
	stats   Stats

	stop     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// New creates a cache whose entries live for ttl. A cleanup goroutine
// removes expired entries every cleanupInterval until Close is called.
// A non-positive cleanupInterval disables the goroutine.
func New(ttl, cleanupInterval time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		stop:    make(chan struct{}),
		now:     time.Now,
	}
	c.stats.LastCleanup = c.now()
	if cleanupInterval > 0 {
		go c.cleanupLoop(cleanupInterval)
	}
	return c
}

// Get returns the value for key if present and not expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.record(func(s *Stats) { s.Misses++ })
		return nil, false
	}

	if c.now().After(entry.ExpiresAt) {
		c.mu.Lock()
		// Re-check: a concurrent Set may have refreshed it.
		if cur, ok := c.entries[key]; ok && c.now().After(cur.ExpiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		c.record(func(s *Stats) { s.Misses++; s.Evictions++ })
		return nil, false
	}

	c.record(func(s *Stats) { s.Hits++ })
	return entry.Data, true
}

// Set stores value with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value with a custom TTL.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = Entry{Data: value, ExpiresAt: c.now().Add(ttl)}
	n := int64(len(c.entries))
	c.mu.Unlock()

	c.record(func(s *Stats) { s.TotalKeys = n })
}

// Update atomically replaces the value for key with fn(old, found).
// Returning nil deletes the key. The TTL is reset on every write.
func (c *Cache) Update(key string, fn func(old interface{}, found bool) interface{}) {
	c.mu.Lock()
	entry, found := c.entries[key]
	if found && c.now().After(entry.ExpiresAt) {
		found = false
		entry.Data = nil
	}
	next := fn(entry.Data, found)
	if next == nil {
		delete(c.entries, key)
	} else {
		c.entries[key] = Entry{Data: next, ExpiresAt: c.now().Add(c.ttl)}
	}
	n := int64(len(c.entries))
	c.mu.Unlock()

	c.record(func(s *Stats) { s.TotalKeys = n })
}

// Delete removes key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	_, existed := c.entries[key]
	delete(c.entries, key)
	n := int64(len(c.entries))
	c.mu.Unlock()

	c.record(func(s *Stats) {
		if existed {
			s.Evictions++
		}
		s.TotalKeys = n
	})
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	evicted := int64(len(c.entries))
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.record(func(s *Stats) {
		s.Evictions += evicted
		s.TotalKeys = 0
	})
}

// GetStats returns a snapshot of the statistics.
func (c *Cache) GetStats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

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

func (c *Cache) cleanup() {
	now := c.now()
	c.mu.Lock()
	var evicted int64
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	n := int64(len(c.entries))
	c.mu.Unlock()

	c.record(func(s *Stats) {
		s.Evictions += evicted
		s.TotalKeys = n
		s.LastCleanup = now
	})
}

func (c *Cache) record(fn func(*Stats)) {
	c.statsMu.Lock()
	fn(&c.stats)
	c.statsMu.Unlock()
}
