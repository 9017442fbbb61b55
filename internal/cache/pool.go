// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package cache

import (
	"time"

	"github.com/ibanezbetes/trinity-sub002/internal/metrics"
	"github.com/ibanezbetes/trinity-sub002/internal/models"
)

// Pool holds not-yet-served candidates per room.
type Pool struct {
	c *Cache
}

// NewPool creates a pool whose per-room entries expire ttl after their last write.
func NewPool(ttl, cleanupInterval time.Duration) *Pool {
	return &Pool{c: New(ttl, cleanupInterval)}
}

func poolKey(roomID string) string {
	return "pool:" + roomID
}

// Put appends candidates to the room's pool, skipping IDs already pooled.
func (p *Pool) Put(roomID string, candidates []models.Candidate) {
	if len(candidates) == 0 {
		return
	}
	p.c.Update(poolKey(roomID), func(old interface{}, found bool) interface{} {
		var pooled []models.Candidate
		if found {
			pooled = old.([]models.Candidate)
		}
		seen := make(map[string]struct{}, len(pooled)+len(candidates))
		merged := make([]models.Candidate, 0, len(pooled)+len(candidates))
		for _, c := range pooled {
			seen[c.ContentID] = struct{}{}
			merged = append(merged, c)
		}
		for _, c := range candidates {
			if _, dup := seen[c.ContentID]; dup {
				continue
			}
			seen[c.ContentID] = struct{}{}
			merged = append(merged, c)
		}
		return merged
	})
}

// Take removes and returns up to limit pooled candidates whose IDs are not
// in exclude. Excluded candidates found in the pool are discarded, since
// they can never be offered to the room again.
func (p *Pool) Take(roomID string, exclude map[string]struct{}, limit int) []models.Candidate {
	var taken []models.Candidate
	p.c.Update(poolKey(roomID), func(old interface{}, found bool) interface{} {
		if !found {
			return nil
		}
		pooled := old.([]models.Candidate)
		rest := make([]models.Candidate, 0, len(pooled))
		for _, c := range pooled {
			if _, excluded := exclude[c.ContentID]; excluded {
				continue
			}
			if len(taken) < limit {
				taken = append(taken, c)
				continue
			}
			rest = append(rest, c)
		}
		if len(rest) == 0 {
			return nil
		}
		return rest
	})

	if len(taken) > 0 {
		metrics.MemoryCacheHits.Inc()
	} else {
		metrics.MemoryCacheMisses.Inc()
	}
	return taken
}

// Len returns the number of pooled candidates for the room.
func (p *Pool) Len(roomID string) int {
	v, ok := p.c.Get(poolKey(roomID))
	if !ok {
		return 0
	}
	return len(v.([]models.Candidate))
}

// Drop forgets the room's pool.
func (p *Pool) Drop(roomID string) {
	p.c.Delete(poolKey(roomID))
}

// Stats returns the underlying cache statistics.
func (p *Pool) Stats() Stats {
	return p.c.GetStats()
}

// Close stops background cleanup.
func (p *Pool) Close() {
	p.c.Close()
}
