// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package roomcache

import (
	"sync"
	"time"

	"github.com/ibanezbetes/trinity-sub002/internal/models"
)

// room is the in-memory state of one room cache. All fields are guarded by mu.
type room struct {
	mu sync.Mutex

	id         string
	filter     models.FilterCriteria
	candidates []models.Candidate // position == sequence index
	used       map[string]struct{}
	batchSizes []int
	threshold  int
	cursor     int
	status     models.RoomStatus
	exhausted  bool
	createdAt  time.Time
	ttl        int64 // epoch seconds

	// detached rooms are never written to the store.
	detached bool

	// gone is set once the room left the registry; holders of a stale
	// pointer must look the room up again.
	gone bool
}

func newRoom(id string) *room {
	return &room{
		id:     id,
		used:   make(map[string]struct{}),
		status: models.RoomStatusActive,
	}
}

func (r *room) expired(now time.Time) bool {
	return r.ttl > 0 && now.Unix() > r.ttl
}

// appendBatch adds the candidates not already used, in the given order, and
// moves the refill threshold. It returns what was actually appended.
func (r *room) appendBatch(batch []models.Candidate) []models.Candidate {
	before := len(r.candidates)
	added := make([]models.Candidate, 0, len(batch))
	for _, c := range batch {
		if c.ContentID == "" {
			continue
		}
		if _, dup := r.used[c.ContentID]; dup {
			continue
		}
		r.used[c.ContentID] = struct{}{}
		r.candidates = append(r.candidates, c)
		added = append(added, c)
	}
	if len(added) == 0 {
		return added
	}
	r.batchSizes = append(r.batchSizes, len(added))
	r.threshold = before + refillOffset(len(added))
	return added
}

// refillOffset is floor(n*0.8) in integer arithmetic.
func refillOffset(n int) int {
	return n * 4 / 5
}

func (r *room) metadata(now time.Time) *models.RoomMetadata {
	return &models.RoomMetadata{
		RoomID:              r.id,
		Filter:              r.filter,
		Status:              r.status,
		BatchSizes:          append([]int(nil), r.batchSizes...),
		TotalCandidates:     len(r.candidates),
		NextRefillThreshold: r.threshold,
		Cursor:              r.cursor,
		Exhausted:           r.exhausted,
		CreatedAt:           r.createdAt,
		UpdatedAt:           now,
		TTL:                 r.ttl,
	}
}

func (r *room) snapshot(maxBatches int) *models.RoomCacheStatus {
	st := &models.RoomCacheStatus{
		RoomID:              r.id,
		Status:              r.status,
		Filter:              r.filter,
		BatchesLoaded:       len(r.batchSizes),
		MaxBatches:          maxBatches,
		TotalCandidates:     len(r.candidates),
		Cursor:              r.cursor,
		Remaining:           len(r.candidates) - r.cursor,
		NextRefillThreshold: r.threshold,
		Exhausted:           r.exhausted,
		CreatedAt:           r.createdAt,
	}
	if r.ttl > 0 {
		st.ExpiresAt = time.Unix(r.ttl, 0).UTC()
	}
	return st
}
