// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package exclusion

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ibanezbetes/trinity-sub002/internal/logging"
	"github.com/ibanezbetes/trinity-sub002/internal/models"
)

// ErrEmptyRoomID is returned when an operation names no room.
var ErrEmptyRoomID = errors.New("room id is required")

// Persister is the durable side of the tracker. store.Store satisfies it.
type Persister interface {
	AddExclusions(ctx context.Context, roomID string, contentIDs []string, ttl int64) error
	LoadExclusions(ctx context.Context, roomID string) ([]string, error)
	ClearExclusions(ctx context.Context, roomID string) error
}

type roomSet struct {
	mu     sync.Mutex
	ids    map[string]struct{}
	loaded bool
}

// Tracker holds one exclusion set per room.
type Tracker struct {
	mu    sync.Mutex
	rooms map[string]*roomSet

	persist Persister
	ttl     time.Duration
	logger  zerolog.Logger
	now     func() time.Time
}

// NewTracker creates a tracker. persist may be nil for a memory-only tracker;
// ttl sets the expiry of persisted rows relative to each write.
func NewTracker(persist Persister, ttl time.Duration) *Tracker {
	return &Tracker{
		rooms:   make(map[string]*roomSet),
		persist: persist,
		ttl:     ttl,
		logger:  logging.WithComponent("exclusion"),
		now:     time.Now,
	}
}

// room returns the set for roomID, creating it on first use.
func (t *Tracker) room(roomID string) *roomSet {
	t.mu.Lock()
	defer t.mu.Unlock()
	rs, ok := t.rooms[roomID]
	if !ok {
		rs = &roomSet{ids: make(map[string]struct{})}
		t.rooms[roomID] = rs
	}
	return rs
}

// ensureLoaded merges persisted IDs into rs. Caller holds rs.mu.
// A failed load is retried on the next access.
func (t *Tracker) ensureLoaded(ctx context.Context, roomID string, rs *roomSet) {
	if rs.loaded || t.persist == nil {
		rs.loaded = true
		return
	}
	ids, err := t.persist.LoadExclusions(ctx, roomID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("room_id", roomID).Msg("Failed to load persisted exclusions, using in-memory set")
		return
	}
	for _, id := range ids {
		rs.ids[id] = struct{}{}
	}
	rs.loaded = true
}

// TrackShown unions contentIDs into the room's set. Tracking an empty list,
// or IDs already present, changes nothing.
func (t *Tracker) TrackShown(ctx context.Context, roomID string, contentIDs []string) error {
	if roomID == "" {
		return ErrEmptyRoomID
	}
	if len(contentIDs) == 0 {
		return nil
	}

	rs := t.room(roomID)
	rs.mu.Lock()
	defer rs.mu.Unlock()
	t.ensureLoaded(ctx, roomID, rs)

	var added []string
	for _, id := range contentIDs {
		if id == "" {
			continue
		}
		if _, ok := rs.ids[id]; ok {
			continue
		}
		rs.ids[id] = struct{}{}
		added = append(added, id)
	}

	if len(added) > 0 && t.persist != nil {
		expiry := t.now().Add(t.ttl).Unix()
		if err := t.persist.AddExclusions(ctx, roomID, added, expiry); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("room_id", roomID).Int("count", len(added)).Msg("Failed to persist exclusions")
		}
	}
	return nil
}

// GetExcluded returns the room's set in ascending content ID order.
func (t *Tracker) GetExcluded(ctx context.Context, roomID string) []string {
	if roomID == "" {
		return nil
	}
	rs := t.room(roomID)
	rs.mu.Lock()
	defer rs.mu.Unlock()
	t.ensureLoaded(ctx, roomID, rs)

	out := make([]string, 0, len(rs.ids))
	for id := range rs.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return models.ContentIDLess(out[i], out[j]) })
	return out
}

// Snapshot returns a copy of the room's set for membership checks.
func (t *Tracker) Snapshot(ctx context.Context, roomID string) map[string]struct{} {
	if roomID == "" {
		return map[string]struct{}{}
	}
	rs := t.room(roomID)
	rs.mu.Lock()
	defer rs.mu.Unlock()
	t.ensureLoaded(ctx, roomID, rs)

	out := make(map[string]struct{}, len(rs.ids))
	for id := range rs.ids {
		out[id] = struct{}{}
	}
	return out
}

// Clear empties one room's set, in memory and in the Persister.
func (t *Tracker) Clear(ctx context.Context, roomID string) error {
	if roomID == "" {
		return ErrEmptyRoomID
	}
	rs := t.room(roomID)
	rs.mu.Lock()
	defer rs.mu.Unlock()

	n := len(rs.ids)
	rs.ids = make(map[string]struct{})
	// Persisted rows must not reappear through a later lazy load.
	rs.loaded = true

	if t.persist != nil {
		if err := t.persist.ClearExclusions(ctx, roomID); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("room_id", roomID).Msg("Failed to clear persisted exclusions")
		}
	}
	t.logger.Debug().Str("room_id", roomID).Int("cleared", n).Msg("Exclusions cleared")
	return nil
}

// Forget drops the in-memory set without touching the Persister.
func (t *Tracker) Forget(roomID string) {
	t.mu.Lock()
	delete(t.rooms, roomID)
	t.mu.Unlock()
}

// Rooms returns the number of rooms with an in-memory set.
func (t *Tracker) Rooms() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rooms)
}
