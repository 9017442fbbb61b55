// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package roomcache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ibanezbetes/trinity-sub002/internal/events"
	"github.com/ibanezbetes/trinity-sub002/internal/exclusion"
	"github.com/ibanezbetes/trinity-sub002/internal/logging"
	"github.com/ibanezbetes/trinity-sub002/internal/metrics"
	"github.com/ibanezbetes/trinity-sub002/internal/models"
	"github.com/ibanezbetes/trinity-sub002/internal/resilience"
	"github.com/ibanezbetes/trinity-sub002/internal/store"
)

// Fetcher is the part of the orchestrator the manager uses.
type Fetcher interface {
	Fetch(ctx context.Context, req resilience.Request) *resilience.Result
	Forget(roomID string)
}

// Options wires a Manager. Store and Events may be nil.
type Options struct {
	Fetcher    Fetcher
	Store      store.Store
	Exclusions *exclusion.Tracker
	Events     events.Publisher

	BatchSize  int
	MaxBatches int
	TTL        time.Duration
}

// Manager owns every room cache in the process.
type Manager struct {
	mu    sync.Mutex
	rooms map[string]*room

	fetcher    Fetcher
	store      store.Store
	exclusions *exclusion.Tracker
	events     events.Publisher

	batchSize  int
	maxBatches int
	ttl        time.Duration

	logger zerolog.Logger
	now    func() time.Time
}

// NewManager creates a manager.
func NewManager(opts Options) *Manager {
	if opts.Events == nil {
		opts.Events = events.Nop{}
	}
	if opts.Exclusions == nil {
		opts.Exclusions = exclusion.NewTracker(nil, opts.TTL)
	}
	return &Manager{
		rooms:      make(map[string]*room),
		fetcher:    opts.Fetcher,
		store:      opts.Store,
		exclusions: opts.Exclusions,
		events:     opts.Events,
		batchSize:  opts.BatchSize,
		maxBatches: opts.MaxBatches,
		ttl:        opts.TTL,
		logger:     logging.WithComponent("roomcache"),
		now:        time.Now,
	}
}

func validateRoomID(roomID string) error {
	if roomID == "" || strings.Contains(roomID, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidRoomID, roomID)
	}
	return nil
}

// acquire returns the room with its lock held. A room missing from memory is
// rehydrated from the store.
func (m *Manager) acquire(ctx context.Context, roomID string) (*room, error) {
	for {
		m.mu.Lock()
		r, ok := m.rooms[roomID]
		if ok {
			m.mu.Unlock()
			r.mu.Lock()
			if r.gone {
				r.mu.Unlock()
				continue
			}
			if r.expired(m.now()) {
				m.expireLocked(ctx, r)
				r.mu.Unlock()
				return nil, fmt.Errorf("%w: %s", ErrRoomExpired, roomID)
			}
			return r, nil
		}

		r = newRoom(roomID)
		r.mu.Lock()
		m.rooms[roomID] = r
		m.mu.Unlock()

		if err := m.restoreLocked(ctx, r); err != nil {
			m.discardLocked(r)
			r.mu.Unlock()
			return nil, err
		}
		m.setActiveGauge()
		return r, nil
	}
}

// reserve returns the registered room for roomID, or registers a new empty
// one. Either way the room is returned locked; created tells which.
func (m *Manager) reserve(roomID string) (r *room, created bool) {
	for {
		m.mu.Lock()
		if existing, ok := m.rooms[roomID]; ok {
			m.mu.Unlock()
			existing.mu.Lock()
			if existing.gone {
				existing.mu.Unlock()
				continue
			}
			return existing, false
		}
		r = newRoom(roomID)
		r.mu.Lock()
		m.rooms[roomID] = r
		m.mu.Unlock()
		return r, true
	}
}

// discardLocked removes r from the registry. Caller holds r.mu.
func (m *Manager) discardLocked(r *room) {
	r.gone = true
	m.mu.Lock()
	if m.rooms[r.id] == r {
		delete(m.rooms, r.id)
	}
	m.mu.Unlock()
	m.setActiveGauge()
}

func (m *Manager) setActiveGauge() {
	m.mu.Lock()
	n := len(m.rooms)
	m.mu.Unlock()
	metrics.RoomCacheActiveRooms.Set(float64(n))
}

// restoreLocked fills r from persisted metadata and batches.
func (m *Manager) restoreLocked(ctx context.Context, r *room) error {
	if m.store == nil {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, r.id)
	}
	meta, err := m.store.GetRoomMeta(ctx, r.id)
	if err != nil {
		if !errors.Is(err, store.ErrRoomNotFound) {
			logging.Ctx(ctx).Warn().Err(err).Str("room_id", r.id).Msg("Room metadata unavailable, cannot restore")
		}
		return fmt.Errorf("%w: %s", ErrRoomNotFound, r.id)
	}
	if meta.Status != models.RoomStatusActive || meta.Expired(m.now()) {
		return fmt.Errorf("%w: %s", ErrRoomExpired, r.id)
	}

	for batch := 1; batch <= meta.BatchesLoaded(); batch++ {
		entries, err := m.store.GetByBatch(ctx, r.id, batch)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("room_id", r.id).Int("batch", batch).Msg("Room batch unavailable, cannot restore")
			return fmt.Errorf("%w: %s", ErrRoomNotFound, r.id)
		}
		for i := range entries {
			c := entries[i].Candidate
			if _, dup := r.used[c.ContentID]; dup {
				continue
			}
			r.used[c.ContentID] = struct{}{}
			r.candidates = append(r.candidates, c)
		}
	}

	r.filter = meta.Filter
	r.batchSizes = append([]int(nil), meta.BatchSizes...)
	r.threshold = meta.NextRefillThreshold
	r.cursor = min(meta.Cursor, len(r.candidates))
	r.exhausted = meta.Exhausted
	r.createdAt = meta.CreatedAt
	r.ttl = meta.TTL
	r.status = models.RoomStatusActive

	if len(r.candidates) != meta.TotalCandidates {
		logging.Ctx(ctx).Warn().
			Str("room_id", r.id).
			Int("expected", meta.TotalCandidates).
			Int("restored", len(r.candidates)).
			Msg("Restored room is missing candidates")
	}
	logging.Ctx(ctx).Info().
		Str("room_id", r.id).
		Int("batches", len(r.batchSizes)).
		Int("candidates", len(r.candidates)).
		Int("cursor", r.cursor).
		Msg("Room cache restored from store")
	return nil
}

// CreateCache builds a room's first batch. Creating a room that already
// exists returns its current status without fetching.
func (m *Manager) CreateCache(ctx context.Context, roomID string, filter models.FilterCriteria) (*models.RoomCacheStatus, error) {
	if err := validateRoomID(roomID); err != nil {
		return nil, err
	}
	if !filter.MediaKind.Valid() {
		return nil, fmt.Errorf("%w: media kind %q", ErrInvalidFilter, filter.MediaKind)
	}

	r, err := m.acquire(ctx, roomID)
	if err == nil {
		defer r.mu.Unlock()
		return r.snapshot(m.maxBatches), nil
	}
	if !errors.Is(err, ErrRoomNotFound) && !errors.Is(err, ErrRoomExpired) {
		return nil, err
	}

	r, created := m.reserve(roomID)
	defer r.mu.Unlock()
	if !created {
		return r.snapshot(m.maxBatches), nil
	}
	if err := m.createLocked(ctx, r, filter); err != nil {
		m.discardLocked(r)
		return nil, err
	}
	m.setActiveGauge()
	return r.snapshot(m.maxBatches), nil
}

func (m *Manager) createLocked(ctx context.Context, r *room, filter models.FilterCriteria) error {
	now := m.now()
	r.filter = filter
	r.createdAt = now.UTC()
	r.ttl = now.Add(m.ttl).Unix()

	// Leftover rows from an earlier incarnation must not leak in. When they
	// cannot be cleared the room stays memory-only for its lifetime.
	if m.store != nil {
		if err := m.store.DeleteRoom(ctx, r.id); err != nil {
			r.detached = true
			logging.Ctx(ctx).Warn().Err(err).Str("room_id", r.id).Msg("Failed to clear previous room rows, room will not be persisted")
		}
	}
	m.fetcher.Forget(r.id)

	res := m.fetcher.Fetch(ctx, resilience.Request{
		RoomID: r.id,
		Filter: filter,
		Limit:  m.batchSize,
	})
	batch := sortedCopy(res.Candidates)
	added := r.appendBatch(batch)
	if len(added) == 0 {
		logging.Ctx(ctx).Error().Str("room_id", r.id).Str("source", string(res.Source)).Msg("Room cache creation produced no candidates")
		return fmt.Errorf("%w: room %s: no candidates from any source", ErrCreationFailed, r.id)
	}

	m.persistBatchLocked(ctx, r, 1, added)
	m.persistMetaLocked(ctx, r)
	metrics.RoomCacheBatchesLoaded.WithLabelValues(string(res.Source)).Inc()

	logging.Ctx(ctx).Info().
		Str("room_id", r.id).
		Str("media_kind", string(filter.MediaKind)).
		Ints("genres", filter.GenreIDs).
		Int("candidates", len(added)).
		Int("threshold", r.threshold).
		Str("source", string(res.Source)).
		Msg("Room cache created")

	m.events.Publish(ctx, events.Event{Type: events.TypeCacheCreated, RoomID: r.id, TotalCandidates: len(r.candidates)})
	m.events.Publish(ctx, events.Event{
		Type:            events.TypeBatchLoaded,
		RoomID:          r.id,
		BatchNumber:     1,
		Count:           len(added),
		TotalCandidates: len(r.candidates),
		Source:          string(res.Source),
	})
	return nil
}

func sortedCopy(cs []models.Candidate) []models.Candidate {
	out := make([]models.Candidate, len(cs))
	copy(out, cs)
	models.SortCandidates(out)
	return out
}

// LoadNextBatch fetches one more batch, excluding every candidate the room
// already holds and every ID in the room's exclusion set. An empty fetch is
// reported through Exhausted, not as an error.
func (m *Manager) LoadNextBatch(ctx context.Context, roomID string) (*models.BatchResponse, error) {
	if err := validateRoomID(roomID); err != nil {
		return nil, err
	}
	r, err := m.acquire(ctx, roomID)
	if err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	return m.loadNextBatchLocked(ctx, r)
}

func (m *Manager) loadNextBatchLocked(ctx context.Context, r *room) (*models.BatchResponse, error) {
	if len(r.batchSizes) >= m.maxBatches {
		metrics.RoomCacheMaxBatchesRejections.Inc()
		return nil, fmt.Errorf("%w: room %s has %d of %d batches", ErrMaxBatchesExceeded, r.id, len(r.batchSizes), m.maxBatches)
	}

	exclude := m.exclusions.Snapshot(ctx, r.id)
	for id := range r.used {
		exclude[id] = struct{}{}
	}

	batchNumber := len(r.batchSizes) + 1
	req := resilience.Request{
		RoomID:      r.id,
		Filter:      r.filter,
		BatchNumber: batchNumber,
		Exclude:     exclude,
		Limit:       m.batchSize,
	}
	if r.detached {
		// Stored rows under this room ID belong to someone else.
		req.BatchNumber = 0
	}
	res := m.fetcher.Fetch(ctx, req)

	added := r.appendBatch(sortedCopy(res.Candidates))
	if len(added) == 0 {
		first := !r.exhausted
		r.exhausted = true
		m.persistMetaLocked(ctx, r)
		if first {
			metrics.RoomCacheExhausted.Inc()
			m.events.Publish(ctx, events.Event{Type: events.TypeContentExhausted, RoomID: r.id, TotalCandidates: len(r.candidates)})
		}
		logging.Ctx(ctx).Info().Str("room_id", r.id).Int("total", len(r.candidates)).Msg("No more candidates for room")
		return &models.BatchResponse{BatchNumber: len(r.batchSizes), Candidates: []models.Candidate{}, Source: string(res.Source), Exhausted: true}, nil
	}

	r.exhausted = false
	m.persistBatchLocked(ctx, r, batchNumber, added)
	m.persistMetaLocked(ctx, r)
	metrics.RoomCacheBatchesLoaded.WithLabelValues(string(res.Source)).Inc()

	logging.Ctx(ctx).Info().
		Str("room_id", r.id).
		Int("batch", batchNumber).
		Int("added", len(added)).
		Int("total", len(r.candidates)).
		Int("threshold", r.threshold).
		Str("source", string(res.Source)).
		Msg("Batch loaded")
	m.events.Publish(ctx, events.Event{
		Type:            events.TypeBatchLoaded,
		RoomID:          r.id,
		BatchNumber:     batchNumber,
		Count:           len(added),
		TotalCandidates: len(r.candidates),
		Source:          string(res.Source),
	})
	return &models.BatchResponse{BatchNumber: batchNumber, Candidates: added, Source: string(res.Source)}, nil
}

// GetNext hands out the candidate at the cursor and advances it, loading the
// next batch first when the cursor has reached the refill threshold. A nil
// Candidate with Exhausted set means there is nothing left to show.
func (m *Manager) GetNext(ctx context.Context, roomID string) (*models.NextCandidateResponse, error) {
	if err := validateRoomID(roomID); err != nil {
		return nil, err
	}
	r, err := m.acquire(ctx, roomID)
	if err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	// An exhausted room retries only once it has nothing left to hand out.
	if r.cursor >= r.threshold && len(r.batchSizes) < m.maxBatches && (!r.exhausted || r.cursor >= len(r.candidates)) {
		metrics.RoomCacheRefills.Inc()
		if _, err := m.loadNextBatchLocked(ctx, r); err != nil {
			// Only ErrMaxBatchesExceeded is possible and the cap was checked above.
			logging.Ctx(ctx).Warn().Err(err).Str("room_id", r.id).Msg("Read-ahead refill failed")
		}
	}

	if r.cursor >= len(r.candidates) {
		return &models.NextCandidateResponse{Cursor: r.cursor, Exhausted: true}, nil
	}

	c := r.candidates[r.cursor]
	r.cursor++
	if err := m.exclusions.TrackShown(ctx, r.id, []string{c.ContentID}); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("room_id", r.id).Msg("Failed to track shown candidate")
	}
	m.persistMetaLocked(ctx, r)

	return &models.NextCandidateResponse{Candidate: &c, Cursor: r.cursor}, nil
}

// Status returns a snapshot without changing the room.
func (m *Manager) Status(ctx context.Context, roomID string) (*models.RoomCacheStatus, error) {
	if err := validateRoomID(roomID); err != nil {
		return nil, err
	}
	r, err := m.acquire(ctx, roomID)
	if err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	return r.snapshot(m.maxBatches), nil
}

// RefreshTTL moves the room's expiry to now+ttl, in memory and in the store.
// A store update that stops part-way is returned; an unreachable store is
// logged and absorbed like every other store failure.
func (m *Manager) RefreshTTL(ctx context.Context, roomID string, ttl time.Duration) (*models.RoomCacheStatus, error) {
	if err := validateRoomID(roomID); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl must be positive, got %s", ttl)
	}
	r, err := m.acquire(ctx, roomID)
	if err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	r.ttl = m.now().Add(ttl).Unix()
	if m.store != nil && !r.detached {
		if err := m.store.SetTTL(ctx, r.id, r.ttl); err != nil {
			if errors.Is(err, store.ErrPartialTTLUpdate) {
				return r.snapshot(m.maxBatches), err
			}
			logging.Ctx(ctx).Warn().Err(err).Str("room_id", r.id).Msg("Failed to refresh stored TTL")
		}
	}
	logging.Ctx(ctx).Info().Str("room_id", r.id).Time("expires_at", time.Unix(r.ttl, 0)).Msg("Room TTL refreshed")
	return r.snapshot(m.maxBatches), nil
}

// Cleanup drops the room from memory and deletes its cache rows. The room's
// exclusion set is kept in the store; only its in-memory copy is released.
// Cleaning up an unknown room is not an error.
func (m *Manager) Cleanup(ctx context.Context, roomID string) error {
	if err := validateRoomID(roomID); err != nil {
		return err
	}

	m.mu.Lock()
	r, ok := m.rooms[roomID]
	m.mu.Unlock()
	if ok {
		r.mu.Lock()
		if !r.gone {
			m.discardLocked(r)
		}
		r.mu.Unlock()
	}

	m.fetcher.Forget(roomID)
	m.exclusions.Forget(roomID)
	if m.store != nil {
		if err := m.store.DeleteRoom(ctx, roomID); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("room_id", roomID).Msg("Failed to delete stored room cache")
		}
	}

	logging.Ctx(ctx).Info().Str("room_id", roomID).Bool("was_loaded", ok).Msg("Room cache cleaned up")
	m.events.Publish(ctx, events.Event{Type: events.TypeCacheCleaned, RoomID: roomID})
	return nil
}

// expireLocked marks r EXPIRED, persists that and drops it from memory.
func (m *Manager) expireLocked(ctx context.Context, r *room) {
	r.status = models.RoomStatusExpired
	m.persistMetaLocked(ctx, r)
	m.discardLocked(r)
	m.fetcher.Forget(r.id)
	m.exclusions.Forget(r.id)
	metrics.RoomCacheExpired.Inc()
	logging.Ctx(ctx).Info().Str("room_id", r.id).Msg("Room cache expired")
	m.events.Publish(ctx, events.Event{Type: events.TypeCacheExpired, RoomID: r.id, TotalCandidates: len(r.candidates)})
}

// Sweep expires every room past its TTL, in memory and in the store's
// active index. It returns the number of rooms expired.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	now := m.now()
	expired := 0

	m.mu.Lock()
	loaded := make([]*room, 0, len(m.rooms))
	for _, r := range m.rooms {
		loaded = append(loaded, r)
	}
	m.mu.Unlock()

	inMemory := make(map[string]struct{}, len(loaded))
	for _, r := range loaded {
		r.mu.Lock()
		inMemory[r.id] = struct{}{}
		if !r.gone && r.expired(now) {
			m.expireLocked(ctx, r)
			expired++
		}
		r.mu.Unlock()
	}

	if m.store == nil {
		return expired, nil
	}
	active, err := m.store.ListRoomsByStatus(ctx, models.RoomStatusActive)
	if err != nil {
		return expired, fmt.Errorf("list active rooms: %w", err)
	}
	for _, id := range active {
		if _, ok := inMemory[id]; ok {
			continue
		}
		meta, err := m.store.GetRoomMeta(ctx, id)
		if err != nil || !meta.Expired(now) {
			continue
		}
		meta.Status = models.RoomStatusExpired
		meta.UpdatedAt = now.UTC()
		if err := m.store.PutRoomMeta(ctx, meta); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("room_id", id).Msg("Failed to mark stored room expired")
			continue
		}
		m.exclusions.Forget(id)
		m.fetcher.Forget(id)
		metrics.RoomCacheExpired.Inc()
		m.events.Publish(ctx, events.Event{Type: events.TypeCacheExpired, RoomID: id, TotalCandidates: meta.TotalCandidates})
		expired++
	}
	return expired, nil
}

// Rooms returns the number of rooms held in memory.
func (m *Manager) Rooms() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// TrackShown records content shown in a room outside GetNext.
func (m *Manager) TrackShown(ctx context.Context, roomID string, contentIDs []string) error {
	if err := validateRoomID(roomID); err != nil {
		return err
	}
	return m.exclusions.TrackShown(ctx, roomID, contentIDs)
}

// Excluded returns the room's exclusion set.
func (m *Manager) Excluded(ctx context.Context, roomID string) ([]string, error) {
	if err := validateRoomID(roomID); err != nil {
		return nil, err
	}
	return m.exclusions.GetExcluded(ctx, roomID), nil
}

// ClearExclusions empties the room's exclusion set.
func (m *Manager) ClearExclusions(ctx context.Context, roomID string) error {
	if err := validateRoomID(roomID); err != nil {
		return err
	}
	return m.exclusions.Clear(ctx, roomID)
}

func (m *Manager) persistBatchLocked(ctx context.Context, r *room, batchNumber int, batch []models.Candidate) {
	if m.store == nil || r.detached {
		return
	}
	if _, err := m.store.StoreBatch(ctx, r.id, batchNumber, batch, r.ttl); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("room_id", r.id).Int("batch", batchNumber).Msg("Failed to persist batch")
	}
}

func (m *Manager) persistMetaLocked(ctx context.Context, r *room) {
	if m.store == nil || r.detached {
		return
	}
	meta := r.metadata(m.now().UTC())
	meta.BatchSize = m.batchSize
	if err := m.store.PutRoomMeta(ctx, meta); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("room_id", r.id).Msg("Failed to persist room metadata")
	}
}
