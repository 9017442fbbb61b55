// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/ibanezbetes/trinity-sub002/internal/config"
	"github.com/ibanezbetes/trinity-sub002/internal/logging"
	"github.com/ibanezbetes/trinity-sub002/internal/metrics"
	"github.com/ibanezbetes/trinity-sub002/internal/models"
)

// ttlChunkSize bounds the rows rewritten per transaction in SetTTL and DeleteRoom.
const ttlChunkSize = 256

// BadgerStore implements Store on an embedded BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	grace  time.Duration
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool

	// now, update and chunkSize are swapped in tests.
	now       func() time.Time
	update    func(fn func(txn *badger.Txn) error) error
	chunkSize int
}

// Open opens (or creates) the Badger database described by cfg.
func Open(cfg *config.StoreConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
		opts.SyncWrites = cfg.SyncWrites
	}
	opts.Logger = nil // zerolog handles our logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", cfg.Path, err)
	}

	s := NewBadgerStore(db, cfg.ExpiryGrace)
	s.logger.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", cfg.SyncWrites).
		Dur("expiry_grace", cfg.ExpiryGrace).
		Msg("Room store opened")
	return s, nil
}

// NewBadgerStore wraps an already opened database.
func NewBadgerStore(db *badger.DB, grace time.Duration) *BadgerStore {
	return &BadgerStore{
		db:        db,
		grace:     grace,
		logger:    logging.WithComponent("store"),
		now:       time.Now,
		update:    db.Update,
		chunkSize: ttlChunkSize,
	}
}

// DB exposes the underlying database for maintenance jobs.
func (s *BadgerStore) DB() *badger.DB {
	return s.db
}

// Close closes the database. Further calls return ErrStoreUnavailable.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// RunValueLogGC reclaims value log space until Badger reports nothing to do.
func (s *BadgerStore) RunValueLogGC(discardRatio float64) (int, error) {
	if err := s.acquire(); err != nil {
		return 0, err
	}
	defer s.mu.RUnlock()

	rounds := 0
	for {
		err := s.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			return rounds, nil
		}
		if err != nil {
			return rounds, err
		}
		rounds++
	}
}

// acquire takes the read lock unless the store is closed.
func (s *BadgerStore) acquire() error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return fmt.Errorf("%w: store closed", ErrStoreUnavailable)
	}
	return nil
}

// begin combines the context check with the closed check. On success the
// caller holds the read lock and must release it.
func (s *BadgerStore) begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return s.acquire()
}

// beginRoom is begin plus room ID validation.
func (s *BadgerStore) beginRoom(ctx context.Context, roomID string) error {
	if err := validateRoomID(roomID); err != nil {
		return err
	}
	return s.begin(ctx)
}

// unavailable maps Badger failures to ErrStoreUnavailable, leaving the
// package's own sentinel errors untouched.
func unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		ErrEntryNotFound, ErrRoomNotFound, ErrInvalidRoomID,
		ErrBatchOutOfOrder, ErrPartialTTLUpdate, ErrStoreUnavailable,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}

// newEntry builds a Badger entry whose physical TTL trails the logical
// expiry by the grace period.
func (s *BadgerStore) newEntry(key, value []byte, ttl int64) *badger.Entry {
	e := badger.NewEntry(key, value)
	if ttl <= 0 {
		return e
	}
	d := time.Until(time.Unix(ttl, 0)) + s.grace
	if d < time.Second {
		d = time.Second
	}
	return e.WithTTL(d)
}

// StoreBatch implements Store.
func (s *BadgerStore) StoreBatch(ctx context.Context, roomID string, batchNumber int, candidates []models.Candidate, ttl int64) (entries []models.StoredEntry, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("store_batch", time.Since(start), err) }()

	if err := s.beginRoom(ctx, roomID); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	if batchNumber < 1 {
		return nil, fmt.Errorf("batch number must be >= 1, got %d", batchNumber)
	}

	existing := false
	err = s.db.Update(func(txn *badger.Txn) error {
		entries = entries[:0]

		// Idempotent per batch: a replay returns what is already stored.
		found, err := s.readBatch(txn, roomID, batchNumber)
		if err != nil {
			return err
		}
		if len(found) > 0 || s.batchIndexed(txn, roomID, batchNumber) {
			entries = found
			existing = true
			return nil
		}

		if batchNumber > 1 && !s.batchIndexed(txn, roomID, batchNumber-1) {
			return fmt.Errorf("%w: batch %d before batch %d", ErrBatchOutOfOrder, batchNumber, batchNumber-1)
		}

		offset, err := nextIndex(txn, roomID)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		for i := range candidates {
			entry := models.StoredEntry{
				RoomID:        roomID,
				SequenceIndex: offset + i,
				BatchNumber:   batchNumber,
				Candidate:     candidates[i],
				AddedAt:       now,
				TTL:           ttl,
			}
			data, err := json.Marshal(entry)
			if err != nil {
				return fmt.Errorf("marshal entry %d: %w", entry.SequenceIndex, err)
			}
			if err := txn.SetEntry(s.newEntry(seqKey(roomID, entry.SequenceIndex), data, ttl)); err != nil {
				return err
			}
			if err := txn.SetEntry(s.newEntry(batchKey(roomID, batchNumber, entry.SequenceIndex), nil, ttl)); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, unavailable("store_batch", err)
	}

	if existing {
		s.logger.Debug().
			Str("room_id", roomID).
			Int("batch", batchNumber).
			Int("entries", len(entries)).
			Msg("Batch already stored, returning existing entries")
	}
	return entries, nil
}

// batchIndexed reports whether any index key exists for the batch, readable or not.
func (s *BadgerStore) batchIndexed(txn *badger.Txn, roomID string, batchNumber int) bool {
	prefix := batchPrefix(roomID, batchNumber)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()
	it.Seek(prefix)
	return it.ValidForPrefix(prefix)
}

// nextIndex returns one past the highest sequence index stored for the room.
func nextIndex(txn *badger.Txn, roomID string) (int, error) {
	prefix := seqPrefix(roomID)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Reverse = true
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	seek := append(append([]byte{}, prefix...), 0xFF)
	it.Seek(seek)
	if !it.ValidForPrefix(prefix) {
		return 0, nil
	}
	last, err := indexFromKey(it.Item().Key())
	if err != nil {
		return 0, fmt.Errorf("parse sequence key %q: %w", it.Item().Key(), err)
	}
	return last + 1, nil
}

// GetByIndex implements Store.
func (s *BadgerStore) GetByIndex(ctx context.Context, roomID string, index int) (entry *models.StoredEntry, err error) {
	start := time.Now()
	defer func() {
		// Absence is a normal outcome, not a store error.
		var recorded error
		if err != nil && !errors.Is(err, ErrEntryNotFound) {
			recorded = err
		}
		metrics.RecordStoreOperation("get_by_index", time.Since(start), recorded)
	}()

	if err := s.beginRoom(ctx, roomID); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	if index < 0 {
		return nil, ErrEntryNotFound
	}

	err = s.db.View(func(txn *badger.Txn) error {
		var err error
		entry, err = s.readEntry(txn, roomID, index)
		return err
	})
	if err != nil {
		var corrupted *CorruptedEntryError
		if errors.As(err, &corrupted) {
			metrics.StoreCorruptedEntries.Inc()
			s.logger.Warn().Err(err).Str("room_id", roomID).Int("index", index).Msg("Corrupted entry treated as absent")
			return nil, err
		}
		return nil, unavailable("get_by_index", err)
	}
	return entry, nil
}

// readEntry loads and validates one sequence row.
func (s *BadgerStore) readEntry(txn *badger.Txn, roomID string, index int) (*models.StoredEntry, error) {
	item, err := txn.Get(seqKey(roomID, index))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	var entry models.StoredEntry
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &entry)
	}); err != nil {
		return nil, &CorruptedEntryError{RoomID: roomID, Index: index, Err: err}
	}
	if err := entry.Validate(); err != nil {
		return nil, &CorruptedEntryError{RoomID: roomID, Index: index, Err: err}
	}
	if entry.RoomID != roomID || entry.SequenceIndex != index {
		return nil, &CorruptedEntryError{
			RoomID: roomID,
			Index:  index,
			Err:    fmt.Errorf("row belongs to %s/%d", entry.RoomID, entry.SequenceIndex),
		}
	}
	if entry.Expired(s.now()) {
		return nil, ErrEntryNotFound
	}
	return &entry, nil
}

// GetByBatch implements Store.
func (s *BadgerStore) GetByBatch(ctx context.Context, roomID string, batchNumber int) (entries []models.StoredEntry, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("get_by_batch", time.Since(start), err) }()

	if err := s.beginRoom(ctx, roomID); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	err = s.db.View(func(txn *badger.Txn) error {
		var err error
		entries, err = s.readBatch(txn, roomID, batchNumber)
		return err
	})
	if err != nil {
		return nil, unavailable("get_by_batch", err)
	}
	return entries, nil
}

// readBatch walks the batch index in key order, skipping rows that are
// missing, expired or corrupted.
func (s *BadgerStore) readBatch(txn *badger.Txn, roomID string, batchNumber int) ([]models.StoredEntry, error) {
	prefix := batchPrefix(roomID, batchNumber)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix

	var indices []int
	it := txn.NewIterator(opts)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		idx, err := indexFromKey(it.Item().KeyCopy(nil))
		if err != nil {
			s.logger.Warn().Err(err).Str("room_id", roomID).Int("batch", batchNumber).Msg("Skipping malformed batch index key")
			continue
		}
		indices = append(indices, idx)
	}
	it.Close()

	entries := make([]models.StoredEntry, 0, len(indices))
	for _, idx := range indices {
		entry, err := s.readEntry(txn, roomID, idx)
		if err != nil {
			var corrupted *CorruptedEntryError
			if errors.As(err, &corrupted) {
				metrics.StoreCorruptedEntries.Inc()
				s.logger.Warn().Err(err).Str("room_id", roomID).Int("index", idx).Msg("Skipping corrupted entry")
				continue
			}
			if errors.Is(err, ErrEntryNotFound) {
				continue
			}
			return nil, err
		}
		if entry.BatchNumber != batchNumber {
			metrics.StoreCorruptedEntries.Inc()
			s.logger.Warn().Str("room_id", roomID).Int("index", idx).Int("batch", batchNumber).Int("stored_batch", entry.BatchNumber).Msg("Skipping entry indexed under the wrong batch")
			continue
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// SetTTL implements Store.
func (s *BadgerStore) SetTTL(ctx context.Context, roomID string, ttl int64) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("set_ttl", time.Since(start), err) }()

	if err := s.beginRoom(ctx, roomID); err != nil {
		return err
	}
	defer s.mu.RUnlock()

	type row struct {
		key   []byte
		value []byte
	}
	var rows []row
	var meta *models.RoomMetadata

	err = s.db.View(func(txn *badger.Txn) error {
		var err error
		meta, err = readMeta(txn, roomID)
		if err != nil {
			return err
		}

		prefix := roomKeyPrefix(roomID)
		metaK := metaKey(roomID)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			if bytes.Equal(key, metaK) {
				continue
			}
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if bytes.HasPrefix(key, seqPrefix(roomID)) {
				value = rewriteEntryTTL(value, ttl)
			}
			rows = append(rows, row{key: key, value: value})
		}

		// Exclusion rows expire with the room.
		exclOpts := badger.DefaultIteratorOptions
		exclOpts.PrefetchValues = false
		exclOpts.Prefix = exclRoomPrefix(roomID)
		ex := txn.NewIterator(exclOpts)
		defer ex.Close()
		for ex.Seek(exclOpts.Prefix); ex.ValidForPrefix(exclOpts.Prefix); ex.Next() {
			rows = append(rows, row{key: ex.Item().KeyCopy(nil)})
		}
		return nil
	})
	if err != nil {
		return unavailable("set_ttl", err)
	}

	// Metadata and its status index go last so a partial failure leaves the
	// room's advertised expiry unchanged.
	meta.TTL = ttl
	meta.UpdatedAt = s.now().UTC()
	metaData, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	rows = append(rows,
		row{key: statusKey(meta.Status, roomID)},
		row{key: metaKey(roomID), value: metaData},
	)

	updated := 0
	for chunkStart := 0; chunkStart < len(rows); chunkStart += s.chunkSize {
		chunk := rows[chunkStart:min(chunkStart+s.chunkSize, len(rows))]
		err := s.update(func(txn *badger.Txn) error {
			for _, r := range chunk {
				if err := txn.SetEntry(s.newEntry(r.key, r.value, ttl)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			if updated == 0 {
				return unavailable("set_ttl", err)
			}
			perr := &PartialUpdateError{RoomID: roomID, Updated: updated, Total: len(rows), Err: err}
			s.logger.Error().Err(perr).Str("room_id", roomID).Msg("TTL update stopped part-way")
			return perr
		}
		updated += len(chunk)
	}
	return nil
}

// rewriteEntryTTL updates the logical TTL inside an entry row. Rows that do
// not decode are rewritten unchanged; readers flag them as corrupted.
func rewriteEntryTTL(value []byte, ttl int64) []byte {
	var entry models.StoredEntry
	if err := json.Unmarshal(value, &entry); err != nil {
		return value
	}
	entry.TTL = ttl
	data, err := json.Marshal(entry)
	if err != nil {
		return value
	}
	return data
}

// CacheExists implements Store.
func (s *BadgerStore) CacheExists(ctx context.Context, roomID string) (bool, error) {
	meta, err := s.GetRoomMeta(ctx, roomID)
	if errors.Is(err, ErrRoomNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return meta.Status == models.RoomStatusActive && !meta.Expired(s.now()), nil
}

func readMeta(txn *badger.Txn, roomID string) (*models.RoomMetadata, error) {
	item, err := txn.Get(metaKey(roomID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	var meta models.RoomMetadata
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &meta)
	}); err != nil {
		return nil, fmt.Errorf("%w: metadata for %s unreadable: %v", ErrRoomNotFound, roomID, err)
	}
	return &meta, nil
}

// PutRoomMeta implements Store. The status index is kept in the same transaction.
func (s *BadgerStore) PutRoomMeta(ctx context.Context, meta *models.RoomMetadata) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("put_meta", time.Since(start), err) }()

	if meta == nil {
		return errors.New("nil room metadata")
	}
	if err := s.beginRoom(ctx, meta.RoomID); err != nil {
		return err
	}
	defer s.mu.RUnlock()

	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, st := range []models.RoomStatus{models.RoomStatusActive, models.RoomStatusExpired} {
			if st == meta.Status {
				continue
			}
			if err := txn.Delete(statusKey(st, meta.RoomID)); err != nil {
				return err
			}
		}
		if err := txn.SetEntry(s.newEntry(statusKey(meta.Status, meta.RoomID), nil, meta.TTL)); err != nil {
			return err
		}
		return txn.SetEntry(s.newEntry(metaKey(meta.RoomID), data, meta.TTL))
	})
	return unavailable("put_meta", err)
}

// GetRoomMeta implements Store. Expired metadata is still returned so the
// sweeper can act on it; callers check Expired themselves.
func (s *BadgerStore) GetRoomMeta(ctx context.Context, roomID string) (meta *models.RoomMetadata, err error) {
	start := time.Now()
	defer func() {
		var recorded error
		if err != nil && !errors.Is(err, ErrRoomNotFound) {
			recorded = err
		}
		metrics.RecordStoreOperation("get_meta", time.Since(start), recorded)
	}()

	if err := s.beginRoom(ctx, roomID); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	err = s.db.View(func(txn *badger.Txn) error {
		var err error
		meta, err = readMeta(txn, roomID)
		return err
	})
	if err != nil {
		return nil, unavailable("get_meta", err)
	}
	return meta, nil
}

// ListRoomsByStatus implements Store.
func (s *BadgerStore) ListRoomsByStatus(ctx context.Context, status models.RoomStatus) (rooms []string, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("list_rooms", time.Since(start), err) }()

	if err := s.begin(ctx); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	prefix := statusKeyPrefix(status)
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			rooms = append(rooms, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, unavailable("list_rooms", err)
	}
	return rooms, nil
}

// DeleteRoom implements Store. Deleting an unknown room is not an error.
func (s *BadgerStore) DeleteRoom(ctx context.Context, roomID string) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("delete_room", time.Since(start), err) }()

	if err := s.beginRoom(ctx, roomID); err != nil {
		return err
	}
	defer s.mu.RUnlock()

	keys, err := s.collectKeys(roomKeyPrefix(roomID))
	if err != nil {
		return unavailable("delete_room", err)
	}
	keys = append(keys,
		statusKey(models.RoomStatusActive, roomID),
		statusKey(models.RoomStatusExpired, roomID),
	)
	return unavailable("delete_room", s.deleteKeys(keys))
}

// AddExclusions implements Store.
func (s *BadgerStore) AddExclusions(ctx context.Context, roomID string, contentIDs []string, ttl int64) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("add_exclusions", time.Since(start), err) }()

	if err := s.beginRoom(ctx, roomID); err != nil {
		return err
	}
	defer s.mu.RUnlock()

	for chunkStart := 0; chunkStart < len(contentIDs); chunkStart += ttlChunkSize {
		chunk := contentIDs[chunkStart:min(chunkStart+ttlChunkSize, len(contentIDs))]
		err := s.db.Update(func(txn *badger.Txn) error {
			for _, id := range chunk {
				if id == "" {
					continue
				}
				if err := txn.SetEntry(s.newEntry(exclKey(roomID, id), nil, ttl)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return unavailable("add_exclusions", err)
		}
	}
	return nil
}

// LoadExclusions implements Store.
func (s *BadgerStore) LoadExclusions(ctx context.Context, roomID string) (ids []string, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("load_exclusions", time.Since(start), err) }()

	if err := s.beginRoom(ctx, roomID); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	prefix := exclRoomPrefix(roomID)
	keys, err := s.collectKeys(prefix)
	if err != nil {
		return nil, unavailable("load_exclusions", err)
	}
	ids = make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, string(k[len(prefix):]))
	}
	return ids, nil
}

// ClearExclusions implements Store.
func (s *BadgerStore) ClearExclusions(ctx context.Context, roomID string) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("clear_exclusions", time.Since(start), err) }()

	if err := s.beginRoom(ctx, roomID); err != nil {
		return err
	}
	defer s.mu.RUnlock()

	keys, err := s.collectKeys(exclRoomPrefix(roomID))
	if err != nil {
		return unavailable("clear_exclusions", err)
	}
	return unavailable("clear_exclusions", s.deleteKeys(keys))
}

// Ping implements Store.
func (s *BadgerStore) Ping(ctx context.Context) error {
	if err := s.begin(ctx); err != nil {
		return err
	}
	defer s.mu.RUnlock()
	return unavailable("ping", s.db.View(func(*badger.Txn) error { return nil }))
}

func (s *BadgerStore) collectKeys(prefix []byte) ([][]byte, error) {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

func (s *BadgerStore) deleteKeys(keys [][]byte) error {
	for chunkStart := 0; chunkStart < len(keys); chunkStart += ttlChunkSize {
		chunk := keys[chunkStart:min(chunkStart+ttlChunkSize, len(keys))]
		err := s.db.Update(func(txn *badger.Txn) error {
			for _, k := range chunk {
				if err := txn.Delete(k); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

var _ Store = (*BadgerStore)(nil)
