// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/ibanezbetes/trinity-sub002/internal/config"
	"github.com/ibanezbetes/trinity-sub002/internal/models"
)

// Test helpers

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := Open(&config.StoreConfig{InMemory: true, ExpiryGrace: time.Hour})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func makeCandidates(ids ...string) []models.Candidate {
	out := make([]models.Candidate, len(ids))
	for i, id := range ids {
		out[i] = models.Candidate{
			ContentID: id,
			Title:     "Title " + id,
			MediaKind: models.MediaKindMovie,
			GenreIDs:  []int{28},
		}
	}
	return out
}

func futureTTL() int64 {
	return time.Now().Add(time.Hour).Unix()
}

func TestStoreBatch_ContiguousIndices(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.StoreBatch(ctx, "room1", 1, makeCandidates("1", "2", "3"), futureTTL())
	if err != nil {
		t.Fatalf("StoreBatch(1) error = %v", err)
	}
	// Short second batch: indices continue without gaps.
	second, err := s.StoreBatch(ctx, "room1", 2, makeCandidates("4", "5"), futureTTL())
	if err != nil {
		t.Fatalf("StoreBatch(2) error = %v", err)
	}
	third, err := s.StoreBatch(ctx, "room1", 3, makeCandidates("6"), futureTTL())
	if err != nil {
		t.Fatalf("StoreBatch(3) error = %v", err)
	}

	var got []int
	for _, batch := range [][]models.StoredEntry{first, second, third} {
		for _, e := range batch {
			got = append(got, e.SequenceIndex)
		}
	}
	for i, idx := range got {
		if idx != i {
			t.Fatalf("sequence indices = %v, want 0..%d", got, len(got)-1)
		}
	}

	for i := 0; i < 6; i++ {
		e, err := s.GetByIndex(ctx, "room1", i)
		if err != nil {
			t.Fatalf("GetByIndex(%d) error = %v", i, err)
		}
		if want := fmt.Sprint(i + 1); e.Candidate.ContentID != want {
			t.Errorf("GetByIndex(%d).ContentID = %s, want %s", i, e.Candidate.ContentID, want)
		}
	}
	if _, err := s.GetByIndex(ctx, "room1", 6); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("GetByIndex(6) error = %v, want ErrEntryNotFound", err)
	}
}

func TestStoreBatch_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.StoreBatch(ctx, "room1", 1, makeCandidates("1", "2"), futureTTL()); err != nil {
		t.Fatalf("StoreBatch() error = %v", err)
	}
	replay, err := s.StoreBatch(ctx, "room1", 1, makeCandidates("9", "8", "7"), futureTTL())
	if err != nil {
		t.Fatalf("StoreBatch() replay error = %v", err)
	}
	if len(replay) != 2 || replay[0].Candidate.ContentID != "1" {
		t.Errorf("replay returned %+v, want the originally stored batch", replay)
	}
	if _, err := s.GetByIndex(ctx, "room1", 2); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("GetByIndex(2) error = %v, want ErrEntryNotFound", err)
	}
}

func TestStoreBatch_OutOfOrder(t *testing.T) {
	s := newTestStore(t)
	_, err := s.StoreBatch(context.Background(), "room1", 2, makeCandidates("1"), futureTTL())
	if !errors.Is(err, ErrBatchOutOfOrder) {
		t.Errorf("StoreBatch(2) on empty room error = %v, want ErrBatchOutOfOrder", err)
	}
}

func TestStoreBatch_InvalidRoomID(t *testing.T) {
	s := newTestStore(t)
	tests := []string{"", "a/b", "/"}
	for _, id := range tests {
		t.Run(id, func(t *testing.T) {
			_, err := s.StoreBatch(context.Background(), id, 1, makeCandidates("1"), futureTTL())
			if !errors.Is(err, ErrInvalidRoomID) {
				t.Errorf("StoreBatch(%q) error = %v, want ErrInvalidRoomID", id, err)
			}
		})
	}
}

func TestRoomsAreIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.StoreBatch(ctx, "r1", 1, makeCandidates("1"), futureTTL()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.StoreBatch(ctx, "r10", 1, makeCandidates("2", "3"), futureTTL()); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetByBatch(ctx, "r1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Candidate.ContentID != "1" {
		t.Errorf("GetByBatch(r1) = %+v, want only content 1", got)
	}
}

func TestGetByIndex_Expired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ttl := time.Now().Add(time.Minute).Unix()
	if _, err := s.StoreBatch(ctx, "room1", 1, makeCandidates("1"), ttl); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetByIndex(ctx, "room1", 0); err != nil {
		t.Fatalf("GetByIndex() before expiry error = %v", err)
	}

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	if _, err := s.GetByIndex(ctx, "room1", 0); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("GetByIndex() after expiry error = %v, want ErrEntryNotFound", err)
	}
	got, err := s.GetByBatch(ctx, "room1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("GetByBatch() after expiry = %d entries, want 0", len(got))
	}
}

func TestGetByIndex_Corrupted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.StoreBatch(ctx, "room1", 1, makeCandidates("1", "2", "3"), futureTTL()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		value []byte
	}{
		{"not json", []byte("{broken")},
		{"missing content id", []byte(`{"room_id":"room1","sequence_index":1,"batch_number":1,"candidate":{"media_kind":"MOVIE"}}`)},
		{"wrong room", []byte(`{"room_id":"other","sequence_index":1,"batch_number":1,"candidate":{"content_id":"2","media_kind":"MOVIE"}}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.db.Update(func(txn *badger.Txn) error {
				return txn.Set(seqKey("room1", 1), tt.value)
			})
			if err != nil {
				t.Fatal(err)
			}

			_, err = s.GetByIndex(ctx, "room1", 1)
			var corrupted *CorruptedEntryError
			if !errors.As(err, &corrupted) {
				t.Fatalf("GetByIndex() error = %v, want *CorruptedEntryError", err)
			}
			if !errors.Is(err, ErrEntryNotFound) || !errors.Is(err, ErrCorruptedEntry) {
				t.Errorf("error should match both ErrEntryNotFound and ErrCorruptedEntry")
			}

			// Neighbours are unaffected.
			for _, idx := range []int{0, 2} {
				if _, err := s.GetByIndex(ctx, "room1", idx); err != nil {
					t.Errorf("GetByIndex(%d) error = %v", idx, err)
				}
			}
			got, err := s.GetByBatch(ctx, "room1", 1)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 2 {
				t.Errorf("GetByBatch() = %d entries, want 2 with the corrupted row skipped", len(got))
			}
		})
	}
}

func TestGetByBatch_SortedByIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ids := make([]string, 12)
	for i := range ids {
		ids[i] = fmt.Sprint(100 - i)
	}
	if _, err := s.StoreBatch(ctx, "room1", 1, makeCandidates(ids...), futureTTL()); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetByBatch(ctx, "room1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(ids) {
		t.Fatalf("GetByBatch() = %d entries, want %d", len(got), len(ids))
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i].SequenceIndex < got[j].SequenceIndex }) {
		t.Error("GetByBatch() entries not sorted by sequence index")
	}
	if got[0].Candidate.ContentID != "100" {
		t.Errorf("first entry = %s, want insertion order preserved", got[0].Candidate.ContentID)
	}

	empty, err := s.GetByBatch(ctx, "room1", 5)
	if err != nil || len(empty) != 0 {
		t.Errorf("GetByBatch(5) = %v, %v, want empty", empty, err)
	}
}

func TestRoomMeta_StatusIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	meta := &models.RoomMetadata{RoomID: "room1", Status: models.RoomStatusActive, BatchSize: 30, TTL: futureTTL()}
	if err := s.PutRoomMeta(ctx, meta); err != nil {
		t.Fatal(err)
	}

	active, err := s.ListRoomsByStatus(ctx, models.RoomStatusActive)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0] != "room1" {
		t.Errorf("ListRoomsByStatus(ACTIVE) = %v, want [room1]", active)
	}

	meta.Status = models.RoomStatusExpired
	if err := s.PutRoomMeta(ctx, meta); err != nil {
		t.Fatal(err)
	}
	active, _ = s.ListRoomsByStatus(ctx, models.RoomStatusActive)
	expired, _ := s.ListRoomsByStatus(ctx, models.RoomStatusExpired)
	if len(active) != 0 || len(expired) != 1 {
		t.Errorf("after status change active=%v expired=%v", active, expired)
	}

	got, err := s.GetRoomMeta(ctx, "room1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.RoomStatusExpired || got.BatchSize != 30 {
		t.Errorf("GetRoomMeta() = %+v", got)
	}

	if _, err := s.GetRoomMeta(ctx, "missing"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("GetRoomMeta(missing) error = %v, want ErrRoomNotFound", err)
	}
}

func TestCacheExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		meta *models.RoomMetadata
		want bool
	}{
		{"active", &models.RoomMetadata{RoomID: "a", Status: models.RoomStatusActive, TTL: futureTTL()}, true},
		{"expired status", &models.RoomMetadata{RoomID: "b", Status: models.RoomStatusExpired, TTL: futureTTL()}, false},
		{"past ttl", &models.RoomMetadata{RoomID: "c", Status: models.RoomStatusActive, TTL: time.Now().Add(-time.Minute).Unix()}, false},
		{"missing", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := "none"
			if tt.meta != nil {
				id = tt.meta.RoomID
				if err := s.PutRoomMeta(ctx, tt.meta); err != nil {
					t.Fatal(err)
				}
			}
			got, err := s.CacheExists(ctx, id)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("CacheExists() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetTTL(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	short := time.Now().Add(time.Minute).Unix()
	if err := s.PutRoomMeta(ctx, &models.RoomMetadata{RoomID: "room1", Status: models.RoomStatusActive, TTL: short}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.StoreBatch(ctx, "room1", 1, makeCandidates("1", "2"), short); err != nil {
		t.Fatal(err)
	}

	long := time.Now().Add(48 * time.Hour).Unix()
	if err := s.SetTTL(ctx, "room1", long); err != nil {
		t.Fatalf("SetTTL() error = %v", err)
	}

	// Past the old expiry, entries are still served.
	s.now = func() time.Time { return time.Now().Add(time.Hour) }
	for i := 0; i < 2; i++ {
		e, err := s.GetByIndex(ctx, "room1", i)
		if err != nil {
			t.Fatalf("GetByIndex(%d) error = %v", i, err)
		}
		if e.TTL != long {
			t.Errorf("entry TTL = %d, want %d", e.TTL, long)
		}
	}
	meta, err := s.GetRoomMeta(ctx, "room1")
	if err != nil {
		t.Fatal(err)
	}
	if meta.TTL != long {
		t.Errorf("meta TTL = %d, want %d", meta.TTL, long)
	}

	if err := s.SetTTL(ctx, "missing", long); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("SetTTL(missing) error = %v, want ErrRoomNotFound", err)
	}
}

func TestSetTTL_ExtendsExclusions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	short := time.Now().Add(time.Minute).Unix()
	if err := s.PutRoomMeta(ctx, &models.RoomMetadata{RoomID: "room1", Status: models.RoomStatusActive, TTL: short}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddExclusions(ctx, "room1", []string{"10", "20"}, short); err != nil {
		t.Fatal(err)
	}

	long := time.Now().Add(48 * time.Hour).Unix()
	if err := s.SetTTL(ctx, "room1", long); err != nil {
		t.Fatalf("SetTTL() error = %v", err)
	}

	err := s.DB().View(func(txn *badger.Txn) error {
		for _, id := range []string{"10", "20"} {
			item, err := txn.Get(exclKey("room1", id))
			if err != nil {
				return err
			}
			if got := item.ExpiresAt(); got < uint64(long) {
				t.Errorf("exclusion %s expires at %d, want at least %d", id, got, long)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSetTTL_PartialUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	short := time.Now().Add(time.Minute).Unix()
	if err := s.PutRoomMeta(ctx, &models.RoomMetadata{RoomID: "room1", Status: models.RoomStatusActive, TTL: short}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.StoreBatch(ctx, "room1", 1, makeCandidates("1", "2", "3", "4", "5", "6"), short); err != nil {
		t.Fatal(err)
	}
	if err := s.AddExclusions(ctx, "room1", []string{"9"}, short); err != nil {
		t.Fatal(err)
	}

	roomKeys, err := s.collectKeys(roomKeyPrefix("room1"))
	if err != nil {
		t.Fatal(err)
	}
	exclKeys, err := s.collectKeys(exclRoomPrefix("room1"))
	if err != nil {
		t.Fatal(err)
	}
	// Room rows (metadata among them), exclusions and the status index.
	wantTotal := len(roomKeys) + len(exclKeys) + 1

	s.chunkSize = 4
	calls := 0
	s.update = func(fn func(txn *badger.Txn) error) error {
		calls++
		if calls == 2 {
			return errors.New("disk full")
		}
		return s.db.Update(fn)
	}

	err = s.SetTTL(ctx, "room1", time.Now().Add(48*time.Hour).Unix())
	if !errors.Is(err, ErrPartialTTLUpdate) {
		t.Fatalf("SetTTL() error = %v, want ErrPartialTTLUpdate", err)
	}
	var perr *PartialUpdateError
	if !errors.As(err, &perr) {
		t.Fatalf("SetTTL() error type = %T, want *PartialUpdateError", err)
	}
	if perr.RoomID != "room1" || perr.Updated != 4 || perr.Total != wantTotal {
		t.Errorf("PartialUpdateError = %+v, want room1 with 4 of %d rows", perr, wantTotal)
	}

	// Metadata is written last, so the advertised expiry is unchanged.
	meta, err := s.GetRoomMeta(ctx, "room1")
	if err != nil {
		t.Fatal(err)
	}
	if meta.TTL != short {
		t.Errorf("meta TTL = %d, want the old %d", meta.TTL, short)
	}
}

func TestSetTTL_FirstChunkFails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.PutRoomMeta(ctx, &models.RoomMetadata{RoomID: "room1", Status: models.RoomStatusActive, TTL: futureTTL()}); err != nil {
		t.Fatal(err)
	}
	s.update = func(func(txn *badger.Txn) error) error { return errors.New("disk full") }

	err := s.SetTTL(ctx, "room1", futureTTL())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("SetTTL() error = %v, want ErrStoreUnavailable", err)
	}
	if errors.Is(err, ErrPartialTTLUpdate) {
		t.Error("SetTTL() reported a partial update when nothing was written")
	}
}

func TestExclusions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddExclusions(ctx, "room1", []string{"10", "20"}, futureTTL()); err != nil {
		t.Fatal(err)
	}
	if err := s.AddExclusions(ctx, "room1", []string{"20", "30", ""}, futureTTL()); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadExclusions(ctx, "room1")
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(got)
	if fmt.Sprint(got) != "[10 20 30]" {
		t.Errorf("LoadExclusions() = %v, want [10 20 30]", got)
	}

	if err := s.ClearExclusions(ctx, "room1"); err != nil {
		t.Fatal(err)
	}
	got, _ = s.LoadExclusions(ctx, "room1")
	if len(got) != 0 {
		t.Errorf("after ClearExclusions() = %v, want empty", got)
	}
}

func TestDeleteRoom(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.PutRoomMeta(ctx, &models.RoomMetadata{RoomID: "room1", Status: models.RoomStatusActive, TTL: futureTTL()}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.StoreBatch(ctx, "room1", 1, makeCandidates("1"), futureTTL()); err != nil {
		t.Fatal(err)
	}
	if err := s.AddExclusions(ctx, "room1", []string{"1"}, futureTTL()); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteRoom(ctx, "room1"); err != nil {
		t.Fatalf("DeleteRoom() error = %v", err)
	}
	if _, err := s.GetRoomMeta(ctx, "room1"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("meta still present: %v", err)
	}
	if _, err := s.GetByIndex(ctx, "room1", 0); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("entry still present: %v", err)
	}
	if rooms, _ := s.ListRoomsByStatus(ctx, models.RoomStatusActive); len(rooms) != 0 {
		t.Errorf("status index still lists %v", rooms)
	}
	if excl, _ := s.LoadExclusions(ctx, "room1"); len(excl) != 1 {
		t.Errorf("exclusions after DeleteRoom = %v, want them kept", excl)
	}
	// Batch numbering restarts after deletion.
	if _, err := s.StoreBatch(ctx, "room1", 1, makeCandidates("5"), futureTTL()); err != nil {
		t.Errorf("StoreBatch() after delete error = %v", err)
	}
}

func TestClosedStore(t *testing.T) {
	s := newTestStore(t)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := s.Ping(ctx); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Ping() error = %v, want ErrStoreUnavailable", err)
	}
	if _, err := s.GetByIndex(ctx, "room1", 0); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("GetByIndex() error = %v, want ErrStoreUnavailable", err)
	}
}

func TestOpen_OnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badger")
	cfg := &config.StoreConfig{Path: path, ExpiryGrace: time.Minute}

	s, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.StoreBatch(context.Background(), "room1", 1, makeCandidates("1"), futureTTL()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	e, err := reopened.GetByIndex(context.Background(), "room1", 0)
	if err != nil {
		t.Fatalf("GetByIndex() after reopen error = %v", err)
	}
	if e.Candidate.ContentID != "1" {
		t.Errorf("ContentID = %s, want 1", e.Candidate.ContentID)
	}
}
