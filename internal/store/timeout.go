// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ibanezbetes/trinity-sub002/internal/models"
)

// TimeoutStore bounds every call to the wrapped Store. A call that outlives
// its deadline returns ErrStoreUnavailable; the underlying call is left to
// finish in the background.
type TimeoutStore struct {
	inner   Store
	timeout time.Duration
}

// WithTimeout wraps s. A non-positive timeout returns s unchanged.
func WithTimeout(s Store, timeout time.Duration) Store {
	if timeout <= 0 {
		return s
	}
	return &TimeoutStore{inner: s, timeout: timeout}
}

type result[T any] struct {
	val T
	err error
}

func bounded[T any](ctx context.Context, timeout time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan result[T], 1)
	go func() {
		v, err := fn(ctx)
		done <- result[T]{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, ctx.Err())
	}
}

func (t *TimeoutStore) StoreBatch(ctx context.Context, roomID string, batchNumber int, candidates []models.Candidate, ttl int64) ([]models.StoredEntry, error) {
	return bounded(ctx, t.timeout, "store_batch", func(ctx context.Context) ([]models.StoredEntry, error) {
		return t.inner.StoreBatch(ctx, roomID, batchNumber, candidates, ttl)
	})
}

func (t *TimeoutStore) GetByIndex(ctx context.Context, roomID string, index int) (*models.StoredEntry, error) {
	return bounded(ctx, t.timeout, "get_by_index", func(ctx context.Context) (*models.StoredEntry, error) {
		return t.inner.GetByIndex(ctx, roomID, index)
	})
}

func (t *TimeoutStore) GetByBatch(ctx context.Context, roomID string, batchNumber int) ([]models.StoredEntry, error) {
	return bounded(ctx, t.timeout, "get_by_batch", func(ctx context.Context) ([]models.StoredEntry, error) {
		return t.inner.GetByBatch(ctx, roomID, batchNumber)
	})
}

func (t *TimeoutStore) SetTTL(ctx context.Context, roomID string, ttl int64) error {
	_, err := bounded(ctx, t.timeout, "set_ttl", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, t.inner.SetTTL(ctx, roomID, ttl)
	})
	return err
}

func (t *TimeoutStore) CacheExists(ctx context.Context, roomID string) (bool, error) {
	return bounded(ctx, t.timeout, "cache_exists", func(ctx context.Context) (bool, error) {
		return t.inner.CacheExists(ctx, roomID)
	})
}

func (t *TimeoutStore) PutRoomMeta(ctx context.Context, meta *models.RoomMetadata) error {
	// Copy so a late write cannot observe caller mutations.
	cp := *meta
	cp.BatchSizes = append([]int(nil), meta.BatchSizes...)
	_, err := bounded(ctx, t.timeout, "put_meta", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, t.inner.PutRoomMeta(ctx, &cp)
	})
	return err
}

func (t *TimeoutStore) GetRoomMeta(ctx context.Context, roomID string) (*models.RoomMetadata, error) {
	return bounded(ctx, t.timeout, "get_meta", func(ctx context.Context) (*models.RoomMetadata, error) {
		return t.inner.GetRoomMeta(ctx, roomID)
	})
}

func (t *TimeoutStore) ListRoomsByStatus(ctx context.Context, status models.RoomStatus) ([]string, error) {
	return bounded(ctx, t.timeout, "list_rooms", func(ctx context.Context) ([]string, error) {
		return t.inner.ListRoomsByStatus(ctx, status)
	})
}

func (t *TimeoutStore) DeleteRoom(ctx context.Context, roomID string) error {
	_, err := bounded(ctx, t.timeout, "delete_room", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, t.inner.DeleteRoom(ctx, roomID)
	})
	return err
}

func (t *TimeoutStore) AddExclusions(ctx context.Context, roomID string, contentIDs []string, ttl int64) error {
	ids := append([]string(nil), contentIDs...)
	_, err := bounded(ctx, t.timeout, "add_exclusions", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, t.inner.AddExclusions(ctx, roomID, ids, ttl)
	})
	return err
}

func (t *TimeoutStore) LoadExclusions(ctx context.Context, roomID string) ([]string, error) {
	return bounded(ctx, t.timeout, "load_exclusions", func(ctx context.Context) ([]string, error) {
		return t.inner.LoadExclusions(ctx, roomID)
	})
}

func (t *TimeoutStore) ClearExclusions(ctx context.Context, roomID string) error {
	_, err := bounded(ctx, t.timeout, "clear_exclusions", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, t.inner.ClearExclusions(ctx, roomID)
	})
	return err
}

func (t *TimeoutStore) Ping(ctx context.Context) error {
	_, err := bounded(ctx, t.timeout, "ping", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, t.inner.Ping(ctx)
	})
	return err
}

var _ Store = (*TimeoutStore)(nil)
