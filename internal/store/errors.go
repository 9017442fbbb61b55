// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package store

import (
	"errors"
	"fmt"
)

var (
	// ErrEntryNotFound means the index is unassigned, expired or unreadable.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrCorruptedEntry means a stored row failed integrity checks.
	ErrCorruptedEntry = errors.New("corrupted entry")

	// ErrRoomNotFound means no metadata exists for the room.
	ErrRoomNotFound = errors.New("room not found")

	// ErrStoreUnavailable means the store could not be reached or timed out.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrPartialTTLUpdate means SetTTL updated some rows but not all.
	ErrPartialTTLUpdate = errors.New("partial TTL update")

	// ErrInvalidRoomID is returned for empty IDs or IDs containing '/'.
	ErrInvalidRoomID = errors.New("invalid room id")

	// ErrBatchOutOfOrder is returned when batch N is stored before batch N-1.
	ErrBatchOutOfOrder = errors.New("batch stored out of order")
)

// CorruptedEntryError identifies the single row that failed validation.
// It matches both ErrCorruptedEntry and ErrEntryNotFound so callers that
// only care about presence treat it as absent.
type CorruptedEntryError struct {
	RoomID string
	Index  int
	Err    error
}

func (e *CorruptedEntryError) Error() string {
	return fmt.Sprintf("room %s index %d: corrupted entry: %v", e.RoomID, e.Index, e.Err)
}

func (e *CorruptedEntryError) Unwrap() error { return e.Err }

// Is matches ErrCorruptedEntry and ErrEntryNotFound.
func (e *CorruptedEntryError) Is(target error) bool {
	return target == ErrCorruptedEntry || target == ErrEntryNotFound
}

// PartialUpdateError reports how far a bulk TTL update got.
type PartialUpdateError struct {
	RoomID  string
	Updated int
	Total   int
	Err     error
}

func (e *PartialUpdateError) Error() string {
	return fmt.Sprintf("room %s: TTL updated on %d of %d rows: %v", e.RoomID, e.Updated, e.Total, e.Err)
}

func (e *PartialUpdateError) Unwrap() error { return e.Err }

// Is matches ErrPartialTTLUpdate.
func (e *PartialUpdateError) Is(target error) bool {
	return target == ErrPartialTTLUpdate
}
