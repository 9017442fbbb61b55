// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ibanezbetes/trinity-sub002/internal/models"
)

// Store is the sequence-indexed persistence layer. TTL arguments are
// absolute expiry instants in epoch seconds.
type Store interface {
	// StoreBatch persists candidates as batch batchNumber, assigning
	// contiguous sequence indices after the room's last stored index.
	// Storing the same batch number twice returns the existing entries.
	StoreBatch(ctx context.Context, roomID string, batchNumber int, candidates []models.Candidate, ttl int64) ([]models.StoredEntry, error)

	// GetByIndex returns ErrEntryNotFound for unassigned or expired indices
	// and a *CorruptedEntryError for rows that fail validation.
	GetByIndex(ctx context.Context, roomID string, index int) (*models.StoredEntry, error)

	// GetByBatch returns the readable entries of a batch sorted by index.
	GetByBatch(ctx context.Context, roomID string, batchNumber int) ([]models.StoredEntry, error)

	// SetTTL moves the expiry of every row of the room, metadata and
	// exclusions included. A failure part-way returns a *PartialUpdateError.
	SetTTL(ctx context.Context, roomID string, ttl int64) error

	// CacheExists reports whether metadata exists, is ACTIVE and unexpired.
	CacheExists(ctx context.Context, roomID string) (bool, error)

	PutRoomMeta(ctx context.Context, meta *models.RoomMetadata) error
	GetRoomMeta(ctx context.Context, roomID string) (*models.RoomMetadata, error)
	ListRoomsByStatus(ctx context.Context, status models.RoomStatus) ([]string, error)
	DeleteRoom(ctx context.Context, roomID string) error

	AddExclusions(ctx context.Context, roomID string, contentIDs []string, ttl int64) error
	LoadExclusions(ctx context.Context, roomID string) ([]string, error)
	ClearExclusions(ctx context.Context, roomID string) error

	Ping(ctx context.Context) error
}

const (
	roomPrefix   = "room/"
	statusPrefix = "status/"
	exclPrefix   = "excl/"
)

func validateRoomID(roomID string) error {
	if roomID == "" || strings.Contains(roomID, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidRoomID, roomID)
	}
	return nil
}

func roomKeyPrefix(roomID string) []byte {
	return []byte(roomPrefix + roomID + "/")
}

func metaKey(roomID string) []byte {
	return []byte(roomPrefix + roomID + "/meta")
}

func seqPrefix(roomID string) []byte {
	return []byte(roomPrefix + roomID + "/seq/")
}

func seqKey(roomID string, index int) []byte {
	return []byte(fmt.Sprintf("%s%s/seq/%010d", roomPrefix, roomID, index))
}

func batchPrefix(roomID string, batchNumber int) []byte {
	return []byte(fmt.Sprintf("%s%s/batch/%06d/", roomPrefix, roomID, batchNumber))
}

func batchKey(roomID string, batchNumber, index int) []byte {
	return []byte(fmt.Sprintf("%s%s/batch/%06d/%010d", roomPrefix, roomID, batchNumber, index))
}

func exclRoomPrefix(roomID string) []byte {
	return []byte(exclPrefix + roomID + "/")
}

func exclKey(roomID, contentID string) []byte {
	return []byte(exclPrefix + roomID + "/" + contentID)
}

func statusKey(status models.RoomStatus, roomID string) []byte {
	return []byte(statusPrefix + string(status) + "/" + roomID)
}

func statusKeyPrefix(status models.RoomStatus) []byte {
	return []byte(statusPrefix + string(status) + "/")
}

// indexFromKey parses the trailing %010d component of a seq or batch key.
func indexFromKey(key []byte) (int, error) {
	s := string(key)
	i := strings.LastIndexByte(s, '/')
	return strconv.Atoi(s[i+1:])
}
