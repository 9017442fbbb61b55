// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package models

import (
	"errors"
	"fmt"
	"time"
)

// RoomStatus is the lifecycle state of a room cache.
type RoomStatus string

const (
	RoomStatusActive  RoomStatus = "ACTIVE"
	RoomStatusExpired RoomStatus = "EXPIRED"
)

// ErrMissingField is wrapped by StoredEntry.Validate.
var ErrMissingField = errors.New("missing required field")

// StoredEntry is one persisted candidate plus its placement in the room.
// TTL is an absolute expiry in epoch seconds.
type StoredEntry struct {
	RoomID        string    `json:"room_id"`
	SequenceIndex int       `json:"sequence_index"`
	BatchNumber   int       `json:"batch_number"`
	Candidate     Candidate `json:"candidate"`
	AddedAt       time.Time `json:"added_at"`
	TTL           int64     `json:"ttl"`
}

// Expired reports whether now is past the entry's TTL.
func (e *StoredEntry) Expired(now time.Time) bool {
	return e.TTL > 0 && now.Unix() > e.TTL
}

// Validate rejects rows that lost their identity or placement.
func (e *StoredEntry) Validate() error {
	var field string
	switch {
	case e.RoomID == "":
		field = "room_id"
	case e.Candidate.ContentID == "":
		field = "candidate.content_id"
	case e.BatchNumber < 1:
		field = "batch_number"
	case e.SequenceIndex < 0:
		field = "sequence_index"
	case !e.Candidate.MediaKind.Valid():
		field = "candidate.media_kind"
	default:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

// RoomMetadata is the durable per-room record. Candidates live in StoredEntry
// rows; this row carries the counters needed to resume a room.
type RoomMetadata struct {
	RoomID              string         `json:"room_id"`
	Filter              FilterCriteria `json:"filter"`
	Status              RoomStatus     `json:"status"`
	BatchSize           int            `json:"batch_size"`
	BatchSizes          []int          `json:"batch_sizes"`
	TotalCandidates     int            `json:"total_candidates"`
	NextRefillThreshold int            `json:"next_refill_threshold"`
	Cursor              int            `json:"cursor"`
	Exhausted           bool           `json:"exhausted,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	TTL                 int64          `json:"ttl"`
}

// BatchesLoaded is derived from the recorded batch sizes.
func (m *RoomMetadata) BatchesLoaded() int {
	return len(m.BatchSizes)
}

// Expired reports whether now is past the room's TTL.
func (m *RoomMetadata) Expired(now time.Time) bool {
	return m.TTL > 0 && now.Unix() > m.TTL
}

// RoomCacheStatus is a read-only snapshot of one room cache.
type RoomCacheStatus struct {
	RoomID              string         `json:"room_id"`
	Status              RoomStatus     `json:"status"`
	Filter              FilterCriteria `json:"filter"`
	BatchesLoaded       int            `json:"batches_loaded"`
	MaxBatches          int            `json:"max_batches"`
	TotalCandidates     int            `json:"total_candidates"`
	Cursor              int            `json:"cursor"`
	Remaining           int            `json:"remaining"`
	NextRefillThreshold int            `json:"next_refill_threshold"`
	Exhausted           bool           `json:"exhausted"`
	CreatedAt           time.Time      `json:"created_at"`
	ExpiresAt           time.Time      `json:"expires_at"`
}
