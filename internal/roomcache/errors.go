// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package roomcache

import "errors"

var (
	// ErrMaxBatchesExceeded is returned before any fetch when the room is at
	// its batch cap. Callers must not retry it.
	ErrMaxBatchesExceeded = errors.New("max batches exceeded")

	// ErrCreationFailed means even the fallback set produced nothing.
	ErrCreationFailed = errors.New("room cache creation failed")

	// ErrRoomNotFound means the room is neither in memory nor in the store.
	ErrRoomNotFound = errors.New("room cache not found")

	// ErrRoomExpired means the room's TTL has passed.
	ErrRoomExpired = errors.New("room cache expired")

	// ErrInvalidFilter is returned for filters with an unknown media kind.
	ErrInvalidFilter = errors.New("invalid filter criteria")

	// ErrInvalidRoomID is returned for empty IDs or IDs containing '/'.
	ErrInvalidRoomID = errors.New("invalid room id")
)
