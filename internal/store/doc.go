// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

/*
Package store persists room candidates in BadgerDB with a gap-free sequence
index per room.

Key layout:

	room/<roomID>/meta                      RoomMetadata (JSON)
	room/<roomID>/seq/<index %010d>         StoredEntry (JSON)
	room/<roomID>/batch/<n %06d>/<index>    batch secondary index (empty value)
	status/<STATUS>/<roomID>                status secondary index (empty value)
	excl/<roomID>/<contentID>               exclusion set member (empty value)

Zero padding keeps Badger's lexicographic key order equal to numeric order,
so prefix iteration returns batches and indices sorted. Exclusion rows
live outside the room prefix: deleting a room cache leaves its exclusion
set in place.

Every row carries a logical TTL (epoch seconds). Reads treat rows past their
TTL as absent. Badger's native TTL is set to the logical TTL plus a grace
period so rows are physically dropped later without ever being served late.

Room IDs must not contain '/'.
*/
package store
