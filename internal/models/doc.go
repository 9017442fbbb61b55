// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

/*
Package models defines the data structures shared across Trinity.

Key types:

  - Candidate: one movie or TV title that can be shown to a room
  - FilterCriteria: media kind and genre filter fixed when a room cache is created
  - StoredEntry: a persisted Candidate with its room, sequence index and TTL
  - RoomMetadata: the durable projection of a room cache (counters, cursor, status)
  - RoomCacheStatus: read-only snapshot returned to handlers
  - APIResponse / APIError: the JSON envelope for every HTTP response

All timestamps that act as expiry use epoch seconds, matching the store's TTL
field: a row is logically gone once the current time exceeds it.
*/
package models
