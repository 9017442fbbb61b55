// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

/*
Package cache provides the in-process memory tier of the fallback chain.

Cache is a thread-safe TTL map with lazy expiry on Get and a background
cleanup loop. Pool builds on it to hold, per room, candidates that were
fetched from the upstream but not yet placed in a batch (over-fetch
leftovers). The orchestrator consults the pool before calling the upstream
and when the store is degraded.

	pool := cache.NewPool(30*time.Minute, 5*time.Minute)
	defer pool.Close()

	pool.Put("room-1", leftovers)
	got := pool.Take("room-1", excluded, 30)
*/
package cache
