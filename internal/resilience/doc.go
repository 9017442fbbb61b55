// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

/*
Package resilience composes the content fallback chain.

Each Fetch walks the tiers in a fixed order:

 1. room_cache: the batch already persisted in the store for this room
 2. memory_cache: the room's over-fetch pool, filled by earlier upstream pages
 3. upstream: the discovery source behind the circuit breaker, paged up to
    the configured page limit; unused results go back to the pool
 4. fallback: the static set, which cannot fail

A tier that errors or yields nothing hands over to the next one. Any
non-empty result ends the walk; the fallback is consulted only when every
earlier tier came back empty. Every attempt is appended to a bounded history
that is read only by diagnostics and never influences routing.
*/
package resilience
