// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

/*
Package roomcache keeps, per room, the ordered and deduplicated list of
candidates shown to room members, and decides when to load the next batch.

Each room is guarded by its own mutex; the registry lock is held only to
find or insert a room, so different rooms proceed in parallel while
concurrent calls for one room serialize. That is what guarantees a single
refill per threshold crossing and a single hand-out per sequence index.

Batches come from the resilience orchestrator and are written through to
the store as a durable projection. Store failures are logged and absorbed;
the in-memory room is authoritative for the life of the process. Rooms
missing from memory are rehydrated from the store on first access.

Refill rule: after loading a batch of n candidates on top of t existing
ones, the next refill threshold is t + floor(n*0.8). GetNext loads the next
batch before serving when the cursor has reached the threshold and the room
is below its batch cap. A load that returns nothing marks the room exhausted.
An exhausted room skips read-ahead while it still has candidates to hand
out, and retries the load on every GetNext once it has run dry, so content
comes back as soon as any tier recovers. An explicit LoadNextBatch always
tries again.
*/
package roomcache
