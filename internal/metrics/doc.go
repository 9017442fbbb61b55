// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

// Package metrics holds Trinity's Prometheus collectors.
//
// Collectors are registered on the default registry through promauto and are
// exposed by the API router at /metrics. Families:
//
//   - trinity_circuit_breaker_*: state, requests, consecutive failures, transitions
//   - trinity_fallback_tier_*: orchestrator attempts by tier and outcome
//   - trinity_room_cache_*: batches, refills, exhaustion, active rooms
//   - trinity_store_*: BadgerDB operation latency and errors
//   - trinity_memory_cache_*: over-fetch pool hits and misses
//   - trinity_upstream_*: discovery API requests and latency
//   - trinity_api_*: HTTP request count and latency
//   - trinity_events_published_total: room content events
package metrics
