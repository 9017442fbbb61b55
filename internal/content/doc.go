// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

/*
Package content talks to the upstream discovery API (TMDB) and provides the
static fallback set used when every live source fails.

Components:

  - Client: one GET /discover/{movie|tv} per call, token-bucket rate limited,
    every call bounded by its own timeout
  - BreakerSource: wraps any Source with a sony/gobreaker circuit breaker
    (closed, open, half-open with a single trial call)
  - Fallback: genre-tagged titles that never need the network

Errors:

  - ErrSourceUnavailable: matched by every *SourceError (non-2xx, transport
    failure, timeout, undecodable body)
  - ErrCircuitOpen: the breaker refused the call without contacting upstream
  - ErrUnknownMediaKind: the media kind has no upstream route
*/
package content
