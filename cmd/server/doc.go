// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

// Package main is the entry point for the Trinity room content server.
//
// Trinity hands out movie and TV candidates to voting rooms. Each room gets a
// sequence of pre-fetched batches stored in BadgerDB, refilled ahead of the
// room's cursor, and served through a fallback chain (room cache, in-process
// pool, upstream discovery behind a circuit breaker, static fallback set) so a
// room always gets content while the upstream or the store is down.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: struct defaults, optional YAML file, environment (Koanf v2)
//  2. Logging: zerolog, JSON or console
//  3. Store: BadgerDB, on disk or in memory, with a per-call timeout
//  4. Content source: discovery client behind the circuit breaker
//  5. Resilience orchestrator: fallback chain with request history
//  6. Exclusion tracker and room cache manager
//  7. Event broadcaster (optional) and its log relay
//  8. HTTP API and the supervisor tree
//
// # Configuration
//
// Highest priority wins:
//   - Environment variables (e.g. TMDB_API_KEY, STORE_PATH, HTTP_PORT)
//   - Config file (config.yaml, or the path in CONFIG_PATH)
//   - Built-in defaults
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree: the HTTP server drains
// in-flight requests, background services stop, then the broadcaster and the
// store are closed.
package main
