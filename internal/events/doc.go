// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

// Package events broadcasts room content lifecycle events (cache created,
// batch loaded, content exhausted, cache expired, cache cleaned) over an
// in-process Watermill GoChannel. A supervised Relay consumes the topic and
// hands each event to its handler; by default it logs them.
package events
