// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

// Package exclusion tracks, per room, the content IDs already shown so they
// are never offered again. Sets are independent per room and guarded by
// per-room locks. The in-process set is authoritative for reads; writes go
// through to a Persister when one is configured and are loaded lazily the
// first time a room is touched.
package exclusion
