// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package api

import (
	"context"
	"net/http"
	"time"
)

const readinessTimeout = 2 * time.Second

// HealthLive handles liveness checks. It answers 200 while the
// process is serving, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness checks. The room cache keeps serving
// from memory and the fallback set while the store is down, so an unreachable
// store reports not ready without failing liveness.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Store is not configured", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Store is not reachable", err)
		return
	}

	data := map[string]interface{}{
		"ready": true,
		"store": "ok",
	}
	if h.breaker != nil {
		data["upstream_breaker"] = h.breaker.Snapshot().State
	}
	respondSuccess(w, r, http.StatusOK, data)
}
