// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package api

import (
	"net/http"

	"github.com/ibanezbetes/trinity-sub002/internal/resilience"
)

const defaultHistoryLimit = 50

// RequestHistory handles GET /api/v1/diagnostics/requests?limit=N.
// Attempts are returned most recent first.
func (h *Handler) RequestHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Request history is not available", nil)
		return
	}

	limit, ok := getIntParam(r, "limit", defaultHistoryLimit)
	if !ok {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "limit must be an integer", nil)
		return
	}
	req := historyRequest{Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	attempts := h.history.Recent(req.Limit)
	if attempts == nil {
		attempts = []resilience.Attempt{}
	}
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"attempts": attempts,
		"count":    len(attempts),
		"total":    h.history.Total(),
	})
}

// BreakerState handles GET /api/v1/diagnostics/breaker.
func (h *Handler) BreakerState(w http.ResponseWriter, r *http.Request) {
	if h.breaker == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Circuit breaker is not configured", nil)
		return
	}
	respondSuccess(w, r, http.StatusOK, h.breaker.Snapshot())
}
