// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package api

import (
	"errors"
	"net/http"

	"github.com/ibanezbetes/trinity-sub002/internal/models"
	"github.com/ibanezbetes/trinity-sub002/internal/roomcache"
	"github.com/ibanezbetes/trinity-sub002/internal/store"
)

// respondServiceError maps a room cache error to its HTTP status and code.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, roomcache.ErrInvalidRoomID), errors.Is(err, roomcache.ErrInvalidFilter):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
	case errors.Is(err, roomcache.ErrRoomNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeRoomNotFound, "Room cache not found", nil)
	case errors.Is(err, roomcache.ErrRoomExpired):
		respondError(w, r, http.StatusGone, ErrCodeRoomExpired, "Room cache has expired", nil)
	case errors.Is(err, roomcache.ErrMaxBatchesExceeded):
		respondError(w, r, http.StatusConflict, ErrCodeMaxBatches, "Room has loaded its maximum number of batches", nil)
	case errors.Is(err, roomcache.ErrCreationFailed):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeCreationFailed, "No content available to create the room cache", err)
	case errors.Is(err, store.ErrPartialTTLUpdate):
		apiErr := &models.APIError{Code: ErrCodeTTLIncomplete, Message: "Room TTL was only partially refreshed"}
		var partial *store.PartialUpdateError
		if errors.As(err, &partial) {
			apiErr.Details = map[string]interface{}{
				"updated": partial.Updated,
				"total":   partial.Total,
			}
		}
		respondAPIError(w, r, http.StatusServiceUnavailable, apiErr, err)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", err)
	}
}
