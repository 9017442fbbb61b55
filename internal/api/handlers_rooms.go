// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ibanezbetes/trinity-sub002/internal/logging"
	"github.com/ibanezbetes/trinity-sub002/internal/models"
)

// roomContext tags the request context with the room from the URL so every
// log line below the handler carries it.
func roomContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		ctx := logging.ContextWithRoomID(r.Context(), sanitizeLogValue(roomID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// validRoom validates the room path parameter, writing the error response
// when it is malformed.
func validRoom(w http.ResponseWriter, r *http.Request) (string, bool) {
	req := roomRequest{RoomID: chi.URLParam(r, "roomID")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return "", false
	}
	return req.RoomID, true
}

// CreateRoomCache handles POST /api/v1/rooms/{roomID}/cache.
// Creating a room that already exists returns its current status.
func (h *Handler) CreateRoomCache(w http.ResponseWriter, r *http.Request) {
	var req createCacheRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	req.RoomID = chi.URLParam(r, "roomID")
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	status, err := h.rooms.CreateCache(r.Context(), req.RoomID, req.FilterCriteria)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusCreated, status)
}

// GetCacheStatus handles GET /api/v1/rooms/{roomID}/cache.
func (h *Handler) GetCacheStatus(w http.ResponseWriter, r *http.Request) {
	roomID, ok := validRoom(w, r)
	if !ok {
		return
	}
	status, err := h.rooms.Status(r.Context(), roomID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, status)
}

// CleanupRoomCache handles DELETE /api/v1/rooms/{roomID}/cache.
func (h *Handler) CleanupRoomCache(w http.ResponseWriter, r *http.Request) {
	roomID, ok := validRoom(w, r)
	if !ok {
		return
	}
	if err := h.rooms.Cleanup(r.Context(), roomID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"room_id": roomID,
		"cleaned": true,
	})
}

// GetNextCandidate handles GET /api/v1/rooms/{roomID}/next. An exhausted room
// answers 200 with a null candidate.
func (h *Handler) GetNextCandidate(w http.ResponseWriter, r *http.Request) {
	roomID, ok := validRoom(w, r)
	if !ok {
		return
	}
	next, err := h.rooms.GetNext(r.Context(), roomID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, next)
}

// LoadBatch handles POST /api/v1/rooms/{roomID}/batches.
func (h *Handler) LoadBatch(w http.ResponseWriter, r *http.Request) {
	roomID, ok := validRoom(w, r)
	if !ok {
		return
	}
	batch, err := h.rooms.LoadNextBatch(r.Context(), roomID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     batch,
		Metadata: models.Metadata{Source: batch.Source},
	})
}

// RefreshRoomTTL handles PUT /api/v1/rooms/{roomID}/ttl.
func (h *Handler) RefreshRoomTTL(w http.ResponseWriter, r *http.Request) {
	var req refreshTTLRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	req.RoomID = chi.URLParam(r, "roomID")
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	status, err := h.rooms.RefreshTTL(r.Context(), req.RoomID, time.Duration(req.TTLSeconds)*time.Second)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, status)
}

// TrackShownContent handles POST /api/v1/rooms/{roomID}/shown.
func (h *Handler) TrackShownContent(w http.ResponseWriter, r *http.Request) {
	var req trackShownRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	req.RoomID = chi.URLParam(r, "roomID")
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	if err := h.rooms.TrackShown(r.Context(), req.RoomID, req.ContentIDs); err != nil {
		respondServiceError(w, r, err)
		return
	}
	h.respondExcluded(w, r, req.RoomID)
}

// GetExcludedContent handles GET /api/v1/rooms/{roomID}/excluded.
func (h *Handler) GetExcludedContent(w http.ResponseWriter, r *http.Request) {
	roomID, ok := validRoom(w, r)
	if !ok {
		return
	}
	h.respondExcluded(w, r, roomID)
}

// ClearRoomExclusions handles DELETE /api/v1/rooms/{roomID}/excluded.
func (h *Handler) ClearRoomExclusions(w http.ResponseWriter, r *http.Request) {
	roomID, ok := validRoom(w, r)
	if !ok {
		return
	}
	if err := h.rooms.ClearExclusions(r.Context(), roomID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	h.respondExcluded(w, r, roomID)
}

func (h *Handler) respondExcluded(w http.ResponseWriter, r *http.Request, roomID string) {
	ids, err := h.rooms.Excluded(r.Context(), roomID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	respondSuccess(w, r, http.StatusOK, &models.ExcludedResponse{
		RoomID:     roomID,
		ContentIDs: ids,
		Count:      len(ids),
	})
}
