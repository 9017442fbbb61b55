// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package api

import "github.com/ibanezbetes/trinity-sub002/internal/models"

// roomRequest carries the room ID from the URL path.
type roomRequest struct {
	RoomID string `json:"room_id" validate:"roomid"`
}

// createCacheRequest is the body of POST /rooms/{roomID}/cache.
//
//	{"media_kind": "MOVIE", "genre_ids": [28, 12], "sort_by": "popularity.desc"}
type createCacheRequest struct {
	RoomID string `json:"room_id" validate:"roomid"`
	models.FilterCriteria
}

// trackShownRequest is the body of POST /rooms/{roomID}/shown. An empty list
// is accepted and changes nothing.
type trackShownRequest struct {
	RoomID     string   `json:"room_id" validate:"roomid"`
	ContentIDs []string `json:"content_ids" validate:"max=500,dive,contentid"`
}

// refreshTTLRequest is the body of PUT /rooms/{roomID}/ttl.
type refreshTTLRequest struct {
	RoomID     string `json:"room_id" validate:"roomid"`
	TTLSeconds int    `json:"ttl_seconds" validate:"required,min=60,max=2592000"`
}

// historyRequest is the query of GET /diagnostics/requests.
type historyRequest struct {
	Limit int `json:"limit" validate:"min=1,max=1000"`
}
