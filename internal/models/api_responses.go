// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package models

import "time"

// APIResponse is the envelope every HTTP endpoint writes.
//
//	{
//	  "status": "success",
//	  "data": {"content_id": "550", "title": "Fight Club", ...},
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z", "request_id": "..."}
//	}
//
// On failure Status is "error" and Error is populated:
//
//	{
//	  "status": "error",
//	  "error": {"code": "MAX_BATCHES_EXCEEDED", "message": "..."},
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata is attached to every response.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	// Source names the fallback tier that produced the data, when relevant.
	Source string `json:"source,omitempty"`
}

// APIError carries a machine-readable code plus a human message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NextCandidateResponse is the payload of GET /rooms/{roomID}/next.
// Candidate is nil once the room is exhausted.
type NextCandidateResponse struct {
	Candidate *Candidate `json:"candidate"`
	Cursor    int        `json:"cursor"`
	Exhausted bool       `json:"exhausted"`
}

// BatchResponse is the payload of POST /rooms/{roomID}/batches.
type BatchResponse struct {
	BatchNumber int         `json:"batch_number"`
	Candidates  []Candidate `json:"candidates"`
	Source      string      `json:"source"`
	Exhausted   bool        `json:"exhausted"`
}

// ExcludedResponse is the payload of GET /rooms/{roomID}/excluded.
type ExcludedResponse struct {
	RoomID     string   `json:"room_id"`
	ContentIDs []string `json:"content_ids"`
	Count      int      `json:"count"`
}
