// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID_GeneratesNewID(t *testing.T) {
	var capturedID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	responseID := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(responseID); err != nil {
		t.Fatalf("response %s %q is not a UUID: %v", RequestIDHeader, responseID, err)
	}
	if capturedID != responseID {
		t.Errorf("context ID %q does not match header ID %q", capturedID, responseID)
	}
}

func TestRequestID_UpstreamIDs(t *testing.T) {
	tests := []struct {
		name     string
		upstream string
		keep     bool
	}{
		{"well formed", "proxy-abc-123", true},
		{"uuid", "6f1c1d8e-3c55-4a8f-9f0f-1d2b3c4d5e6f", true},
		{"contains space", "abc def", false},
		{"control character", "abc\x01", false},
		{"too long", strings.Repeat("a", maxRequestIDLen+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedID string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedID = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(RequestIDHeader, tt.upstream)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if got := capturedID == tt.upstream; got != tt.keep {
				t.Errorf("kept upstream ID = %v, want %v (got %q)", got, tt.keep, capturedID)
			}
			if capturedID == "" {
				t.Error("expected a request ID in context")
			}
		})
	}
}
