// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/ibanezbetes/trinity-sub002/internal/logging"
	"github.com/ibanezbetes/trinity-sub002/internal/models"
	"github.com/ibanezbetes/trinity-sub002/internal/validation"
)

// maxBodyBytes bounds request bodies. The largest legitimate body is a
// trackShown call with 500 content IDs.
const maxBodyBytes = 64 << 10

// Error codes for API responses.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeRoomNotFound       = "ROOM_NOT_FOUND"
	ErrCodeRoomExpired        = "ROOM_EXPIRED"
	ErrCodeMaxBatches         = "MAX_BATCHES_EXCEEDED"
	ErrCodeCreationFailed     = "CREATION_FAILED"
	ErrCodeTTLIncomplete      = "TTL_UPDATE_INCOMPLETE"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// sanitizeLogValue escapes control characters so request data cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response. Room state changes on every call, so
// responses are never cacheable.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, response *models.APIResponse) {
	if response.Metadata.Timestamp.IsZero() {
		response.Metadata.Timestamp = time.Now()
	}
	if response.Metadata.RequestID == "" {
		response.Metadata.RequestID = logging.RequestIDFromContext(r.Context())
	}

	data, err := json.Marshal(response)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	respondJSON(w, r, status, &models.APIResponse{Status: "success", Data: data})
}

// respondError sends an error envelope. A non-nil err is logged, never echoed.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	respondAPIError(w, r, status, &models.APIError{Code: code, Message: message}, err)
}

func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.Str("code", sanitizeLogValue(apiErr.Code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, r, status, &models.APIResponse{
		Status: "error",
		Error:  apiErr,
	})
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes.
//
//	req := roomRequest{RoomID: chi.URLParam(r, "roomID")}
//	if apiErr := validateRequest(&req); apiErr != nil {
//	    respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
//	    return
//	}
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}
	return validationErr.ToAPIError()
}

// decodeJSON decodes a bounded request body into dst, rejecting unknown
// fields and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return fmt.Errorf("malformed JSON: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// getIntParam extracts an integer query parameter with a default value.
// A present but non-numeric value is reported as ok=false.
func getIntParam(r *http.Request, key string, defaultValue int) (int, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, true
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return intValue, true
}
