// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

// Package validation validates API request structs with go-playground/validator v10.
//
// A single validator instance is built once and shared; it caches struct
// metadata, so it is safe and cheap to call from every handler. Field names
// in errors come from the json tag, which is what API clients see.
//
// Custom tags:
//   - roomid: 1-128 characters of [A-Za-z0-9_.:-]; '/' is never allowed
//     because it separates store key segments
//   - contentid: 1-64 characters of [A-Za-z0-9_-]
//   - mediakind: MOVIE or TV, case-insensitive
//
// Usage:
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
