// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package content

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is returned when the upstream call fails or times out.
	ErrSourceUnavailable = errors.New("content source unavailable")

	// ErrCircuitOpen is returned when the breaker rejects a call.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrUnknownMediaKind is returned for a kind with no upstream route.
	ErrUnknownMediaKind = errors.New("unknown media kind")
)

// SourceError describes one failed upstream call.
type SourceError struct {
	Route      string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *SourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("discover %s: status %d: %v", e.Route, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("discover %s: %v", e.Route, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Is makes every SourceError match ErrSourceUnavailable.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}
