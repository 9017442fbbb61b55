// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package resilience

import (
	"sync"
	"time"
)

// Tier names a step of the fallback chain.
type Tier string

const (
	TierRoomCache   Tier = "room_cache"
	TierMemoryCache Tier = "memory_cache"
	TierUpstream    Tier = "upstream"
	TierFallback    Tier = "fallback"
)

// Outcome of a single tier attempt.
const (
	OutcomeSuccess     = "success"
	OutcomeEmpty       = "empty"
	OutcomeFailure     = "failure"
	OutcomeCircuitOpen = "circuit_open"
)

// Attempt records one tier attempt.
type Attempt struct {
	ID        string        `json:"id"`
	RequestID string        `json:"request_id,omitempty"`
	RoomID    string        `json:"room_id"`
	Tier      Tier          `json:"tier"`
	Outcome   string        `json:"outcome"`
	Count     int           `json:"count"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
	At        time.Time     `json:"at"`
}

// History is a fixed-size ring of attempts.
type History struct {
	mu    sync.Mutex
	buf   []Attempt
	next  int
	full  bool
	total uint64
}

// NewHistory creates a ring holding size attempts (minimum 1).
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{buf: make([]Attempt, size)}
}

// Add appends an attempt, overwriting the oldest when full.
func (h *History) Add(a Attempt) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf[h.next] = a
	h.next = (h.next + 1) % len(h.buf)
	if h.next == 0 {
		h.full = true
	}
	h.total++
}

// Recent returns up to n attempts, most recent first. n <= 0 returns all.
func (h *History) Recent(n int) []Attempt {
	h.mu.Lock()
	defer h.mu.Unlock()

	size := h.next
	if h.full {
		size = len(h.buf)
	}
	if n <= 0 || n > size {
		n = size
	}
	out := make([]Attempt, 0, n)
	for i := 1; i <= n; i++ {
		idx := (h.next - i + len(h.buf)) % len(h.buf)
		out = append(out, h.buf[idx])
	}
	return out
}

// Total returns the number of attempts ever recorded.
func (h *History) Total() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.total
}
