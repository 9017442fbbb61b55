// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package content

import (
	"context"
	"errors"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ibanezbetes/trinity-sub002/internal/config"
	"github.com/ibanezbetes/trinity-sub002/internal/logging"
	"github.com/ibanezbetes/trinity-sub002/internal/metrics"
	"github.com/ibanezbetes/trinity-sub002/internal/models"
)

// BreakerSnapshot is the externally visible breaker state.
type BreakerSnapshot struct {
	Name                string        `json:"name"`
	State               string        `json:"state"`
	ConsecutiveFailures uint32        `json:"consecutive_failures"`
	LastFailureAt       *time.Time    `json:"last_failure_at,omitempty"`
	FailureThreshold    uint32        `json:"failure_threshold"`
	ResetTimeout        time.Duration `json:"reset_timeout"`
}

// BreakerSource guards a Source with a circuit breaker shared by every room.
//
// Closed: failures are counted; FailureThreshold consecutive failures open it.
// Open: calls fail with ErrCircuitOpen until ResetTimeout has passed.
// Half-open: a single trial call is let through; concurrent callers are rejected.
// A successful trial closes the breaker, a failed one reopens it.
type BreakerSource struct {
	src       Source
	cb        *gobreaker.CircuitBreaker[[]models.Candidate]
	name      string
	threshold uint32
	reset     time.Duration

	mu            sync.Mutex
	failures      uint32
	lastFailureAt time.Time
}

// NewBreakerSource wraps src.
func NewBreakerSource(src Source, cfg config.BreakerConfig) *BreakerSource {
	b := &BreakerSource{
		src:       src,
		name:      cfg.Name,
		threshold: cfg.FailureThreshold,
		reset:     cfg.ResetTimeout,
	}

	metrics.CircuitBreakerState.WithLabelValues(b.name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)

	b.cb = gobreaker.NewCircuitBreaker[[]models.Candidate](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    0, // counts are only cleared on state changes
		Timeout:     cfg.ResetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Warn().
				Str("breaker", name).
				Str("from", fromStr).
				Str("to", toStr).
				Msg("Circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})
	return b
}

// Discover calls the wrapped source unless the breaker is open.
// Unknown media kinds are rejected before the breaker sees the call.
func (b *BreakerSource) Discover(ctx context.Context, kind models.MediaKind, q Query) ([]models.Candidate, error) {
	route, err := Route(kind)
	if err != nil {
		return nil, err
	}

	result, err := b.cb.Execute(func() ([]models.Candidate, error) {
		return b.src.Discover(ctx, kind, q)
	})

	switch {
	case err == nil:
		b.mu.Lock()
		b.failures = 0
		b.mu.Unlock()
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
		return result, nil

	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		return nil, ErrCircuitOpen

	default:
		b.mu.Lock()
		b.failures++
		b.lastFailureAt = time.Now()
		failures := b.failures
		b.mu.Unlock()
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(failures))
		if !errors.Is(err, ErrSourceUnavailable) {
			err = &SourceError{Route: route, Err: err}
		}
		return nil, err
	}
}

// Snapshot returns the current breaker state.
func (b *BreakerSource) Snapshot() BreakerSnapshot {
	state := b.cb.State()

	b.mu.Lock()
	defer b.mu.Unlock()

	snap := BreakerSnapshot{
		Name:                b.name,
		State:               stateToString(state),
		ConsecutiveFailures: b.failures,
		FailureThreshold:    b.threshold,
		ResetTimeout:        b.reset,
	}
	if !b.lastFailureAt.IsZero() {
		at := b.lastFailureAt
		snap.LastFailureAt = &at
	}
	return snap
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
