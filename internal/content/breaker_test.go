// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package content

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ibanezbetes/trinity-sub002/internal/config"
	"github.com/ibanezbetes/trinity-sub002/internal/models"
)

// scriptedSource fails while failing is set and counts every call.
type scriptedSource struct {
	calls   atomic.Int32
	failing atomic.Bool
	gate    chan struct{} // when non-nil, calls block until it is closed
}

func (s *scriptedSource) Discover(ctx context.Context, kind models.MediaKind, q Query) ([]models.Candidate, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	if s.failing.Load() {
		return nil, &SourceError{Route: "movie", StatusCode: 503, Err: errors.New("unavailable")}
	}
	return []models.Candidate{{ContentID: "1", MediaKind: kind}}, nil
}

func newTestBreaker(t *testing.T, src Source, reset time.Duration) *BreakerSource {
	t.Helper()
	return NewBreakerSource(src, config.BreakerConfig{
		Name:             "test-" + t.Name(),
		FailureThreshold: 5,
		ResetTimeout:     reset,
	})
}

func discover(b *BreakerSource) error {
	_, err := b.Discover(context.Background(), models.MediaKindMovie, Query{})
	return err
}

func TestBreaker_OpensAtThreshold(t *testing.T) {
	src := &scriptedSource{}
	src.failing.Store(true)
	b := newTestBreaker(t, src, time.Minute)

	for i := 0; i < 4; i++ {
		if err := discover(b); !errors.Is(err, ErrSourceUnavailable) {
			t.Fatalf("call %d: err = %v, want ErrSourceUnavailable", i+1, err)
		}
		if s := b.Snapshot(); s.State != "closed" {
			t.Fatalf("breaker opened after %d failures", i+1)
		}
	}

	if err := discover(b); !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("5th call: err = %v", err)
	}
	snap := b.Snapshot()
	if snap.State != "open" {
		t.Fatalf("state = %q after 5 failures, want open", snap.State)
	}
	if snap.ConsecutiveFailures != 5 {
		t.Errorf("ConsecutiveFailures = %d, want 5", snap.ConsecutiveFailures)
	}
	if snap.LastFailureAt == nil {
		t.Error("LastFailureAt should be recorded")
	}

	callsBefore := src.calls.Load()
	if err := discover(b); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("call while open: err = %v, want ErrCircuitOpen", err)
	}
	if src.calls.Load() != callsBefore {
		t.Error("upstream must not be called while open")
	}
}

func TestBreaker_SuccessResetsCounter(t *testing.T) {
	src := &scriptedSource{}
	b := newTestBreaker(t, src, time.Minute)

	src.failing.Store(true)
	for i := 0; i < 4; i++ {
		_ = discover(b)
	}
	src.failing.Store(false)
	if err := discover(b); err != nil {
		t.Fatalf("success call: %v", err)
	}
	if b.Snapshot().ConsecutiveFailures != 0 {
		t.Error("success should reset the failure counter")
	}

	src.failing.Store(true)
	for i := 0; i < 4; i++ {
		_ = discover(b)
	}
	if s := b.Snapshot(); s.State != "closed" {
		t.Errorf("state = %q, want closed: failures were not consecutive", s.State)
	}
}

func TestBreaker_HalfOpenSuccessCloses(t *testing.T) {
	src := &scriptedSource{}
	src.failing.Store(true)
	b := newTestBreaker(t, src, 50*time.Millisecond)

	for i := 0; i < 5; i++ {
		_ = discover(b)
	}
	if b.Snapshot().State != "open" {
		t.Fatal("breaker should be open")
	}

	time.Sleep(80 * time.Millisecond)
	if s := b.Snapshot().State; s != "half-open" {
		t.Fatalf("state after reset timeout = %q, want half-open", s)
	}

	src.failing.Store(false)
	callsBefore := src.calls.Load()
	if err := discover(b); err != nil {
		t.Fatalf("trial call failed: %v", err)
	}
	if src.calls.Load() != callsBefore+1 {
		t.Error("trial call should reach the upstream")
	}
	snap := b.Snapshot()
	if snap.State != "closed" || snap.ConsecutiveFailures != 0 {
		t.Errorf("after successful trial: %+v", snap)
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	src := &scriptedSource{}
	src.failing.Store(true)
	b := newTestBreaker(t, src, 50*time.Millisecond)

	for i := 0; i < 5; i++ {
		_ = discover(b)
	}
	firstFailure := *b.Snapshot().LastFailureAt

	time.Sleep(80 * time.Millisecond)
	if err := discover(b); !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("trial: err = %v, want ErrSourceUnavailable", err)
	}

	snap := b.Snapshot()
	if snap.State != "open" {
		t.Fatalf("state = %q after failed trial, want open", snap.State)
	}
	if !snap.LastFailureAt.After(firstFailure) {
		t.Error("failed trial should refresh LastFailureAt")
	}
	if err := discover(b); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("call right after failed trial: err = %v, want ErrCircuitOpen", err)
	}
}

func TestBreaker_SingleHalfOpenTrial(t *testing.T) {
	src := &scriptedSource{}
	src.failing.Store(true)
	b := newTestBreaker(t, src, 50*time.Millisecond)

	for i := 0; i < 5; i++ {
		_ = discover(b)
	}
	time.Sleep(80 * time.Millisecond)

	src.failing.Store(false)
	src.gate = make(chan struct{})
	callsBefore := src.calls.Load()

	trialDone := make(chan error, 1)
	go func() { trialDone <- discover(b) }()

	// Wait until the trial call is inside the upstream call.
	deadline := time.Now().Add(time.Second)
	for src.calls.Load() == callsBefore && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	var wg sync.WaitGroup
	var rejected atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if errors.Is(discover(b), ErrCircuitOpen) {
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()
	close(src.gate)

	if err := <-trialDone; err != nil {
		t.Fatalf("trial: %v", err)
	}
	if got := src.calls.Load() - callsBefore; got != 1 {
		t.Errorf("upstream calls during half-open = %d, want exactly 1", got)
	}
	if rejected.Load() != 10 {
		t.Errorf("rejected = %d, want 10", rejected.Load())
	}
	if b.Snapshot().State != "closed" {
		t.Errorf("state = %q, want closed", b.Snapshot().State)
	}
}

func TestBreaker_ConcurrentFailuresCountedOnce(t *testing.T) {
	src := &scriptedSource{}
	src.failing.Store(true)
	b := NewBreakerSource(src, config.BreakerConfig{
		Name:             "concurrent",
		FailureThreshold: 100,
		ResetTimeout:     time.Minute,
	})

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = discover(b)
		}()
	}
	wg.Wait()

	if got := b.Snapshot().ConsecutiveFailures; got != 40 {
		t.Errorf("ConsecutiveFailures = %d, want 40", got)
	}
}

func TestBreaker_UnknownKindBypassesBreaker(t *testing.T) {
	src := &scriptedSource{}
	b := newTestBreaker(t, src, time.Minute)

	for i := 0; i < 10; i++ {
		_, err := b.Discover(context.Background(), "ANIME", Query{})
		if !errors.Is(err, ErrUnknownMediaKind) {
			t.Fatalf("err = %v", err)
		}
	}
	if b.Snapshot().State != "closed" || src.calls.Load() != 0 {
		t.Error("unknown kinds must not reach the upstream or count as failures")
	}
}
