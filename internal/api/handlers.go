// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package api

import (
	"context"
	"time"

	"github.com/ibanezbetes/trinity-sub002/internal/content"
	"github.com/ibanezbetes/trinity-sub002/internal/models"
	"github.com/ibanezbetes/trinity-sub002/internal/resilience"
)

// RoomService is the room cache surface the handlers call.
// *roomcache.Manager implements it.
type RoomService interface {
	CreateCache(ctx context.Context, roomID string, filter models.FilterCriteria) (*models.RoomCacheStatus, error)
	Status(ctx context.Context, roomID string) (*models.RoomCacheStatus, error)
	Cleanup(ctx context.Context, roomID string) error
	GetNext(ctx context.Context, roomID string) (*models.NextCandidateResponse, error)
	LoadNextBatch(ctx context.Context, roomID string) (*models.BatchResponse, error)
	RefreshTTL(ctx context.Context, roomID string, ttl time.Duration) (*models.RoomCacheStatus, error)
	TrackShown(ctx context.Context, roomID string, contentIDs []string) error
	Excluded(ctx context.Context, roomID string) ([]string, error)
	ClearExclusions(ctx context.Context, roomID string) error
}

// BreakerReporter reports circuit breaker state.
type BreakerReporter interface {
	Snapshot() content.BreakerSnapshot
}

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HandlerOptions wires a Handler. History, Breaker and Store may be nil; the
// endpoints that need them then report the dependency as unavailable.
type HandlerOptions struct {
	Rooms   RoomService
	History *resilience.History
	Breaker BreakerReporter
	Store   Pinger
}

// Handler holds the dependencies of every HTTP handler.
type Handler struct {
	rooms     RoomService
	history   *resilience.History
	breaker   BreakerReporter
	store     Pinger
	startTime time.Time
}

// NewHandler creates a handler.
func NewHandler(opts HandlerOptions) *Handler {
	return &Handler{
		rooms:     opts.Rooms,
		history:   opts.History,
		breaker:   opts.Breaker,
		store:     opts.Store,
		startTime: time.Now(),
	}
}
