// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package main

import (
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/ibanezbetes/trinity-sub002/internal/api"
	"github.com/ibanezbetes/trinity-sub002/internal/cache"
	"github.com/ibanezbetes/trinity-sub002/internal/config"
	"github.com/ibanezbetes/trinity-sub002/internal/content"
	"github.com/ibanezbetes/trinity-sub002/internal/events"
	"github.com/ibanezbetes/trinity-sub002/internal/exclusion"
	"github.com/ibanezbetes/trinity-sub002/internal/logging"
	"github.com/ibanezbetes/trinity-sub002/internal/resilience"
	"github.com/ibanezbetes/trinity-sub002/internal/roomcache"
	"github.com/ibanezbetes/trinity-sub002/internal/store"
	"github.com/ibanezbetes/trinity-sub002/internal/supervisor"
	"github.com/ibanezbetes/trinity-sub002/internal/supervisor/services"
)

// gcDiscardRatio is the value log share that must be garbage before badger
// rewrites a file.
const gcDiscardRatio = 0.5

// app holds every long-lived component built from the configuration.
type app struct {
	cfg         *config.Config
	db          *store.BadgerStore
	store       store.Store
	breaker     *content.BreakerSource
	pool        *cache.Pool
	orch        *resilience.Orchestrator
	manager     *roomcache.Manager
	broadcaster *events.Broadcaster
	server      *http.Server
}

// newApp wires the components. The caller owns the result and must call close.
func newApp(cfg *config.Config) (*app, error) {
	db, err := store.Open(&cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	st := store.WithTimeout(db, cfg.Resilience.StoreTimeout)

	breaker := content.NewBreakerSource(content.NewClient(&cfg.Content), cfg.Breaker)
	pool := cache.NewPool(cfg.MemoryCache.TTL, cfg.MemoryCache.CleanupInterval)

	orch := resilience.New(resilience.Options{
		Store:       st,
		Source:      breaker,
		Pool:        pool,
		Fallback:    content.NewFallback(),
		MaxPages:    cfg.Content.MaxPages,
		SortBy:      cfg.Content.SortBy,
		HistorySize: cfg.Resilience.HistorySize,
	})

	a := &app{
		cfg:     cfg,
		db:      db,
		store:   st,
		breaker: breaker,
		pool:    pool,
		orch:    orch,
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.Events.Enabled {
		a.broadcaster = events.NewBroadcaster(&cfg.Events)
		publisher = a.broadcaster
	}

	a.manager = roomcache.NewManager(roomcache.Options{
		Fetcher:    orch,
		Store:      st,
		Exclusions: exclusion.NewTracker(st, cfg.RoomCache.TTL),
		Events:     publisher,
		BatchSize:  cfg.RoomCache.BatchSize,
		MaxBatches: cfg.RoomCache.MaxBatches,
		TTL:        cfg.RoomCache.TTL,
	})

	handler := api.NewHandler(api.HandlerOptions{
		Rooms:   a.manager,
		History: orch.History(),
		Breaker: breaker,
		Store:   st,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.Security)))

	a.server = &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return a, nil
}

// register adds the app's services to the supervisor tree.
func (a *app) register(tree *supervisor.SupervisorTree) {
	tree.AddAPIService(services.NewHTTPServerService(a.server, a.cfg.Server.ShutdownTimeout))
	tree.AddBackgroundService(services.NewSweeperService(a.manager, a.cfg.RoomCache.SweepInterval))

	if a.broadcaster != nil {
		tree.AddBackgroundService(events.NewRelay(a.broadcaster, nil))
	}

	// Value log GC does not apply to in-memory databases.
	if !a.cfg.Store.InMemory && a.cfg.Store.GCInterval > 0 {
		tree.AddStorageService(services.NewValueLogGCService(a.db, gcDiscardRatio, a.cfg.Store.GCInterval))
	}
}

// close releases the broadcaster, the pool and the store, in that order.
func (a *app) close() {
	if a.broadcaster != nil {
		if err := a.broadcaster.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event broadcaster")
		}
	}
	a.pool.Close()
	if err := a.db.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing store")
	}
}
