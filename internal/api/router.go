// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ibanezbetes/trinity-sub002/internal/middleware"
)

// Router builds the HTTP handler tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil middleware factory uses the defaults.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chiMiddleware.CORS()) // must be global to answer OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(router.chiMiddleware.RateLimit())

		r.Route("/rooms/{roomID}", func(r chi.Router) {
			r.Use(roomContext)

			r.With(router.chiMiddleware.RateLimitCreate()).Post("/cache", router.handler.CreateRoomCache)
			r.Get("/cache", router.handler.GetCacheStatus)
			r.Delete("/cache", router.handler.CleanupRoomCache)

			r.Get("/next", router.handler.GetNextCandidate)
			r.Post("/batches", router.handler.LoadBatch)
			r.Put("/ttl", router.handler.RefreshRoomTTL)

			r.Post("/shown", router.handler.TrackShownContent)
			r.Get("/excluded", router.handler.GetExcludedContent)
			r.Delete("/excluded", router.handler.ClearRoomExclusions)
		})

		r.Route("/diagnostics", func(r chi.Router) {
			r.Get("/requests", router.handler.RequestHistory)
			r.Get("/breaker", router.handler.BreakerState)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
