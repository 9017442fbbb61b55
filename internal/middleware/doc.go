// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: per-route request counts and latency
  - AccessLog: one structured log line per request

Middleware Stack:

The router applies them in this order:

	r.Use(middleware.RequestID)         // Layer 1: request tracking
	r.Use(chimiddleware.RealIP)         // Layer 2: client address
	r.Use(chimiddleware.Recoverer)      // Layer 3: panic recovery
	r.Use(middleware.AccessLog)         // Layer 4: logging
	r.Use(middleware.PrometheusMetrics) // Layer 5: metrics

Metrics are labelled with the chi route pattern rather than the raw path, so
room IDs never become label values.
*/
package middleware
