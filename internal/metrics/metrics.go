// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trinity_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trinity_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trinity_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trinity_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Fallback chain
	FallbackTierAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trinity_fallback_tier_attempts_total",
			Help: "Orchestrator attempts per tier",
		},
		[]string{"tier", "outcome"}, // outcome: "served", "empty", "failed"
	)

	FallbackTierDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trinity_fallback_tier_duration_seconds",
			Help:    "Duration of orchestrator tier attempts",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tier"},
	)

	// Room cache
	RoomCacheBatchesLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trinity_room_cache_batches_loaded_total",
			Help: "Batches appended to room caches",
		},
		[]string{"source"},
	)

	RoomCacheRefills = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trinity_room_cache_refills_total",
			Help: "Read-ahead refills triggered by getNext",
		},
	)

	RoomCacheExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trinity_room_cache_exhausted_total",
			Help: "Batch loads that returned no new candidates",
		},
	)

	RoomCacheMaxBatchesRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trinity_room_cache_max_batches_rejections_total",
			Help: "Batch loads rejected because the room reached its batch cap",
		},
	)

	RoomCacheActiveRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trinity_room_cache_active_rooms",
			Help: "Room caches currently held in memory",
		},
	)

	RoomCacheExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trinity_room_cache_expired_total",
			Help: "Room caches expired by the TTL sweeper",
		},
	)

	// Store
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trinity_store_operation_duration_seconds",
			Help:    "Duration of store operations",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trinity_store_operation_errors_total",
			Help: "Store operation errors",
		},
		[]string{"operation"},
	)

	StoreCorruptedEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trinity_store_corrupted_entries_total",
			Help: "Stored rows that failed integrity checks on read",
		},
	)

	// Memory cache
	MemoryCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trinity_memory_cache_hits_total",
			Help: "Over-fetch pool lookups that returned candidates",
		},
	)

	MemoryCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trinity_memory_cache_misses_total",
			Help: "Over-fetch pool lookups that found nothing",
		},
	)

	// Upstream discovery API
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trinity_upstream_requests_total",
			Help: "Discovery API requests by route and status code",
		},
		[]string{"route", "status"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trinity_upstream_request_duration_seconds",
			Help:    "Discovery API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trinity_api_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trinity_api_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Events
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trinity_events_published_total",
			Help: "Room content events published",
		},
		[]string{"type", "result"},
	)
)

// RecordTierAttempt records one orchestrator tier attempt.
func RecordTierAttempt(tier, outcome string, duration time.Duration) {
	FallbackTierAttempts.WithLabelValues(tier, outcome).Inc()
	FallbackTierDuration.WithLabelValues(tier).Observe(duration.Seconds())
}

// RecordStoreOperation records latency and, if err is non-nil, an error.
func RecordStoreOperation(operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(operation).Inc()
	}
}

// RecordUpstreamRequest records a discovery call. statusCode 0 means transport failure.
func RecordUpstreamRequest(route string, statusCode int, duration time.Duration) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	UpstreamRequests.WithLabelValues(route, status).Inc()
	UpstreamRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordEventPublished records a publish attempt.
func RecordEventPublished(eventType string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	EventsPublished.WithLabelValues(eventType, result).Inc()
}
