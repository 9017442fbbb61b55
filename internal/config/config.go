// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package config

import "time"

// Config is the root configuration.
type Config struct {
	Content     ContentConfig     `koanf:"content"`
	Breaker     BreakerConfig     `koanf:"breaker"`
	RoomCache   RoomCacheConfig   `koanf:"room_cache"`
	Resilience  ResilienceConfig  `koanf:"resilience"`
	MemoryCache MemoryCacheConfig `koanf:"memory_cache"`
	Store       StoreConfig       `koanf:"store"`
	Events      EventsConfig      `koanf:"events"`
	Server      ServerConfig      `koanf:"server"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ContentConfig configures the discovery API client.
type ContentConfig struct {
	BaseURL  string        `koanf:"base_url"`
	APIKey   string        `koanf:"api_key"`
	Language string        `koanf:"language"`
	SortBy   string        `koanf:"sort_by"`
	Timeout  time.Duration `koanf:"timeout"`

	// MaxPages bounds how many discovery pages one batch request may pull.
	MaxPages int `koanf:"max_pages"`

	// RateLimit is requests per second toward the upstream; RateBurst is the bucket size.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
}

// BreakerConfig configures the circuit breaker around the discovery client.
type BreakerConfig struct {
	Name             string        `koanf:"name"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
	ResetTimeout     time.Duration `koanf:"reset_timeout"`
}

// RoomCacheConfig configures per-room batching.
type RoomCacheConfig struct {
	BatchSize     int           `koanf:"batch_size"`
	MaxBatches    int           `koanf:"max_batches"`
	TTL           time.Duration `koanf:"ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// ResilienceConfig configures the fallback orchestrator.
type ResilienceConfig struct {
	// StoreTimeout bounds each store call made from the orchestrator.
	StoreTimeout time.Duration `koanf:"store_timeout"`

	// HistorySize is the number of attempts kept for diagnostics.
	HistorySize int `koanf:"history_size"`
}

// MemoryCacheConfig configures the in-process over-fetch pool.
type MemoryCacheConfig struct {
	TTL             time.Duration `koanf:"ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// StoreConfig configures the BadgerDB store.
type StoreConfig struct {
	Path       string `koanf:"path"`
	InMemory   bool   `koanf:"in_memory"`
	SyncWrites bool   `koanf:"sync_writes"`

	// ExpiryGrace keeps rows physically present past their logical TTL so the
	// read-time check stays authoritative; Badger drops them after the grace.
	ExpiryGrace time.Duration `koanf:"expiry_grace"`

	// GCInterval schedules value log garbage collection. Zero disables it.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// EventsConfig configures the in-process room content event bus.
type EventsConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Topic      string `koanf:"topic"`
	BufferSize int64  `koanf:"buffer_size"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// SecurityConfig holds request throttling and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	// Level is trace, debug, info, warn or error.
	Level string `koanf:"level"`

	// Format is json (production) or console (development).
	Format string `koanf:"format"`

	Caller bool `koanf:"caller"`
}
