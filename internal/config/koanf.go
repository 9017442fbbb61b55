// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/trinity/config.yaml",
	"/etc/trinity/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Content: ContentConfig{
			BaseURL:   "https://api.themoviedb.org/3",
			APIKey:    "",
			Language:  "es-ES",
			SortBy:    "popularity.desc",
			Timeout:   8 * time.Second,
			MaxPages:  3,
			RateLimit: 4,
			RateBurst: 8,
		},
		Breaker: BreakerConfig{
			Name:             "tmdb",
			FailureThreshold: 5,
			ResetTimeout:     60 * time.Second,
		},
		RoomCache: RoomCacheConfig{
			BatchSize:     30,
			MaxBatches:    10,
			TTL:           24 * time.Hour,
			SweepInterval: time.Minute,
		},
		Resilience: ResilienceConfig{
			StoreTimeout: 3 * time.Second,
			HistorySize:  200,
		},
		MemoryCache: MemoryCacheConfig{
			TTL:             30 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Store: StoreConfig{
			Path:        "/data/trinity",
			InMemory:    false,
			SyncWrites:  false,
			ExpiryGrace: time.Hour,
			GCInterval:  10 * time.Minute,
		},
		Events: EventsConfig{
			Enabled:    true,
			Topic:      "room.content",
			BufferSize: 256,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads defaults, then the optional YAML file, then mapped
// environment variables, and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
// Values that came from YAML are already slices and are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"tmdb_api_key":       "content.api_key",
	"tmdb_base_url":      "content.base_url",
	"tmdb_language":      "content.language",
	"tmdb_sort_by":       "content.sort_by",
	"tmdb_timeout":       "content.timeout",
	"tmdb_max_pages":     "content.max_pages",
	"tmdb_rate_limit":    "content.rate_limit",
	"tmdb_rate_burst":    "content.rate_burst",
	"breaker_threshold":  "breaker.failure_threshold",
	"breaker_reset":      "breaker.reset_timeout",
	"batch_size":         "room_cache.batch_size",
	"max_batches":        "room_cache.max_batches",
	"room_cache_ttl":     "room_cache.ttl",
	"sweep_interval":     "room_cache.sweep_interval",
	"store_timeout":      "resilience.store_timeout",
	"history_size":       "resilience.history_size",
	"memory_cache_ttl":   "memory_cache.ttl",
	"badger_path":        "store.path",
	"badger_in_memory":   "store.in_memory",
	"badger_sync_writes": "store.sync_writes",
	"badger_gc_interval": "store.gc_interval",
	"events_enabled":     "events.enabled",
	"events_topic":       "events.topic",
	"http_host":          "server.host",
	"http_port":          "server.port",
	"environment":        "server.environment",
	"rate_limit_reqs":    "security.rate_limit_reqs",
	"rate_limit_window":  "security.rate_limit_window",
	"disable_rate_limit": "security.rate_limit_disabled",
	"cors_origins":       "security.cors_origins",
	"log_level":          "logging.level",
	"log_format":         "logging.format",
	"log_caller":         "logging.caller",
}

// envTransformFunc maps TMDB_API_KEY to content.api_key and so on.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
