// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate checks that required configuration is present and consistent.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateContent,
		c.validateBreaker,
		c.validateRoomCache,
		c.validateResilience,
		c.validateStore,
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateContent() error {
	if c.Content.APIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	u, err := url.Parse(c.Content.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("content.base_url must be an http(s) URL, got %q", c.Content.BaseURL)
	}
	if c.Content.Timeout <= 0 {
		return fmt.Errorf("content.timeout must be positive")
	}
	if c.Content.MaxPages < 1 {
		return fmt.Errorf("content.max_pages must be at least 1, got %d", c.Content.MaxPages)
	}
	if c.Content.RateLimit < 0 {
		return fmt.Errorf("content.rate_limit must not be negative")
	}
	if c.Content.RateLimit > 0 && c.Content.RateBurst < 1 {
		return fmt.Errorf("content.rate_burst must be at least 1 when rate_limit is set")
	}
	return nil
}

func (c *Config) validateBreaker() error {
	if c.Breaker.FailureThreshold < 1 {
		return fmt.Errorf("breaker.failure_threshold must be at least 1")
	}
	if c.Breaker.ResetTimeout < time.Second {
		return fmt.Errorf("breaker.reset_timeout must be at least 1s, got %v", c.Breaker.ResetTimeout)
	}
	return nil
}

func (c *Config) validateRoomCache() error {
	rc := c.RoomCache
	if rc.BatchSize < 1 || rc.BatchSize > 500 {
		return fmt.Errorf("room_cache.batch_size must be between 1 and 500, got %d", rc.BatchSize)
	}
	if rc.MaxBatches < 1 {
		return fmt.Errorf("room_cache.max_batches must be at least 1, got %d", rc.MaxBatches)
	}
	if rc.TTL < time.Minute {
		return fmt.Errorf("room_cache.ttl must be at least 1m, got %v", rc.TTL)
	}
	if rc.SweepInterval <= 0 {
		return fmt.Errorf("room_cache.sweep_interval must be positive")
	}
	return nil
}

func (c *Config) validateResilience() error {
	if c.Resilience.StoreTimeout <= 0 {
		return fmt.Errorf("resilience.store_timeout must be positive")
	}
	if c.Resilience.HistorySize < 1 {
		return fmt.Errorf("resilience.history_size must be at least 1")
	}
	return nil
}

func (c *Config) validateStore() error {
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required unless store.in_memory is set")
	}
	if c.Store.ExpiryGrace < 0 {
		return fmt.Errorf("store.expiry_grace must not be negative")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("server.environment must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("security.rate_limit_reqs must be at least 1")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("security.rate_limit_window must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
