// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/ibanezbetes/trinity-sub002/internal/config"
	"github.com/ibanezbetes/trinity-sub002/internal/logging"
	"github.com/ibanezbetes/trinity-sub002/internal/supervisor"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Bool("store_in_memory", cfg.Store.InMemory).
		Str("store_path", cfg.Store.Path).
		Int("batch_size", cfg.RoomCache.BatchSize).
		Int("max_batches", cfg.RoomCache.MaxBatches).
		Bool("events_enabled", cfg.Events.Enabled).
		Msg("Configuration loaded")

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED")
	}

	a, err := newApp(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer a.close()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return
	}
	a.register(tree)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", a.server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
