// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ibanezbetes/trinity-sub002/internal/logging"
)

// periodic runs tick every interval until ctx is done. A failing tick is
// logged and the loop continues; only ctx ends it.
func periodic(ctx context.Context, interval time.Duration, logger zerolog.Logger, tick func(context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := tick(ctx); err != nil && ctx.Err() == nil {
				logger.Warn().Err(err).Msg("Periodic task failed")
			}
		}
	}
}

// Sweeper expires room caches whose TTL has passed.
// Satisfied by *roomcache.Manager.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// SweeperService runs Sweep on a fixed interval.
type SweeperService struct {
	sweeper  Sweeper
	interval time.Duration
	logger   zerolog.Logger
}

// NewSweeperService creates the service. A non-positive interval means one
// minute.
func NewSweeperService(sweeper Sweeper, interval time.Duration) *SweeperService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SweeperService{
		sweeper:  sweeper,
		interval: interval,
		logger:   logging.WithComponent("ttl-sweeper"),
	}
}

// Serve implements suture.Service.
func (s *SweeperService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("TTL sweeper started")
	return periodic(ctx, s.interval, s.logger, func(ctx context.Context) error {
		expired, err := s.sweeper.Sweep(logging.ContextWithNewRequestID(ctx))
		if expired > 0 {
			s.logger.Info().Int("expired", expired).Msg("Expired room caches swept")
		}
		return err
	})
}

// String implements fmt.Stringer for suture logs.
func (s *SweeperService) String() string {
	return "ttl-sweeper"
}

// ValueLogGC rewrites value log files whose discardable share exceeds ratio.
// Satisfied by *store.BadgerStore.
type ValueLogGC interface {
	RunValueLogGC(ratio float64) (int, error)
}

// ValueLogGCService runs badger value log GC on a fixed interval.
type ValueLogGCService struct {
	gc       ValueLogGC
	ratio    float64
	interval time.Duration
	logger   zerolog.Logger
}

// NewValueLogGCService creates the service. Ratios outside (0, 1) become 0.5
// and a non-positive interval means ten minutes.
func NewValueLogGCService(gc ValueLogGC, ratio float64, interval time.Duration) *ValueLogGCService {
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.5
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &ValueLogGCService{
		gc:       gc,
		ratio:    ratio,
		interval: interval,
		logger:   logging.WithComponent("badger-gc"),
	}
}

// Serve implements suture.Service.
func (g *ValueLogGCService) Serve(ctx context.Context) error {
	return periodic(ctx, g.interval, g.logger, func(context.Context) error {
		rewritten, err := g.gc.RunValueLogGC(g.ratio)
		if rewritten > 0 {
			g.logger.Debug().Int("files", rewritten).Msg("Value log GC rewrote files")
		}
		return err
	})
}

// String implements fmt.Stringer for suture logs.
func (g *ValueLogGCService) String() string {
	return "badger-gc"
}
