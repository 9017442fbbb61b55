// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package events

import (
	"context"

	"github.com/ibanezbetes/trinity-sub002/internal/logging"
)

// Handler processes one decoded event.
type Handler func(ctx context.Context, ev Event)

// Relay consumes the broadcaster topic. It implements suture.Service.
type Relay struct {
	b       *Broadcaster
	handler Handler
}

// NewRelay creates a relay. A nil handler logs each event.
func NewRelay(b *Broadcaster, handler Handler) *Relay {
	if handler == nil {
		handler = LogHandler
	}
	return &Relay{b: b, handler: handler}
}

// LogHandler writes the event to the log at info level.
func LogHandler(ctx context.Context, ev Event) {
	logging.Ctx(ctx).Info().
		Str("event_id", ev.ID).
		Str("event_type", string(ev.Type)).
		Str("room_id", ev.RoomID).
		Int("batch", ev.BatchNumber).
		Int("count", ev.Count).
		Int("total_candidates", ev.TotalCandidates).
		Str("source", ev.Source).
		Msg("Room event")
}

// Serve subscribes and dispatches until ctx is done.
func (r *Relay) Serve(ctx context.Context) error {
	msgs, err := r.b.Subscribe(ctx)
	if err != nil {
		return err
	}
	logger := logging.WithComponent("event-relay")
	logger.Info().Str("topic", r.b.Topic()).Msg("Event relay started")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Event relay stopping")
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return ErrClosed
			}
			ev, err := Decode(msg)
			if err != nil {
				logger.Warn().Err(err).Msg("Dropping undecodable event")
				msg.Ack()
				continue
			}
			evCtx := logging.ContextWithRoomID(ctx, ev.RoomID)
			if ev.RequestID != "" {
				evCtx = logging.ContextWithRequestID(evCtx, ev.RequestID)
			}
			r.handler(evCtx, ev)
			msg.Ack()
		}
	}
}

// String names the service in supervisor logs.
func (r *Relay) String() string {
	return "event-relay"
}
