// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ibanezbetes/trinity-sub002/internal/config"
	"github.com/ibanezbetes/trinity-sub002/internal/logging"
	"github.com/ibanezbetes/trinity-sub002/internal/metrics"
)

// Type identifies a room content event.
type Type string

const (
	TypeCacheCreated     Type = "cache_created"
	TypeBatchLoaded      Type = "batch_loaded"
	TypeContentExhausted Type = "content_exhausted"
	TypeCacheExpired     Type = "cache_expired"
	TypeCacheCleaned     Type = "cache_cleaned"
)

// Event is the payload carried on the topic.
type Event struct {
	ID              string    `json:"id"`
	Type            Type      `json:"type"`
	RoomID          string    `json:"room_id"`
	BatchNumber     int       `json:"batch_number,omitempty"`
	Count           int       `json:"count,omitempty"`
	TotalCandidates int       `json:"total_candidates,omitempty"`
	Source          string    `json:"source,omitempty"`
	RequestID       string    `json:"request_id,omitempty"`
	At              time.Time `json:"at"`
}

// Publisher is what the room cache depends on.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Nop discards events.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) {}

// ErrClosed is returned by Subscribe after Close.
var ErrClosed = errors.New("broadcaster closed")

// Broadcaster publishes events on a GoChannel topic.
type Broadcaster struct {
	pubsub *gochannel.GoChannel
	topic  string
	logger zerolog.Logger
}

// NewBroadcaster creates a broadcaster from cfg.
func NewBroadcaster(cfg *config.EventsConfig) *Broadcaster {
	wmLogger := watermill.NewSlogLogger(logging.NewSlogLogger())
	return &Broadcaster{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            cfg.BufferSize,
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: false,
		}, wmLogger),
		topic:  cfg.Topic,
		logger: logging.WithComponent("events"),
	}
}

// Topic returns the topic events are published on.
func (b *Broadcaster) Topic() string {
	return b.topic
}

// Publish sends ev. Failures are logged and counted, never returned:
// events are informational and must not fail the operation that raised them.
func (b *Broadcaster) Publish(ctx context.Context, ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if ev.RequestID == "" {
		ev.RequestID = logging.RequestIDFromContext(ctx)
	}

	err := b.publish(ev)
	metrics.RecordEventPublished(string(ev.Type), err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("event_type", string(ev.Type)).
			Str("room_id", ev.RoomID).
			Msg("Failed to publish room event")
	}
}

func (b *Broadcaster) publish(ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(ev.ID, payload)
	msg.Metadata.Set("event_type", string(ev.Type))
	msg.Metadata.Set("room_id", ev.RoomID)
	return b.pubsub.Publish(b.topic, msg)
}

// Subscribe returns the raw message stream for the topic. The stream closes
// when ctx is done or the broadcaster is closed.
func (b *Broadcaster) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	msgs, err := b.pubsub.Subscribe(ctx, b.topic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClosed, err)
	}
	return msgs, nil
}

// Close shuts down the GoChannel.
func (b *Broadcaster) Close() error {
	return b.pubsub.Close()
}

// Decode parses a message produced by Publish.
func Decode(msg *message.Message) (Event, error) {
	var ev Event
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return ev, fmt.Errorf("decode event %s: %w", msg.UUID, err)
	}
	return ev, nil
}
