// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ibanezbetes/trinity-sub002/internal/config"
)

func newTestBroadcaster(t *testing.T) *Broadcaster {
	t.Helper()
	b := NewBroadcaster(&config.EventsConfig{Enabled: true, Topic: "room.content", BufferSize: 16})
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestRelayDeliversEvents(t *testing.T) {
	b := newTestBroadcaster(t)
	got := make(chan Event, 4)
	relay := NewRelay(b, func(_ context.Context, ev Event) {
		select {
		case got <- ev:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Serve(ctx) }()

	// Wait for the subscription before publishing: GoChannel drops
	// messages that have no subscriber.
	deadline := time.After(2 * time.Second)
	for {
		b.Publish(context.Background(), Event{Type: TypeBatchLoaded, RoomID: "room1", BatchNumber: 2, Count: 30})
		select {
		case ev := <-got:
			if ev.Type != TypeBatchLoaded || ev.RoomID != "room1" || ev.BatchNumber != 2 {
				t.Errorf("received %+v", ev)
			}
			if ev.ID == "" || ev.At.IsZero() {
				t.Error("event ID and timestamp should be filled in")
			}
			cancel()
			if err := <-done; !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
			return
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			cancel()
			t.Fatal("relay never received an event")
		}
	}
}

func TestDecode_Invalid(t *testing.T) {
	msg := message.NewMessage("bad", []byte("not json"))
	if _, err := Decode(msg); err == nil {
		t.Error("Decode() error = nil for invalid payload")
	}
}

func TestPublishWithoutSubscriberDoesNotBlock(t *testing.T) {
	b := newTestBroadcaster(t)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(context.Background(), Event{Type: TypeCacheCleaned, RoomID: "r"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked with no subscriber")
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	p.Publish(context.Background(), Event{Type: TypeCacheCreated})
}
