// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogToZerologLevel(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			if got := slogToZerologLevel(tt.in); got != tt.want {
				t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	prevLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(prevLevel)

	h := NewSlogHandlerWithLogger(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled for a warn logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled for a warn logger")
	}
}

func TestSlogHandler_Handle(t *testing.T) {
	prevLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(prevLevel)

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf)))
	logger.Warn("service restarted",
		"service", "sweeper",
		"attempt", 3,
		"backoff", 2*time.Second,
		"ok", false,
		"err", errors.New("boom"),
	)

	m := decodeLine(t, &buf)
	checks := map[string]interface{}{
		"level":   "warn",
		"message": "service restarted",
		"service": "sweeper",
		"attempt": float64(3),
		"ok":      false,
		"err":     "boom",
	}
	for k, want := range checks {
		if m[k] != want {
			t.Errorf("%s = %v, want %v", k, m[k], want)
		}
	}
	if _, ok := m["backoff"]; !ok {
		t.Error("backoff duration missing")
	}
}

func TestSlogHandler_AttrsAndGroups(t *testing.T) {
	prevLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(prevLevel)

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf))).
		With("component", "events").
		WithGroup("pubsub").
		WithGroup("gochannel")
	logger.Info("published", "topic", "room.content")

	m := decodeLine(t, &buf)
	if m["pubsub.gochannel.component"] != "events" {
		t.Errorf("pre-configured attr not prefixed: %v", m)
	}
	if m["pubsub.gochannel.topic"] != "room.content" {
		t.Errorf("record attr not prefixed: %v", m)
	}
}

func TestSlogHandler_NestedGroupAttr(t *testing.T) {
	prevLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(prevLevel)

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf)))
	logger.Info("msg", slog.Group("breaker", slog.String("state", "open")))

	m := decodeLine(t, &buf)
	if m["breaker.state"] != "open" {
		t.Errorf("group attr not flattened: %v", m)
	}
}

func TestSlogHandler_WithGroupEmpty(t *testing.T) {
	h := NewSlogHandler()
	if h.WithGroup("") != h {
		t.Error("empty group name should return the same handler")
	}
}
