// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	roomIDKey    contextKey = "room_id"
	loggerKey    contextKey = "logger"
)

// GenerateRequestID returns a new UUID string.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID returns a context carrying the request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithNewRequestID returns a context with a freshly generated request ID.
func ContextWithNewRequestID(ctx context.Context) context.Context {
	return ContextWithRequestID(ctx, GenerateRequestID())
}

// RequestIDFromContext returns the request ID, or "" if none was set.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithRoomID tags every log line written through Ctx with the room.
//
//	ctx = logging.ContextWithRoomID(ctx, roomID)
func ContextWithRoomID(ctx context.Context, roomID string) context.Context {
	return context.WithValue(ctx, roomIDKey, roomID)
}

// RoomIDFromContext returns the room ID, or "" if none was set.
func RoomIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(roomIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithLogger stores a pre-configured logger in the context.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the stored logger, falling back to the global one.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return Logger()
}

// Ctx returns a logger with request_id and room_id added when present.
//
//	logging.Ctx(ctx).Info().Int("batch", 2).Msg("Batch loaded")
//	// {"level":"info","request_id":"...","room_id":"r1","batch":2,"message":"Batch loaded"}
func Ctx(ctx context.Context) *zerolog.Logger {
	l := CtxWith(ctx).Logger()
	return &l
}

// CtxWith returns a context builder pre-populated with the context fields.
func CtxWith(ctx context.Context) zerolog.Context {
	logger := LoggerFromContext(ctx)
	logCtx := logger.With()
	if id := RequestIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("request_id", id)
	}
	if id := RoomIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("room_id", id)
	}
	return logCtx
}

// WithComponent creates a child logger with a component field.
//
//	log := logging.WithComponent("orchestrator")
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
