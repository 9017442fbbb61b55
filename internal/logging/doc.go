// Trinity - Room Content Cache and Resilience Engine
// Copyright 2026 The Trinity Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ibanezbetes/trinity

// Package logging provides the process-wide zerolog logger for Trinity.
//
// Every component logs through this package instead of the standard log
// package so that output is structured JSON in production and readable
// console text during development.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("room_id", roomID).Int("batch", n).Msg("Batch loaded")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Store unavailable, using memory pool")
//
// # Configuration
//
//	LOG_LEVEL   trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  json, console (default: json)
//	LOG_CALLER  true, false (default: false)
//
// # slog bridge
//
// Libraries that only accept *slog.Logger (suture via sutureslog, watermill)
// get one from NewSlogLogger, which forwards every record to zerolog.
package logging
