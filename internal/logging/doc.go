// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

// Package logging provides centralized zerolog-based structured logging.
//
// One global logger serves the whole process: JSON output for production,
// console output for development, configured once at startup via Init. The
// package-level event starters (Info, Warn, ...) are the normal way to log;
// Ctx and CtxWith add request correlation fields inside HTTP handlers, and
// the slog adapter lets suture's supervisor log through the same pipeline.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("component", "wind").Msg("field loaded")
//	logging.Ctx(ctx).Warn().Err(err).Msg("export failed")
//
// Always terminate chains with .Msg() or .Send(); an unterminated chain is
// silently dropped.
package logging
