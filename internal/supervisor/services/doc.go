// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

// Package services adapts components with non-suture lifecycles to the
// suture.Service interface so they can join the supervision tree.
//
// Two shapes are covered:
//
//   - HTTPService bridges *http.Server's blocking ListenAndServe and
//     explicit Shutdown call to a single context-driven Serve.
//   - RunnerService delegates to components exposing Run(ctx) error — the
//     WebSocket hub and the event router — adding only a stable name for
//     supervisor logs.
//
// Components that already implement Serve(ctx) error (sim.Service,
// wind.Manager, checkpoint.Store) need no wrapper.
package services
