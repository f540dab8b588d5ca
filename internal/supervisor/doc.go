// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

// Package supervisor arranges the long-running components into a suture
// supervision tree.
//
// The tree has three child layers under one root:
//
//   - data: the wind manager, the simulation service, and checkpoint GC.
//     These own the process's durable and in-memory state.
//   - messaging: the event router and the WebSocket hub. A crash here
//     loses in-flight fan-out but never stored results.
//   - api: the HTTP server.
//
// The layering isolates failures: a panic in the messaging layer restarts
// the router and hub without touching active simulations, and the API layer
// keeps serving stored runs while either sibling recovers. Supervisor events
// are logged through sutureslog into the process-wide zerolog sink (see
// logging.NewSlogLogger).
//
// Components that already block on a context — sim.Service, wind.Manager,
// checkpoint.Store — implement suture.Service directly and are added as-is.
// The services subpackage wraps the ones that do not (the HTTP server, and
// Run-style loops like the hub and event router).
package supervisor
