// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

/*
Package websocket streams live simulation progress to connected clients.

The package implements a hub-and-spoke pattern over gorilla/websocket: the
Hub owns the client set and fans out messages, and each Client runs a
readPump and a writePump goroutine for its connection. The event pipeline
feeds the hub through BroadcastRaw, so clients see position batches and run
lifecycle transitions as simulations progress.

Message Types:

  - position_batch: per-balloon trajectory samples for one series window
  - run_status: run lifecycle transition (pending, running, completed, ...)
  - ping / pong: keepalive initiated by either side

Every message is a JSON envelope:

	{"type": "run_status", "data": {"run_id": "...", "status": "running"}}

The hub never blocks on a client: a client whose send buffer is full is
disconnected and counted, which keeps one stalled reader from delaying the
simulation pipeline.
*/
package websocket
