// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

// Package sim owns the lifecycle of simulation runs.
//
// A run moves through the system in three stages:
//
//  1. Launch validates the request against the configured limits, freezes
//     the run configuration, persists the pending run, and starts a run
//     goroutine.
//  2. The run goroutine simulates the fleet on the trajectory worker pool,
//     stores the raw trajectories, and streams position batches onto the
//     event bus in window-major order.
//  3. The Accumulator — a single pipeline consumer — buffers each series
//     window, marks the coverage grid in step order when the window closes,
//     samples the fraction time series, checkpoints progress, and on the
//     final batch computes the coverage summary and completes the run.
//
// The coverage grid of each run is owned exclusively by the accumulator's
// handler goroutine; nothing else writes to it. Cancellation flows through
// the per-run context: the run goroutine observes it, deregisters the
// accumulator state, and records the canceled status.
package sim
