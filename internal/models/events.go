// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package models

import (
	"time"

	"github.com/google/uuid"
)

// Event topics published on the in-process bus (and mirrored to NATS when
// built with the nats tag).
const (
	TopicPositions = "sim.positions"
	TopicRunStatus = "sim.runs"
)

// PositionEvent is a batch of trajectory samples for one balloon within one
// series window, published on TopicPositions as a run simulates. The publisher
// emits batches in window-major order (every balloon's window 0, then every
// balloon's window 1, ...) so that a subscriber marking coverage in arrival
// order preserves the hour-ordered overwrite rule.
//
// EndOfWindow is set on the last balloon batch of each window and tells the
// accumulator to sample the coverage fraction. EndOfRun is set on the final
// batch of the run.
type PositionEvent struct {
	RunID       uuid.UUID       `json:"run_id"`
	BalloonID   string          `json:"balloon_id"`
	Window      int             `json:"window"`
	Points      []PositionPoint `json:"points"`
	EndOfWindow bool            `json:"end_of_window,omitempty"`
	EndOfRun    bool            `json:"end_of_run,omitempty"`
}

// PositionPoint is one sample inside a PositionEvent.
type PositionPoint struct {
	Hour int     `json:"hour"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// RunStatusEvent announces a run lifecycle transition on TopicRunStatus.
// Fraction carries the latest coverage fraction for progress display; it is
// zero until the accumulator has processed the first batch.
type RunStatusEvent struct {
	RunID     uuid.UUID `json:"run_id"`
	Status    RunStatus `json:"status"`
	Fraction  float64   `json:"fraction,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
