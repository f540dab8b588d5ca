// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package wind

import "errors"

var (
	// ErrNoWindData indicates no wind source files were found where the
	// loader was pointed. Non-retryable: the caller must supply data or
	// enable fetching.
	ErrNoWindData = errors.New("no wind data found")

	// ErrGridMismatch indicates source files disagree on grid dimensions,
	// are not dense, or the u and v variables have different time axes.
	ErrGridMismatch = errors.New("wind grid mismatch")
)
