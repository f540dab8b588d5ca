// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package fleet

import "errors"

var (
	// ErrNotSimulated reports a read of trajectories, records, or coverage
	// before Simulate has completed successfully.
	ErrNotSimulated = errors.New("fleet not simulated")

	// ErrStartHoursMismatch reports a startHours slice whose length does not
	// match the fleet size.
	ErrStartHoursMismatch = errors.New("start hours length does not match fleet size")
)
