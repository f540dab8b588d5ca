// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package coverage

import "errors"

var (
	// ErrInvalidGrid reports a grid whose shape does not match the analyzer,
	// or analyzer dimensions that are not positive.
	ErrInvalidGrid = errors.New("invalid coverage grid")

	// ErrInvalidRadius reports a non-positive footprint radius.
	ErrInvalidRadius = errors.New("invalid coverage radius")
)
