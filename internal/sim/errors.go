// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package sim

import "errors"

var (
	// ErrWindNotReady is returned by Launch when no wind field has been
	// loaded yet.
	ErrWindNotReady = errors.New("sim: wind field not loaded")

	// ErrInvalidLaunch is returned by Launch for request parameters that
	// passed schema validation but cannot form a runnable configuration,
	// such as an inverted region or an unknown interpolation mode.
	ErrInvalidLaunch = errors.New("sim: invalid launch configuration")

	// ErrFleetTooLarge is returned when a launch request exceeds the
	// configured balloon limit.
	ErrFleetTooLarge = errors.New("sim: fleet exceeds configured limit")

	// ErrHorizonTooLong is returned when a launch request exceeds the
	// configured step limit.
	ErrHorizonTooLong = errors.New("sim: horizon exceeds configured limit")

	// ErrRunNotActive is returned by Cancel when the run is not currently
	// executing.
	ErrRunNotActive = errors.New("sim: run not active")

	// ErrRunActive is returned by Delete while the run is still executing.
	ErrRunActive = errors.New("sim: run still active")

	// ErrShuttingDown is returned by Launch once shutdown has begun.
	ErrShuttingDown = errors.New("sim: service shutting down")
)
