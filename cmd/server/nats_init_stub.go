// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

//go:build !nats

package main

import (
	"github.com/driftlabs/stratodrift/internal/config"
	"github.com/driftlabs/stratodrift/internal/events"
	"github.com/driftlabs/stratodrift/internal/logging"
)

// initMirror is a no-op in builds without the nats tag.
func initMirror(cfg *config.Config, _ *events.Router, _ *events.Bus) (*events.Mirror, error) {
	if cfg.NATS.Enabled {
		logging.Warn().Msg("STRATODRIFT_NATS_ENABLED=true but NATS support not compiled (build with -tags nats)")
	}
	return nil, nil
}
