// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

//go:build nats

package main

import (
	"github.com/driftlabs/stratodrift/internal/config"
	"github.com/driftlabs/stratodrift/internal/events"
	"github.com/driftlabs/stratodrift/internal/logging"
	"github.com/driftlabs/stratodrift/internal/models"
)

// initMirror connects the NATS JetStream mirror and registers it as a
// consumer on both event topics. External systems read the mirrored stream;
// the in-process pipeline never depends on it.
func initMirror(cfg *config.Config, router *events.Router, bus *events.Bus) (*events.Mirror, error) {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("NATS mirror disabled (STRATODRIFT_NATS_ENABLED=false)")
		return nil, nil
	}

	mirror, err := events.NewMirror(&cfg.NATS, events.NewLoggerAdapter())
	if err != nil {
		return nil, err
	}

	router.AddConsumerHandler("nats-mirror-positions", models.TopicPositions, bus.Subscriber(), mirror.Handle)
	router.AddConsumerHandler("nats-mirror-runs", models.TopicRunStatus, bus.Subscriber(), mirror.Handle)

	logging.Info().
		Str("url", mirror.ClientURL()).
		Bool("embedded", cfg.NATS.EmbeddedServer).
		Msg("NATS mirror registered")
	return mirror, nil
}
