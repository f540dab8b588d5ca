// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

//go:build !nats

package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/driftlabs/stratodrift/internal/config"
)

// Mirror is a no-op stub compiled without the nats build tag.
type Mirror struct{}

// NewMirror returns ErrNATSNotEnabled. Build with -tags nats to mirror
// events to JetStream.
func NewMirror(cfg *config.NATSConfig, logger watermill.LoggerAdapter) (*Mirror, error) {
	return nil, ErrNATSNotEnabled
}

// Enabled reports whether mirroring is active in this build.
func (m *Mirror) Enabled() bool {
	return false
}

// ClientURL returns an empty string in non-NATS builds.
func (m *Mirror) ClientURL() string {
	return ""
}

// Handle is a no-op in non-NATS builds.
func (m *Mirror) Handle(msg *message.Message) error {
	return nil
}

// Close is a no-op in non-NATS builds.
func (m *Mirror) Close() error {
	return nil
}
