// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package store

import (
	"errors"
	"io"

	"github.com/driftlabs/stratodrift/internal/logging"
)

// ErrRunNotFound reports a run ID absent from the runs table.
var ErrRunNotFound = errors.New("store: run not found")

// ErrNoCoverage reports a run that exists but has no recorded coverage
// results, typically because it has not completed yet.
var ErrNoCoverage = errors.New("store: coverage not recorded")

// closeQuietly closes a resource and explicitly ignores any error. Use in
// error paths where a Close failure is not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// closeWithLog closes a resource and logs a failure instead of returning it.
// Use for cleanup where the error should be visible but must not mask the
// operation's own result.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}
