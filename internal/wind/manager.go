// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package wind

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/driftlabs/stratodrift/internal/config"
	"github.com/driftlabs/stratodrift/internal/logging"
	"github.com/driftlabs/stratodrift/internal/metrics"
)

// Manager owns the process's current Field and keeps it fresh. It loads from
// the data directory, optionally fetches missing archives first, and swaps in
// new fields atomically so in-flight simulations keep the field they started
// with. Runs as a supervised service.
type Manager struct {
	cfg     *config.WindConfig
	fetcher *Fetcher

	mu       sync.RWMutex
	field    *Field
	loadedAt time.Time
}

// NewManager creates a Manager. fetcher may be nil, in which case Sync only
// reloads from disk.
func NewManager(cfg *config.WindConfig, fetcher *Fetcher) *Manager {
	return &Manager{cfg: cfg, fetcher: fetcher}
}

// Current returns the most recently loaded field, or nil before the first
// successful load. The returned field is immutable and safe to hold for the
// whole lifetime of a run.
func (m *Manager) Current() *Field {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.field
}

// Ready reports whether a field is loaded.
func (m *Manager) Ready() bool { return m.Current() != nil }

// LoadedAt returns when the current field was swapped in, or the zero time
// before the first successful load.
func (m *Manager) LoadedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadedAt
}

// Reload loads the data directory and swaps the new field in.
func (m *Manager) Reload(ctx context.Context) error {
	field, err := Load(ctx, m.cfg.DataDir, m.cfg.Level, InterpolationMode(m.cfg.Interpolation))
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.field = field
	m.loadedAt = time.Now()
	m.mu.Unlock()

	metrics.WindFieldTimeSlices.Set(float64(field.NumTimes()))
	return nil
}

// Sync fetches any missing archives (when fetching is configured) and then
// reloads from disk.
func (m *Manager) Sync(ctx context.Context) error {
	if m.fetcher != nil && m.cfg.FetchEnabled {
		if err := m.fetcher.FetchAll(ctx, m.cfg.FetchYears); err != nil {
			// A partial mirror failure still leaves whatever is on disk
			// loadable; log and keep going.
			logging.Warn().Err(err).Msg("Wind archive fetch incomplete")
		}
	}
	return m.Reload(ctx)
}

// Serve implements suture.Service. It performs an initial sync, then repeats
// on the configured interval until the context is canceled. Sync failures are
// logged rather than crashing the service: the previous field, if any, stays
// available.
func (m *Manager) Serve(ctx context.Context) error {
	if err := m.Sync(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return ctx.Err()
		}
		logging.Warn().Err(err).Msg("Initial wind sync failed; no field loaded yet")
	}

	if m.cfg.SyncInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(m.cfg.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := m.Sync(ctx); err != nil {
				logging.Warn().Err(err).Msg("Periodic wind sync failed")
				metrics.WindSyncTotal.WithLabelValues("error").Inc()
				continue
			}
			metrics.WindSyncTotal.WithLabelValues("ok").Inc()
		}
	}
}

// String names the service in supervisor logs.
func (m *Manager) String() string { return "wind-manager" }
