// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package sim

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/driftlabs/stratodrift/internal/checkpoint"
	"github.com/driftlabs/stratodrift/internal/coverage"
	"github.com/driftlabs/stratodrift/internal/events"
	"github.com/driftlabs/stratodrift/internal/logging"
	"github.com/driftlabs/stratodrift/internal/metrics"
	"github.com/driftlabs/stratodrift/internal/models"
	"github.com/driftlabs/stratodrift/internal/store"
)

// runState is the accumulator's working state for one in-flight run. The
// grid, series, and pending buffer belong to the handler goroutine alone;
// lastHour is additionally read by the cancellation path, so its writes are
// published under the registry mutex.
type runState struct {
	run      *models.Run
	analyzer *coverage.Analyzer
	grid     [][]float64
	series   []models.FractionPoint

	// pending buffers the current series window. Batches arrive
	// balloon-major; the flush sorts them back into step order so marking
	// reproduces the serial time-ordered walk exactly.
	pending []models.PositionPoint

	lastHour int
	done     chan error
}

// Accumulator consumes position batches from the event pipeline and owns
// every in-flight run's coverage grid. It is registered as a single router
// consumer, so all grid mutation happens on one goroutine.
//
// Terminal transitions are claim-based: whoever removes the run from the
// registry first — the handler finishing or failing it, or the service
// canceling it — is the only writer of the run's terminal state.
type Accumulator struct {
	store       *store.Store
	checkpoints *checkpoint.Store
	bus         *events.Bus
	logger      zerolog.Logger

	mu   sync.Mutex
	runs map[uuid.UUID]*runState
}

// NewAccumulator creates an accumulator persisting through the given store
// and checkpoint store. checkpoints may be nil when checkpointing is
// disabled.
func NewAccumulator(st *store.Store, cp *checkpoint.Store, bus *events.Bus) *Accumulator {
	return &Accumulator{
		store:       st,
		checkpoints: cp,
		bus:         bus,
		logger:      logging.WithComponent("accumulator"),
		runs:        make(map[uuid.UUID]*runState),
	}
}

// register adds a run to the accumulator before its first batch is
// published. done receives nil once the run completes, or the error that
// failed it; nothing is sent if the run is claimed by cancellation.
func (a *Accumulator) register(run *models.Run, analyzer *coverage.Analyzer, done chan error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runs[run.ID] = &runState{
		run:      run,
		analyzer: analyzer,
		grid:     analyzer.NewGrid(),
		lastHour: -1,
		done:     done,
	}
}

// claim removes a run from the registry, returning its state and last
// marked hour. The caller that gets ok=true owns the terminal transition;
// everyone else must leave the run alone. The hour is read under the lock so
// cancellation can use it off the handler goroutine.
func (a *Accumulator) claim(runID uuid.UUID) (*runState, int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rs, ok := a.runs[runID]
	if !ok {
		return nil, 0, false
	}
	delete(a.runs, runID)
	return rs, rs.lastHour, true
}

func (a *Accumulator) lookup(runID uuid.UUID) (*runState, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rs, ok := a.runs[runID]
	return rs, ok
}

func (a *Accumulator) setLastHour(rs *runState, hour int) {
	a.mu.Lock()
	rs.lastHour = hour
	a.mu.Unlock()
}

// Active returns the number of runs currently accumulating.
func (a *Accumulator) Active() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.runs)
}

// Handle consumes one position batch. Undecodable payloads are permanent
// failures; batches for unknown runs (canceled, or replayed after
// completion) are dropped silently.
func (a *Accumulator) Handle(msg *message.Message) error {
	var ev models.PositionEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return events.NewPermanentError("decode position batch", err)
	}

	rs, ok := a.lookup(ev.RunID)
	if !ok {
		a.logger.Debug().
			Str("run_id", ev.RunID.String()).
			Str("balloon_id", ev.BalloonID).
			Msg("dropping batch for inactive run")
		return nil
	}

	rs.pending = append(rs.pending, ev.Points...)

	if ev.EndOfWindow {
		if err := a.closeWindow(msg.Context(), rs); err != nil {
			a.fail(msg.Context(), ev.RunID, err)
			return nil
		}
	}
	if ev.EndOfRun {
		a.finalize(msg.Context(), ev.RunID)
	}
	return nil
}

// closeWindow marks the buffered window onto the grid in step order, samples
// the coverage fraction, checkpoints, and announces progress.
func (a *Accumulator) closeWindow(ctx context.Context, rs *runState) error {
	// Batches are balloon-major; restore the step-major walk. The stable
	// sort keeps balloon publish order within each hour.
	sort.SliceStable(rs.pending, func(i, j int) bool {
		return rs.pending[i].Hour < rs.pending[j].Hour
	})

	last := rs.lastHour
	for _, p := range rs.pending {
		if err := rs.analyzer.Mark(p.Lat, p.Lon, rs.grid, float64(p.Hour)+1); err != nil {
			return fmt.Errorf("mark hour %d: %w", p.Hour, err)
		}
		if p.Hour > last {
			last = p.Hour
		}
	}
	metrics.CoverageMarksTotal.Add(float64(len(rs.pending)))
	rs.pending = rs.pending[:0]
	a.setLastHour(rs, last)

	fraction, err := rs.analyzer.Fraction(rs.grid)
	if err != nil {
		return fmt.Errorf("sample fraction: %w", err)
	}
	rs.series = append(rs.series, models.FractionPoint{Hour: last, Fraction: fraction})

	a.saveCheckpoint(ctx, &checkpoint.Snapshot{
		RunID:  rs.run.ID,
		Status: models.RunRunning,
		Hour:   last,
		Grid:   rs.grid,
		Series: rs.series,
	})

	a.publishStatus(ctx, &models.RunStatusEvent{
		RunID:    rs.run.ID,
		Status:   models.RunRunning,
		Fraction: fraction,
	})

	a.logger.Debug().
		Str("run_id", rs.run.ID.String()).
		Int("hour", last).
		Float64("fraction", fraction).
		Msg("coverage window closed")
	return nil
}

// finalize computes the run's coverage summary and records completion. On a
// persistence error the run is failed instead.
func (a *Accumulator) finalize(ctx context.Context, runID uuid.UUID) {
	rs, _, ok := a.claim(runID)
	if !ok {
		return // canceled or already terminal
	}

	// A well-formed stream closes its last window before the final batch;
	// flush defensively if the publisher did not.
	if len(rs.pending) > 0 {
		if err := a.closeWindow(ctx, rs); err != nil {
			a.failClaimed(ctx, rs, err)
			return
		}
	}

	stats, err := rs.analyzer.Stats(rs.grid)
	if err != nil {
		a.failClaimed(ctx, rs, fmt.Errorf("coverage stats: %w", err))
		return
	}

	summary := &models.CoverageSummary{
		CoveragePercent: stats.CoveragePercent,
		TotalCells:      stats.TotalCells,
		CoveredCells:    stats.CoveredCells,
		UncoveredCells:  stats.UncoveredCells,
		MinValue:        stats.MinValue,
		MaxValue:        stats.MaxValue,
		MeanValue:       stats.MeanValue,
		Series:          rs.series,
	}

	if err := a.store.CompleteRun(ctx, rs.run.ID, time.Now().UTC(), summary); err != nil {
		a.failClaimed(ctx, rs, fmt.Errorf("complete run: %w", err))
		return
	}

	// Terminal snapshot: summary only, the grid is no longer needed.
	a.saveCheckpoint(ctx, &checkpoint.Snapshot{
		RunID:   rs.run.ID,
		Status:  models.RunCompleted,
		Hour:    rs.lastHour,
		Series:  rs.series,
		Summary: summary,
	})

	fraction := stats.CoveragePercent / 100.0
	metrics.CoverageLastFraction.Set(fraction)

	a.publishStatus(ctx, &models.RunStatusEvent{
		RunID:    rs.run.ID,
		Status:   models.RunCompleted,
		Fraction: fraction,
	})

	a.logger.Info().
		Str("run_id", rs.run.ID.String()).
		Float64("coverage_percent", stats.CoveragePercent).
		Int("covered_cells", stats.CoveredCells).
		Msg("run completed")

	rs.done <- nil
}

// fail claims the run and records cause as its terminal state. A run
// already claimed elsewhere is left alone.
func (a *Accumulator) fail(ctx context.Context, runID uuid.UUID, cause error) {
	rs, _, ok := a.claim(runID)
	if !ok {
		a.logger.Warn().
			Err(cause).
			Str("run_id", runID.String()).
			Msg("accumulation error for run no longer active")
		return
	}
	a.failClaimed(ctx, rs, cause)
}

func (a *Accumulator) failClaimed(ctx context.Context, rs *runState, cause error) {
	a.logger.Error().
		Err(cause).
		Str("run_id", rs.run.ID.String()).
		Msg("run failed during accumulation")

	if err := a.store.FailRun(ctx, rs.run.ID, time.Now().UTC(), cause.Error()); err != nil {
		a.logger.Error().Err(err).Str("run_id", rs.run.ID.String()).Msg("failed to record run failure")
	}

	a.saveCheckpoint(ctx, &checkpoint.Snapshot{
		RunID:  rs.run.ID,
		Status: models.RunFailed,
		Hour:   rs.lastHour,
		Series: rs.series,
	})

	a.publishStatus(ctx, &models.RunStatusEvent{
		RunID:  rs.run.ID,
		Status: models.RunFailed,
		Error:  cause.Error(),
	})

	rs.done <- cause
}

func (a *Accumulator) saveCheckpoint(ctx context.Context, snap *checkpoint.Snapshot) {
	if a.checkpoints == nil {
		return
	}
	if err := a.checkpoints.Save(ctx, snap); err != nil {
		a.logger.Warn().
			Err(err).
			Str("run_id", snap.RunID.String()).
			Msg("checkpoint save failed")
	}
}

func (a *Accumulator) publishStatus(ctx context.Context, ev *models.RunStatusEvent) {
	if err := a.bus.PublishRunStatus(ctx, ev); err != nil {
		a.logger.Warn().
			Err(err).
			Str("run_id", ev.RunID.String()).
			Msg("status publish failed")
	}
}
