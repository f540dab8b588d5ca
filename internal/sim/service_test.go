// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package sim

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"

	"github.com/driftlabs/stratodrift/internal/checkpoint"
	"github.com/driftlabs/stratodrift/internal/config"
	"github.com/driftlabs/stratodrift/internal/coverage"
	"github.com/driftlabs/stratodrift/internal/events"
	"github.com/driftlabs/stratodrift/internal/fleet"
	"github.com/driftlabs/stratodrift/internal/geo"
	"github.com/driftlabs/stratodrift/internal/models"
	"github.com/driftlabs/stratodrift/internal/store"
	"github.com/driftlabs/stratodrift/internal/trajectory"
	"github.com/driftlabs/stratodrift/internal/wind"
)

// staticField satisfies FieldSource with a fixed field, standing in for the
// wind manager.
type staticField struct {
	field *wind.Field
}

func (s staticField) Current() *wind.Field { return s.field }

// testWindField builds a uniform 15 km/h eastward, 3 km/h northward field
// over nine 6-hour slices — enough to cover a 30-step run with a steady
// drift that grows coverage every window.
func testWindField(t *testing.T) *wind.Field {
	t.Helper()

	const numTimes = 9
	fill := func(val float64) [][][]float64 {
		out := make([][][]float64, numTimes)
		for ti := range out {
			out[ti] = make([][]float64, 3)
			for r := range out[ti] {
				out[ti][r] = make([]float64, 4)
				for c := range out[ti][r] {
					out[ti][r][c] = val
				}
			}
		}
		return out
	}

	times := make([]time.Time, numTimes)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range times {
		times[i] = base.Add(time.Duration(i*geo.WindUpdateHours) * time.Hour)
	}

	f, err := wind.NewField(fill(15), fill(3), times, geo.DefaultPressureLevel, wind.ModeStep)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	return f
}

func newSimRouter(t *testing.T) *events.Router {
	t.Helper()

	router, err := events.NewRouter(nil, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	t.Cleanup(func() {
		if err := router.Close(); err != nil {
			t.Errorf("close router: %v", err)
		}
	})
	return router
}

func startSimRouter(t *testing.T, router *events.Router) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		if err := router.Run(ctx); err != nil {
			t.Logf("router run: %v", err)
		}
	}()

	select {
	case <-router.Running():
	case <-time.After(testWait):
		t.Fatal("router did not start within timeout")
	}
}

// simEnv wires a service against real in-memory stores. withPipeline
// additionally runs the event router with the coverage accumulator
// subscribed, so launched runs progress to completion; without it, runs
// stall after publishing and stay cancelable forever.
type simEnv struct {
	simCfg *config.SimConfig
	covCfg *config.CoverageConfig
	store  *store.Store
	checks *checkpoint.Store
	bus    *events.Bus
	field  *wind.Field
	svc    *Service
}

func newSimEnv(t *testing.T, withPipeline bool) *simEnv {
	t.Helper()

	env := &simEnv{
		simCfg: &config.SimConfig{
			MaxBalloons:      200,
			MaxSteps:         1000,
			Workers:          2,
			MarkEvery:        1,
			SeriesEveryHours: 12,
		},
		covCfg: &config.CoverageConfig{RadiusKm: 600, GridHeight: 36, GridWidth: 72},
		store:  setupSimStore(t),
		checks: setupCheckpoints(t),
		bus:    newSimBus(t),
		field:  testWindField(t),
	}
	env.svc = NewService(env.simCfg, env.covCfg, env.store, env.checks, staticField{env.field}, env.bus)

	if withPipeline {
		router := newSimRouter(t)
		router.AddConsumerHandler("coverage-accumulator", models.TopicPositions,
			env.bus.Subscriber(), env.svc.HandlePositions)
		startSimRouter(t, router)
	}

	// Reap stray runs before the stores close underneath them.
	t.Cleanup(env.svc.shutdown)
	return env
}

func waitForIdle(t *testing.T, svc *Service) {
	t.Helper()

	deadline := time.Now().Add(testWait)
	for svc.ActiveRuns() != 0 || svc.acc.Active() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("service not idle: %d active runs, %d accumulating",
				svc.ActiveRuns(), svc.acc.Active())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNewServiceDefaults(t *testing.T) {
	simCfg := &config.SimConfig{MaxBalloons: 10, MaxSteps: 10}
	covCfg := &config.CoverageConfig{RadiusKm: 370, GridHeight: 10, GridWidth: 20}

	svc := NewService(simCfg, covCfg, nil, nil, staticField{}, nil)
	if svc.seriesEvery != 24 {
		t.Errorf("seriesEvery = %d with no configured cadence, want 24", svc.seriesEvery)
	}
	if svc.String() != "sim-service" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestServiceLaunchValidation(t *testing.T) {
	env := newSimEnv(t, false)
	ctx := context.Background()

	t.Run("wind not ready", func(t *testing.T) {
		svc := NewService(env.simCfg, env.covCfg, env.store, nil, staticField{nil}, env.bus)
		_, err := svc.Launch(ctx, &models.LaunchRequest{Balloons: 1, Steps: 5})
		if !errors.Is(err, ErrWindNotReady) {
			t.Errorf("Launch() error = %v, want ErrWindNotReady", err)
		}
	})

	tests := []struct {
		name string
		req  *models.LaunchRequest
		want error
	}{
		{
			name: "horizon too long",
			req:  &models.LaunchRequest{Balloons: 2, Steps: 5000},
			want: ErrHorizonTooLong,
		},
		{
			name: "fleet too large",
			req:  &models.LaunchRequest{Balloons: 500, Steps: 5},
			want: ErrFleetTooLarge,
		},
		{
			name: "lattice too dense",
			req:  &models.LaunchRequest{SpacingDeg: 5, Steps: 5},
			want: ErrFleetTooLarge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Launch(ctx, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("Launch() error = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("invalid region", func(t *testing.T) {
		_, err := env.svc.Launch(ctx, &models.LaunchRequest{
			Balloons: 2, Steps: 5,
			LatMin: 50, LatMax: 10, LonMin: -10, LonMax: 10,
		})
		if !errors.Is(err, ErrInvalidLaunch) {
			t.Errorf("Launch() error = %v, want ErrInvalidLaunch", err)
		}
	})

	t.Run("unknown interpolation", func(t *testing.T) {
		_, err := env.svc.Launch(ctx, &models.LaunchRequest{
			Balloons: 2, Steps: 5, Interpolation: "cubic",
		})
		if !errors.Is(err, ErrInvalidLaunch) || !strings.Contains(err.Error(), "interpolation") {
			t.Errorf("Launch() error = %v, want ErrInvalidLaunch naming interpolation", err)
		}
	})
}

func TestServiceRunLifecycle(t *testing.T) {
	env := newSimEnv(t, true)
	ctx := context.Background()

	req := &models.LaunchRequest{Balloons: 3, Steps: 30, Seed: 42}
	run, err := env.svc.Launch(ctx, req)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if run.Status != models.RunPending {
		t.Errorf("launched run status = %s, want pending", run.Status)
	}

	// Request defaults were resolved into the frozen config.
	cfg := run.Config
	if cfg.RadiusKm != env.covCfg.RadiusKm {
		t.Errorf("RadiusKm = %v, want configured default %v", cfg.RadiusKm, env.covCfg.RadiusKm)
	}
	if cfg.MarkEvery != 1 {
		t.Errorf("MarkEvery = %d, want 1", cfg.MarkEvery)
	}
	if cfg.Interpolation != string(wind.ModeStep) {
		t.Errorf("Interpolation = %q, want field mode %q", cfg.Interpolation, wind.ModeStep)
	}
	if cfg.LatMin != -90 || cfg.LatMax != 90 || cfg.LonMin != -180 || cfg.LonMax != 180 {
		t.Errorf("zero-value region not widened to the globe: %+v", cfg)
	}

	final := waitForStatus(t, env.store, run.ID, models.RunCompleted, 30*time.Second)
	if final.StartedAt == nil || final.CompletedAt == nil {
		t.Error("completed run missing lifecycle timestamps")
	}
	if final.Coverage == nil {
		t.Fatal("completed run has no coverage summary")
	}

	summary, err := env.store.GetCoverage(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetCoverage: %v", err)
	}

	// Three series windows for 30 steps at a 12-hour cadence.
	wantHours := []int{11, 23, 30}
	if len(summary.Series) != len(wantHours) {
		t.Fatalf("series = %+v, want %d points", summary.Series, len(wantHours))
	}
	for i, want := range wantHours {
		if summary.Series[i].Hour != want {
			t.Errorf("series[%d].Hour = %d, want %d", i, summary.Series[i].Hour, want)
		}
	}
	lastFraction := summary.Series[len(summary.Series)-1].Fraction
	if math.Abs(lastFraction-summary.CoveragePercent/100) > 1e-9 {
		t.Errorf("final series fraction %v disagrees with summary percent %v",
			lastFraction, summary.CoveragePercent)
	}

	count, err := env.store.TrajectoryPointCount(ctx, run.ID)
	if err != nil {
		t.Fatalf("TrajectoryPointCount: %v", err)
	}
	if want := int64(3 * 31); count != want {
		t.Errorf("stored %d trajectory points, want %d", count, want)
	}

	// The pipeline must reproduce the serial walk exactly: same fleet, same
	// winds, marked directly.
	fl, err := fleet.NewRandomFleet(3, fleet.GlobalRegion, 42)
	if err != nil {
		t.Fatalf("NewRandomFleet: %v", err)
	}
	if err := fl.Simulate(ctx, trajectory.NewIntegrator(env.field), 30, nil, 2); err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	analyzer, err := coverage.NewAnalyzer(env.covCfg.GridHeight, env.covCfg.GridWidth, env.covCfg.RadiusKm)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	grid := analyzer.NewGrid()
	if err := fl.Coverage(analyzer, grid, 1); err != nil {
		t.Fatalf("Coverage: %v", err)
	}
	want, err := analyzer.Stats(grid)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if math.Abs(summary.CoveragePercent-want.CoveragePercent) > 1e-9 {
		t.Errorf("CoveragePercent = %v, direct walk %v", summary.CoveragePercent, want.CoveragePercent)
	}
	if summary.CoveredCells != want.CoveredCells {
		t.Errorf("CoveredCells = %d, direct walk %d", summary.CoveredCells, want.CoveredCells)
	}
	if summary.MaxValue == nil || want.MaxValue == nil || *summary.MaxValue != *want.MaxValue {
		t.Errorf("MaxValue = %v, direct walk %v", summary.MaxValue, want.MaxValue)
	}
	if summary.MeanValue == nil || want.MeanValue == nil ||
		math.Abs(*summary.MeanValue-*want.MeanValue) > 1e-9 {
		t.Errorf("MeanValue = %v, direct walk %v", summary.MeanValue, want.MeanValue)
	}

	snap, err := env.checks.Load(ctx, run.ID)
	if err != nil {
		t.Fatalf("checkpoint Load: %v", err)
	}
	if snap.Status != models.RunCompleted || snap.Summary == nil || snap.Grid != nil {
		t.Errorf("terminal snapshot = status %s, summary %v, grid %v", snap.Status, snap.Summary != nil, snap.Grid != nil)
	}

	waitForIdle(t, env.svc)
}

func TestServiceLaunchGridFleet(t *testing.T) {
	env := newSimEnv(t, true)
	ctx := context.Background()

	run, err := env.svc.Launch(ctx, &models.LaunchRequest{SpacingDeg: 30, Steps: 12})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if !run.Config.GridFleet {
		t.Error("GridFleet not recorded")
	}
	// 6 latitudes from -80 to 70 by 30, 12 longitudes from -180 to 150.
	if run.Config.Balloons != 72 {
		t.Errorf("lattice size = %d, want 72", run.Config.Balloons)
	}

	waitForStatus(t, env.store, run.ID, models.RunCompleted, 30*time.Second)

	summary, err := env.store.GetCoverage(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetCoverage: %v", err)
	}
	if len(summary.Series) != 2 || summary.Series[0].Hour != 11 || summary.Series[1].Hour != 12 {
		t.Errorf("series = %+v, want points at hours 11 and 12", summary.Series)
	}
	waitForIdle(t, env.svc)
}

func TestServiceCancel(t *testing.T) {
	// No pipeline: nothing consumes position batches, so the run stalls
	// after publishing and cancellation always wins the claim.
	env := newSimEnv(t, false)
	ctx := context.Background()

	run, err := env.svc.Launch(ctx, &models.LaunchRequest{Balloons: 2, Steps: 30, Seed: 7})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}

	if err := env.svc.Cancel(ctx, run.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	final := waitForStatus(t, env.store, run.ID, models.RunCanceled, testWait)
	if final.CompletedAt == nil {
		t.Error("canceled run missing completion timestamp")
	}

	snap, err := env.checks.Load(ctx, run.ID)
	if err != nil {
		t.Fatalf("checkpoint Load: %v", err)
	}
	if snap.Status != models.RunCanceled {
		t.Errorf("snapshot status = %s, want canceled", snap.Status)
	}

	waitForIdle(t, env.svc)
	if err := env.svc.Cancel(ctx, run.ID); !errors.Is(err, ErrRunNotActive) {
		t.Errorf("second Cancel error = %v, want ErrRunNotActive", err)
	}
}

func TestServiceCancelUnknownRun(t *testing.T) {
	env := newSimEnv(t, false)

	err := env.svc.Cancel(context.Background(), uuid.New())
	if !errors.Is(err, ErrRunNotActive) {
		t.Errorf("Cancel() error = %v, want ErrRunNotActive", err)
	}
}

func TestServiceDelete(t *testing.T) {
	env := newSimEnv(t, true)
	ctx := context.Background()

	run, err := env.svc.Launch(ctx, &models.LaunchRequest{Balloons: 2, Steps: 5, Seed: 3})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	waitForStatus(t, env.store, run.ID, models.RunCompleted, 30*time.Second)
	waitForIdle(t, env.svc)

	if err := env.svc.Delete(ctx, run.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := env.store.GetRun(ctx, run.ID); !errors.Is(err, store.ErrRunNotFound) {
		t.Errorf("GetRun after delete = %v, want ErrRunNotFound", err)
	}
	if _, err := env.checks.Load(ctx, run.ID); !errors.Is(err, checkpoint.ErrNotFound) {
		t.Errorf("checkpoint Load after delete = %v, want ErrNotFound", err)
	}

	if err := env.svc.Delete(ctx, uuid.New()); !errors.Is(err, store.ErrRunNotFound) {
		t.Errorf("Delete(unknown) error = %v, want ErrRunNotFound", err)
	}
}

func TestServiceDeleteActiveRun(t *testing.T) {
	env := newSimEnv(t, false)
	ctx := context.Background()

	run, err := env.svc.Launch(ctx, &models.LaunchRequest{Balloons: 2, Steps: 30})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}

	if err := env.svc.Delete(ctx, run.ID); !errors.Is(err, ErrRunActive) {
		t.Errorf("Delete(active) error = %v, want ErrRunActive", err)
	}

	if err := env.svc.Cancel(ctx, run.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	waitForStatus(t, env.store, run.ID, models.RunCanceled, testWait)
	waitForIdle(t, env.svc)
}

func TestServiceCoverageCheckpointFastpath(t *testing.T) {
	env := newSimEnv(t, true)
	ctx := context.Background()

	run, err := env.svc.Launch(ctx, &models.LaunchRequest{Balloons: 2, Steps: 5, Seed: 9})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	waitForStatus(t, env.store, run.ID, models.RunCompleted, 30*time.Second)
	waitForIdle(t, env.svc)

	stored, err := env.store.GetCoverage(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetCoverage: %v", err)
	}

	// Remove the store rows; only the snapshot can answer now.
	if err := env.store.DeleteRun(ctx, run.ID); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	got, err := env.svc.Coverage(ctx, run.ID)
	if err != nil {
		t.Fatalf("Coverage from checkpoint: %v", err)
	}
	if math.Abs(got.CoveragePercent-stored.CoveragePercent) > 1e-12 {
		t.Errorf("checkpoint summary percent = %v, store had %v", got.CoveragePercent, stored.CoveragePercent)
	}
	if len(got.Series) != len(stored.Series) {
		t.Errorf("checkpoint series %d points, store had %d", len(got.Series), len(stored.Series))
	}

	// Without the snapshot the lookup falls through to the store and fails.
	if err := env.checks.Delete(ctx, run.ID); err != nil {
		t.Fatalf("checkpoint Delete: %v", err)
	}
	if _, err := env.svc.Coverage(ctx, run.ID); err == nil {
		t.Error("Coverage succeeded with neither snapshot nor store rows")
	}
}

func TestServiceRecoverInterrupted(t *testing.T) {
	env := newSimEnv(t, false)
	ctx := context.Background()

	pending := createTestRun(t, env.store)

	running := createTestRun(t, env.store)
	if err := env.store.StartRun(ctx, running.ID, time.Now().UTC()); err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	completed := createTestRun(t, env.store)
	if err := env.store.StartRun(ctx, completed.ID, time.Now().UTC()); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	doneSummary := &models.CoverageSummary{
		CoveragePercent: 12.5,
		TotalCells:      2592,
		CoveredCells:    324,
		UncoveredCells:  2268,
		Series:          []models.FractionPoint{{Hour: 11, Fraction: 0.125}},
	}
	if err := env.store.CompleteRun(ctx, completed.ID, time.Now().UTC(), doneSummary); err != nil {
		t.Fatalf("CompleteRun: %v", err)
	}

	// A mid-run snapshot that outlived its process, and an orphan whose run
	// row is gone.
	midSeries := []models.FractionPoint{{Hour: 7, Fraction: 0.03}}
	if err := env.checks.Save(ctx, &checkpoint.Snapshot{
		RunID:  running.ID,
		Status: models.RunRunning,
		Hour:   7,
		Grid:   [][]float64{{1}},
		Series: midSeries,
	}); err != nil {
		t.Fatalf("Save mid-run snapshot: %v", err)
	}
	orphanID := uuid.New()
	if err := env.checks.Save(ctx, &checkpoint.Snapshot{
		RunID:  orphanID,
		Status: models.RunRunning,
		Hour:   2,
	}); err != nil {
		t.Fatalf("Save orphan snapshot: %v", err)
	}

	if err := env.svc.RecoverInterrupted(ctx); err != nil {
		t.Fatalf("RecoverInterrupted: %v", err)
	}

	for _, id := range []uuid.UUID{pending.ID, running.ID} {
		run, err := env.store.GetRun(ctx, id)
		if err != nil {
			t.Fatalf("GetRun(%s): %v", id, err)
		}
		if run.Status != models.RunFailed {
			t.Errorf("run %s status = %s, want failed", id, run.Status)
		}
		if run.Error != interruptedCause {
			t.Errorf("run %s error = %q, want %q", id, run.Error, interruptedCause)
		}
	}

	keep, err := env.store.GetRun(ctx, completed.ID)
	if err != nil {
		t.Fatalf("GetRun(completed): %v", err)
	}
	if keep.Status != models.RunCompleted {
		t.Errorf("completed run rewritten to %s", keep.Status)
	}

	snap, err := env.checks.Load(ctx, running.ID)
	if err != nil {
		t.Fatalf("Load reconciled snapshot: %v", err)
	}
	if snap.Status != models.RunFailed {
		t.Errorf("reconciled snapshot status = %s, want failed", snap.Status)
	}
	if len(snap.Series) != 1 || snap.Series[0].Hour != 7 {
		t.Errorf("reconciled snapshot lost the series: %+v", snap.Series)
	}

	if _, err := env.checks.Load(ctx, orphanID); !errors.Is(err, checkpoint.ErrNotFound) {
		t.Errorf("orphan snapshot Load = %v, want ErrNotFound", err)
	}
}

func TestServiceShutdown(t *testing.T) {
	env := newSimEnv(t, false)
	ctx := context.Background()

	run, err := env.svc.Launch(ctx, &models.LaunchRequest{Balloons: 2, Steps: 30})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}

	// shutdown blocks until in-flight runs settle.
	env.svc.shutdown()

	stored, err := env.store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if stored.Status != models.RunCanceled {
		t.Errorf("run status after shutdown = %s, want canceled", stored.Status)
	}

	if _, err := env.svc.Launch(ctx, &models.LaunchRequest{Balloons: 1, Steps: 5}); !errors.Is(err, ErrShuttingDown) {
		t.Errorf("Launch after shutdown error = %v, want ErrShuttingDown", err)
	}
}

func TestServiceServe(t *testing.T) {
	env := newSimEnv(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- env.svc.Serve(ctx) }()

	// Give Serve a moment to park before canceling.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(testWait):
		t.Fatal("Serve did not return after cancellation")
	}
}
