// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/driftlabs/stratodrift/internal/checkpoint"
	"github.com/driftlabs/stratodrift/internal/config"
	"github.com/driftlabs/stratodrift/internal/coverage"
	"github.com/driftlabs/stratodrift/internal/events"
	"github.com/driftlabs/stratodrift/internal/fleet"
	"github.com/driftlabs/stratodrift/internal/logging"
	"github.com/driftlabs/stratodrift/internal/metrics"
	"github.com/driftlabs/stratodrift/internal/models"
	"github.com/driftlabs/stratodrift/internal/store"
	"github.com/driftlabs/stratodrift/internal/trajectory"
	"github.com/driftlabs/stratodrift/internal/wind"
)

// persistTimeout bounds the terminal bookkeeping done on a fresh context, so
// a canceled or failed run is still recorded after its own context died.
const persistTimeout = 10 * time.Second

// interruptedCause is the failure reason stamped onto runs found
// non-terminal at startup.
const interruptedCause = "interrupted by service restart"

// recoverPageSize pages the startup scan over stored runs.
const recoverPageSize = 500

// FieldSource yields the wind field runs are launched against.
// *wind.Manager implements it; tests substitute fixed fields.
type FieldSource interface {
	Current() *wind.Field
}

// Service owns the run lifecycle: Launch validates and freezes a request,
// persists the run, and executes it on a background goroutine — simulate the
// fleet, store trajectories, stream position batches into the event
// pipeline. The service's accumulator consumes those batches to build the
// coverage grid; see the package doc for the split.
//
// The service runs under the supervision tree: Serve blocks until the
// context ends, then cancels every in-flight run and waits for them to
// settle.
type Service struct {
	simCfg      *config.SimConfig
	covCfg      *config.CoverageConfig
	store       *store.Store
	checkpoints *checkpoint.Store
	winds       FieldSource
	bus         *events.Bus
	acc         *Accumulator
	logger      zerolog.Logger

	seriesEvery int
	workers     int

	mu     sync.Mutex
	active map[uuid.UUID]context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

// NewService wires a run service. checkpoints may be nil when checkpointing
// is disabled.
func NewService(
	simCfg *config.SimConfig,
	covCfg *config.CoverageConfig,
	st *store.Store,
	cp *checkpoint.Store,
	winds FieldSource,
	bus *events.Bus,
) *Service {
	seriesEvery := simCfg.SeriesEveryHours
	if seriesEvery <= 0 {
		seriesEvery = 24
	}
	return &Service{
		simCfg:      simCfg,
		covCfg:      covCfg,
		store:       st,
		checkpoints: cp,
		winds:       winds,
		bus:         bus,
		acc:         NewAccumulator(st, cp, bus),
		logger:      logging.WithComponent("sim"),
		seriesEvery: seriesEvery,
		workers:     simCfg.Workers,
		active:      make(map[uuid.UUID]context.CancelFunc),
	}
}

// HandlePositions is the router handler for the positions topic. Register it
// on exactly one consumer: the accumulator behind it assumes a single
// goroutine mutates each run's grid.
func (s *Service) HandlePositions(msg *message.Message) error {
	return s.acc.Handle(msg)
}

// Launch validates req against the configured limits, freezes it into a run
// record, and starts executing it in the background. The returned run is in
// the pending state; progress is reported on the run-status topic and in the
// store.
func (s *Service) Launch(ctx context.Context, req *models.LaunchRequest) (*models.Run, error) {
	field := s.winds.Current()
	if field == nil {
		return nil, ErrWindNotReady
	}
	field, err := field.WithMode(wind.InterpolationMode(req.Interpolation))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLaunch, err)
	}

	if req.Steps > s.simCfg.MaxSteps {
		return nil, fmt.Errorf("%w: %d steps > %d", ErrHorizonTooLong, req.Steps, s.simCfg.MaxSteps)
	}

	fl, region, err := s.buildFleet(req)
	if err != nil {
		return nil, err
	}

	radius := req.RadiusKm
	if radius <= 0 {
		radius = s.covCfg.RadiusKm
	}
	markEvery := req.MarkEvery
	if markEvery < 1 {
		markEvery = s.simCfg.MarkEvery
	}
	if markEvery < 1 {
		markEvery = 1
	}

	analyzer, err := coverage.NewAnalyzer(s.covCfg.GridHeight, s.covCfg.GridWidth, radius)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLaunch, err)
	}

	cfg := models.RunConfig{
		Balloons:      fl.Size(),
		Seed:          req.Seed,
		GridFleet:     req.SpacingDeg > 0,
		SpacingDeg:    req.SpacingDeg,
		Steps:         req.Steps,
		Interpolation: string(field.Mode()),
		RadiusKm:      radius,
		GridHeight:    s.covCfg.GridHeight,
		GridWidth:     s.covCfg.GridWidth,
		MarkEvery:     markEvery,
	}
	if !cfg.GridFleet {
		cfg.LatMin, cfg.LatMax = region.LatMin, region.LatMax
		cfg.LonMin, cfg.LonMax = region.LonMin, region.LonMax
	}

	run := &models.Run{
		ID:        uuid.New(),
		Status:    models.RunPending,
		Config:    cfg,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("launch: persist run: %w", err)
	}

	// Buffered so the accumulator's verdict never blocks on a goroutine
	// that stopped listening after cancellation.
	done := make(chan error, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if err := s.store.CancelRun(ctx, run.ID, time.Now().UTC()); err != nil {
			s.logger.Error().Err(err).Str("run_id", run.ID.String()).Msg("failed to cancel run created during shutdown")
		}
		return nil, ErrShuttingDown
	}
	runCtx, cancel := context.WithCancel(context.Background())
	s.acc.register(run, analyzer, done)
	s.active[run.ID] = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	metrics.SimRunsActive.Inc()
	s.logger.Info().
		Str("run_id", run.ID.String()).
		Int("balloons", cfg.Balloons).
		Int("steps", cfg.Steps).
		Str("interpolation", cfg.Interpolation).
		Bool("grid_fleet", cfg.GridFleet).
		Msg("run launched")

	go s.execute(runCtx, run, fl, field, done)
	return run, nil
}

// buildFleet constructs the launch set: a lattice when SpacingDeg is set,
// otherwise a seeded random fleet over the request region (the full globe
// when all four bounds are zero).
func (s *Service) buildFleet(req *models.LaunchRequest) (*fleet.Fleet, fleet.Region, error) {
	if req.SpacingDeg > 0 {
		fl, err := fleet.NewGridFleet(req.SpacingDeg)
		if err != nil {
			return nil, fleet.Region{}, fmt.Errorf("%w: %v", ErrInvalidLaunch, err)
		}
		if fl.Size() > s.simCfg.MaxBalloons {
			return nil, fleet.Region{}, fmt.Errorf("%w: %g° lattice has %d balloons > %d",
				ErrFleetTooLarge, req.SpacingDeg, fl.Size(), s.simCfg.MaxBalloons)
		}
		return fl, fleet.Region{}, nil
	}

	if req.Balloons > s.simCfg.MaxBalloons {
		return nil, fleet.Region{}, fmt.Errorf("%w: %d balloons > %d",
			ErrFleetTooLarge, req.Balloons, s.simCfg.MaxBalloons)
	}

	region := fleet.Region{
		LatMin: req.LatMin, LatMax: req.LatMax,
		LonMin: req.LonMin, LonMax: req.LonMax,
	}
	if region == (fleet.Region{}) {
		region = fleet.GlobalRegion
	}
	fl, err := fleet.NewRandomFleet(req.Balloons, region, req.Seed)
	if err != nil {
		return nil, fleet.Region{}, fmt.Errorf("%w: %v", ErrInvalidLaunch, err)
	}
	return fl, region, nil
}

// execute drives one run to a terminal state. Terminal ownership is decided
// by the accumulator claim: the completion/failure verdict arrives on done,
// while a context cancellation races it and the claim winner writes the
// terminal record.
func (s *Service) execute(ctx context.Context, run *models.Run, fl *fleet.Fleet, field *wind.Field, done <-chan error) {
	start := time.Now()
	defer func() {
		s.mu.Lock()
		delete(s.active, run.ID)
		s.mu.Unlock()
		metrics.SimRunsActive.Dec()
		s.wg.Done()
	}()

	if err := s.store.StartRun(ctx, run.ID, time.Now().UTC()); err != nil {
		s.conclude(ctx, run, start, done, fmt.Errorf("start run: %w", err))
		return
	}
	s.publishStatus(ctx, &models.RunStatusEvent{RunID: run.ID, Status: models.RunRunning})

	integ := trajectory.NewIntegrator(field)
	if err := fl.Simulate(ctx, integ, run.Config.Steps, nil, s.workers); err != nil {
		s.conclude(ctx, run, start, done, fmt.Errorf("simulate fleet: %w", err))
		return
	}
	metrics.RecordFleetSimulated(fl.Size(), run.Config.Steps)

	records, err := fl.Records()
	if err != nil {
		s.conclude(ctx, run, start, done, fmt.Errorf("flatten trajectories: %w", err))
		return
	}
	times, err := fl.Times(field)
	if err != nil {
		s.conclude(ctx, run, start, done, fmt.Errorf("label trajectories: %w", err))
		return
	}
	inserted, err := s.store.InsertTrajectories(ctx, run.ID, records, times)
	if err != nil {
		s.conclude(ctx, run, start, done, fmt.Errorf("store trajectories: %w", err))
		return
	}
	s.logger.Debug().
		Str("run_id", run.ID.String()).
		Int("points", inserted).
		Msg("trajectories stored")

	if err := s.publishPositions(ctx, run, fl); err != nil {
		s.conclude(ctx, run, start, done, fmt.Errorf("publish positions: %w", err))
		return
	}

	select {
	case err := <-done:
		s.recordVerdict(err, start)
	case <-ctx.Done():
		s.concludeCanceled(run, start, done)
	}
}

// publishPositions streams the simulated trajectories as position batches,
// window-major: every balloon's batch for series window w goes out before
// any batch for window w+1, and the last batch of a window carries
// EndOfWindow so the accumulator can close it. The steps walked are exactly
// the coverage walk: 0, markEvery, 2·markEvery, … ≤ Steps.
func (s *Service) publishPositions(ctx context.Context, run *models.Run, fl *fleet.Fleet) error {
	markEvery := run.Config.MarkEvery
	if markEvery < 1 {
		markEvery = 1
	}

	var windows [][]int
	lastWindow := -1
	for step := 0; step <= run.Config.Steps; step += markEvery {
		if w := step / s.seriesEvery; w != lastWindow {
			windows = append(windows, nil)
			lastWindow = w
		}
		windows[len(windows)-1] = append(windows[len(windows)-1], step)
	}

	balloons := fl.Balloons()
	for wi, steps := range windows {
		if err := ctx.Err(); err != nil {
			return err
		}
		for bi := range balloons {
			b := &balloons[bi]
			points := make([]models.PositionPoint, len(steps))
			for i, step := range steps {
				p := b.Trajectory[step]
				points[i] = models.PositionPoint{Hour: p.Hour, Lat: p.Lat, Lon: p.Lon}
			}
			last := bi == len(balloons)-1
			ev := &models.PositionEvent{
				RunID:       run.ID,
				BalloonID:   b.ID,
				Window:      steps[0] / s.seriesEvery,
				Points:      points,
				EndOfWindow: last,
				EndOfRun:    last && wi == len(windows)-1,
			}
			if err := s.bus.PublishPositions(ctx, ev); err != nil {
				return fmt.Errorf("window %d balloon %s: %w", wi, b.ID, err)
			}
		}
	}
	return nil
}

// conclude routes a mid-execution error to the cancellation or failure path
// depending on whether the run's context was the cause.
func (s *Service) conclude(ctx context.Context, run *models.Run, start time.Time, done <-chan error, cause error) {
	if ctx.Err() != nil {
		s.concludeCanceled(run, start, done)
		return
	}
	s.concludeFailed(run, start, done, cause)
}

func (s *Service) concludeCanceled(run *models.Run, start time.Time, done <-chan error) {
	_, hour, ok := s.acc.claim(run.ID)
	if !ok {
		// The accumulator reached a terminal state first; its verdict
		// stands and a send on done is guaranteed.
		s.recordVerdict(<-done, start)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.store.CancelRun(ctx, run.ID, time.Now().UTC()); err != nil {
		s.logger.Error().Err(err).Str("run_id", run.ID.String()).Msg("failed to record cancellation")
	}
	s.saveSnapshot(ctx, &checkpoint.Snapshot{
		RunID:  run.ID,
		Status: models.RunCanceled,
		Hour:   hour,
	})
	s.publishStatus(ctx, &models.RunStatusEvent{RunID: run.ID, Status: models.RunCanceled})
	metrics.RecordRunCompletion(string(models.RunCanceled), time.Since(start))

	s.logger.Info().
		Str("run_id", run.ID.String()).
		Int("hour", hour).
		Msg("run canceled")
}

func (s *Service) concludeFailed(run *models.Run, start time.Time, done <-chan error, cause error) {
	_, hour, ok := s.acc.claim(run.ID)
	if !ok {
		s.recordVerdict(<-done, start)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	s.logger.Error().
		Err(cause).
		Str("run_id", run.ID.String()).
		Msg("run failed")

	if err := s.store.FailRun(ctx, run.ID, time.Now().UTC(), cause.Error()); err != nil {
		s.logger.Error().Err(err).Str("run_id", run.ID.String()).Msg("failed to record run failure")
	}
	s.saveSnapshot(ctx, &checkpoint.Snapshot{
		RunID:  run.ID,
		Status: models.RunFailed,
		Hour:   hour,
	})
	s.publishStatus(ctx, &models.RunStatusEvent{
		RunID:  run.ID,
		Status: models.RunFailed,
		Error:  cause.Error(),
	})
	metrics.RecordRunCompletion(string(models.RunFailed), time.Since(start))
}

func (s *Service) recordVerdict(err error, start time.Time) {
	status := string(models.RunCompleted)
	if err != nil {
		status = string(models.RunFailed)
	}
	metrics.RecordRunCompletion(status, time.Since(start))
}

// Cancel stops an executing run. Terminal bookkeeping happens on the run's
// goroutine; callers observing the store may still briefly see it running.
func (s *Service) Cancel(ctx context.Context, runID uuid.UUID) error {
	s.mu.Lock()
	cancel, ok := s.active[runID]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotActive, runID)
	}
	cancel()
	return nil
}

// Delete removes a terminal run and its checkpoint. Active runs must be
// canceled first.
func (s *Service) Delete(ctx context.Context, runID uuid.UUID) error {
	s.mu.Lock()
	_, active := s.active[runID]
	s.mu.Unlock()
	if active {
		return fmt.Errorf("%w: cancel before deleting %s", ErrRunActive, runID)
	}

	if err := s.store.DeleteRun(ctx, runID); err != nil {
		return err
	}
	if s.checkpoints != nil {
		if err := s.checkpoints.Delete(ctx, runID); err != nil && !errors.Is(err, checkpoint.ErrNotFound) {
			s.logger.Warn().Err(err).Str("run_id", runID.String()).Msg("checkpoint delete failed")
		}
	}
	return nil
}

// ActiveRuns returns the number of runs currently executing.
func (s *Service) ActiveRuns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// Coverage returns a run's coverage summary, serving completed runs from
// the checkpoint store when possible and falling back to the run store.
func (s *Service) Coverage(ctx context.Context, runID uuid.UUID) (*models.CoverageSummary, error) {
	if s.checkpoints != nil {
		snap, err := s.checkpoints.Load(ctx, runID)
		switch {
		case err == nil:
			if snap.Status == models.RunCompleted && snap.Summary != nil {
				return snap.Summary, nil
			}
		case !errors.Is(err, checkpoint.ErrNotFound):
			s.logger.Debug().Err(err).Str("run_id", runID.String()).Msg("checkpoint read failed, falling back to store")
		}
	}
	return s.store.GetCoverage(ctx, runID)
}

// RecoverInterrupted settles runs a previous process left behind: every
// stored run still pending or running is failed, then lingering checkpoints
// are reconciled against the store. The store is authoritative — a snapshot
// can be one write behind when the process died between the two.
func (s *Service) RecoverInterrupted(ctx context.Context) error {
	failed := 0
	for _, status := range []models.RunStatus{models.RunPending, models.RunRunning} {
		for {
			runs, err := s.store.ListRuns(ctx, string(status), recoverPageSize, 0)
			if err != nil {
				return fmt.Errorf("recover: list %s runs: %w", status, err)
			}
			for i := range runs {
				if err := s.store.FailRun(ctx, runs[i].ID, time.Now().UTC(), interruptedCause); err != nil {
					return fmt.Errorf("recover: fail run %s: %w", runs[i].ID, err)
				}
				s.logger.Info().
					Str("run_id", runs[i].ID.String()).
					Str("was", string(status)).
					Msg("marked interrupted run failed")
				failed++
			}
			if len(runs) < recoverPageSize {
				break
			}
		}
	}

	if err := s.reconcileCheckpoints(ctx); err != nil {
		return err
	}

	if failed > 0 {
		s.logger.Info().Int("runs", failed).Msg("interrupted runs recovered")
	}
	return nil
}

// reconcileCheckpoints rewrites or removes snapshots that disagree with the
// store after the startup scan: orphans are deleted, non-terminal snapshots
// take the store's terminal status.
func (s *Service) reconcileCheckpoints(ctx context.Context) error {
	if s.checkpoints == nil {
		return nil
	}
	ids, err := s.checkpoints.RunIDs(ctx)
	if err != nil {
		return fmt.Errorf("recover: list checkpoints: %w", err)
	}

	for _, id := range ids {
		snap, err := s.checkpoints.Load(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Str("run_id", id.String()).Msg("unreadable checkpoint, skipping")
			continue
		}
		if snap.Status.Terminal() {
			continue
		}

		run, err := s.store.GetRun(ctx, id)
		switch {
		case errors.Is(err, store.ErrRunNotFound):
			if err := s.checkpoints.Delete(ctx, id); err != nil {
				s.logger.Warn().Err(err).Str("run_id", id.String()).Msg("orphan checkpoint delete failed")
			}
			continue
		case err != nil:
			return fmt.Errorf("recover: look up run %s: %w", id, err)
		}

		s.saveSnapshot(ctx, &checkpoint.Snapshot{
			RunID:   id,
			Status:  run.Status,
			Hour:    snap.Hour,
			Series:  snap.Series,
			Summary: run.Coverage,
		})
	}
	return nil
}

// Serve parks until the context ends, then cancels every in-flight run and
// waits for their terminal bookkeeping. It satisfies suture.Service.
func (s *Service) Serve(ctx context.Context) error {
	<-ctx.Done()
	s.shutdown()
	return ctx.Err()
}

func (s *Service) shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cancels := make([]context.CancelFunc, 0, len(s.active))
	for _, cancel := range s.active {
		cancels = append(cancels, cancel)
	}
	count := len(cancels)
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	s.wg.Wait()

	s.logger.Info().Int("canceled", count).Msg("sim service stopped")
}

func (s *Service) String() string { return "sim-service" }

func (s *Service) saveSnapshot(ctx context.Context, snap *checkpoint.Snapshot) {
	if s.checkpoints == nil {
		return
	}
	if err := s.checkpoints.Save(ctx, snap); err != nil {
		s.logger.Warn().Err(err).Str("run_id", snap.RunID.String()).Msg("checkpoint save failed")
	}
}

func (s *Service) publishStatus(ctx context.Context, ev *models.RunStatusEvent) {
	if err := s.bus.PublishRunStatus(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("run_id", ev.RunID.String()).Msg("status publish failed")
	}
}
