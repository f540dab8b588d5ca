// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/driftlabs/stratodrift/internal/logging"
	"github.com/driftlabs/stratodrift/internal/metrics"
	"github.com/driftlabs/stratodrift/internal/models"
)

// runColumns is the SELECT list shared by GetRun and ListRuns. Coverage
// statistics ride along via LEFT JOIN so pending runs come back with NULLs
// rather than requiring a second query.
const runColumns = `
	r.id, r.status,
	r.balloons, r.seed, r.lat_min, r.lat_max, r.lon_min, r.lon_max,
	r.grid_fleet, r.spacing_deg,
	r.steps, r.interpolation,
	r.radius_km, r.grid_height, r.grid_width, r.mark_every,
	r.error_message, r.created_at, r.started_at, r.completed_at,
	c.coverage_percent, c.total_cells, c.covered_cells, c.uncovered_cells,
	c.min_value, c.max_value, c.mean_value`

const runFrom = `
	FROM runs r
	LEFT JOIN coverage_stats c ON c.run_id = r.id`

// CreateRun inserts a new run row. A zero ID, status, or creation time is
// filled in before the insert.
func (s *Store) CreateRun(ctx context.Context, run *models.Run) error {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.Status == "" {
		run.Status = models.RunPending
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	_, err := s.conn.ExecContext(ctx, `INSERT INTO runs (
		id, status,
		balloons, seed, lat_min, lat_max, lon_min, lon_max, grid_fleet, spacing_deg,
		steps, interpolation,
		radius_km, grid_height, grid_width, mark_every,
		created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Status),
		run.Config.Balloons, run.Config.Seed,
		run.Config.LatMin, run.Config.LatMax, run.Config.LonMin, run.Config.LonMax,
		run.Config.GridFleet, run.Config.SpacingDeg,
		run.Config.Steps, run.Config.Interpolation,
		run.Config.RadiusKm, run.Config.GridHeight, run.Config.GridWidth, run.Config.MarkEvery,
		run.CreatedAt,
	)
	metrics.RecordDBQuery("insert", "runs", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("store: insert run %s: %w", run.ID, err)
	}
	return nil
}

// StartRun transitions a run to running and stamps started_at.
func (s *Store) StartRun(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.updateRunStatus(ctx, id,
		`UPDATE runs SET status = ?, started_at = ? WHERE id = ?`,
		string(models.RunRunning), at, id)
}

// FailRun transitions a run to failed, recording the cause.
func (s *Store) FailRun(ctx context.Context, id uuid.UUID, at time.Time, cause string) error {
	return s.updateRunStatus(ctx, id,
		`UPDATE runs SET status = ?, completed_at = ?, error_message = ? WHERE id = ?`,
		string(models.RunFailed), at, cause, id)
}

// CancelRun transitions a run to canceled. Used on shutdown for runs that
// were still in flight.
func (s *Store) CancelRun(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.updateRunStatus(ctx, id,
		`UPDATE runs SET status = ?, completed_at = ? WHERE id = ?`,
		string(models.RunCanceled), at, id)
}

func (s *Store) updateRunStatus(ctx context.Context, id uuid.UUID, query string, args ...interface{}) error {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	result, err := s.conn.ExecContext(ctx, query, args...)
	metrics.RecordDBQuery("update", "runs", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("store: update run %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: update run %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("store: update run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

// CompleteRun transitions a run to completed and persists its coverage
// statistics and fraction series in the same transaction, so a completed run
// can never be observed without its results.
func (s *Store) CompleteRun(ctx context.Context, id uuid.UUID, at time.Time, summary *models.CoverageSummary) (err error) {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("complete", "runs", time.Since(start), err)
	}()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin complete-run transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().Err(rbErr).AnErr("original_error", err).Msg("Complete-run rollback failed")
			}
		}
	}()

	result, err := tx.ExecContext(ctx,
		`UPDATE runs SET status = ?, completed_at = ? WHERE id = ?`,
		string(models.RunCompleted), at, id)
	if err != nil {
		return fmt.Errorf("store: complete run %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: complete run %s: %w", id, err)
	}
	if affected == 0 {
		err = fmt.Errorf("store: complete run %s: %w", id, ErrRunNotFound)
		return err
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO coverage_stats (
		run_id, coverage_percent, total_cells, covered_cells, uncovered_cells,
		min_value, max_value, mean_value
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, summary.CoveragePercent, summary.TotalCells, summary.CoveredCells,
		summary.UncoveredCells, summary.MinValue, summary.MaxValue, summary.MeanValue)
	if err != nil {
		return fmt.Errorf("store: insert coverage stats for %s: %w", id, err)
	}

	if len(summary.Series) > 0 {
		stmt, prepErr := tx.PrepareContext(ctx,
			`INSERT INTO coverage_series (run_id, hour, fraction) VALUES (?, ?, ?)`)
		if prepErr != nil {
			err = fmt.Errorf("store: prepare series insert for %s: %w", id, prepErr)
			return err
		}
		defer closeWithLog(stmt, "prepared statement")

		for _, p := range summary.Series {
			if _, err = stmt.ExecContext(ctx, id, p.Hour, p.Fraction); err != nil {
				return fmt.Errorf("store: insert series point (%s, hour %d): %w", id, p.Hour, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("store: commit complete-run transaction: %w", err)
	}
	return nil
}

// GetRun returns one run with its coverage summary (series excluded; see
// GetCoverage). Returns ErrRunNotFound for unknown IDs.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+runColumns+runFrom+` WHERE r.id = ?`, id)
	run, err := scanRunRow(row)
	metrics.RecordDBQuery("select", "runs", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns runs newest-first. status filters when non-empty; limit
// and offset page the result (limit <= 0 means 100).
func (s *Store) ListRuns(ctx context.Context, status string, limit, offset int) ([]models.Run, error) {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	qb := newQueryBuilder(`SELECT ` + runColumns + runFrom + ` WHERE 1=1`)
	if status != "" {
		qb.addFilter("r.status = ?", status)
	}
	query, args := qb.build("ORDER BY r.created_at DESC LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	start := time.Now()
	runs, err := queryAndScan(ctx, s.conn, query, args, func(rows *sql.Rows) (models.Run, error) {
		run, scanErr := scanRunRow(rows)
		if scanErr != nil {
			return models.Run{}, scanErr
		}
		return *run, nil
	})
	metrics.RecordDBQuery("select", "runs", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	if runs == nil {
		runs = []models.Run{}
	}
	return runs, nil
}

// DeleteRun removes a run and everything recorded under it. Returns
// ErrRunNotFound when the run row does not exist.
func (s *Store) DeleteRun(ctx context.Context, id uuid.UUID) (err error) {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("delete", "runs", time.Since(start), err)
	}()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin delete-run transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().Err(rbErr).AnErr("original_error", err).Msg("Delete-run rollback failed")
			}
		}
	}()

	for _, q := range []string{
		`DELETE FROM coverage_series WHERE run_id = ?`,
		`DELETE FROM coverage_stats WHERE run_id = ?`,
		`DELETE FROM trajectory_points WHERE run_id = ?`,
	} {
		if _, err = tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("store: delete run %s children: %w", id, err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete run %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete run %s: %w", id, err)
	}
	if affected == 0 {
		err = fmt.Errorf("store: delete run %s: %w", id, ErrRunNotFound)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("store: commit delete-run transaction: %w", err)
	}

	logging.Info().Str("run_id", id.String()).Msg("Run deleted")
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanRunRow decodes one joined runs/coverage_stats row.
func scanRunRow(row rowScanner) (*models.Run, error) {
	var (
		run        models.Run
		status     string
		errText    sql.NullString
		startedAt  sql.NullTime
		completed  sql.NullTime
		covPercent sql.NullFloat64
		totalCells sql.NullInt64
		covered    sql.NullInt64
		uncovered  sql.NullInt64
		minValue   sql.NullFloat64
		maxValue   sql.NullFloat64
		meanValue  sql.NullFloat64
	)

	err := row.Scan(
		&run.ID, &status,
		&run.Config.Balloons, &run.Config.Seed,
		&run.Config.LatMin, &run.Config.LatMax, &run.Config.LonMin, &run.Config.LonMax,
		&run.Config.GridFleet, &run.Config.SpacingDeg,
		&run.Config.Steps, &run.Config.Interpolation,
		&run.Config.RadiusKm, &run.Config.GridHeight, &run.Config.GridWidth, &run.Config.MarkEvery,
		&errText, &run.CreatedAt, &startedAt, &completed,
		&covPercent, &totalCells, &covered, &uncovered,
		&minValue, &maxValue, &meanValue,
	)
	if err != nil {
		return nil, err
	}

	run.Status = models.RunStatus(status)
	if errText.Valid {
		run.Error = errText.String
	}
	if startedAt.Valid {
		t := startedAt.Time
		run.StartedAt = &t
	}
	if completed.Valid {
		t := completed.Time
		run.CompletedAt = &t
	}

	if covPercent.Valid {
		summary := &models.CoverageSummary{
			CoveragePercent: covPercent.Float64,
			TotalCells:      int(totalCells.Int64),
			CoveredCells:    int(covered.Int64),
			UncoveredCells:  int(uncovered.Int64),
		}
		if minValue.Valid {
			v := minValue.Float64
			summary.MinValue = &v
		}
		if maxValue.Valid {
			v := maxValue.Float64
			summary.MaxValue = &v
		}
		if meanValue.Valid {
			v := meanValue.Float64
			summary.MeanValue = &v
		}
		run.Coverage = summary
	}

	return &run, nil
}
