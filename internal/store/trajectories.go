// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/driftlabs/stratodrift/internal/fleet"
	"github.com/driftlabs/stratodrift/internal/logging"
	"github.com/driftlabs/stratodrift/internal/metrics"
	"github.com/driftlabs/stratodrift/internal/models"
)

// InsertTrajectories persists a run's flattened trajectory rows in one
// transaction: either every sample lands or none do. Uses a prepared
// statement inside the transaction; a large fleet over a long horizon is
// millions of rows.
//
// times optionally labels each record with its wind-data timestamp, aligned
// index-for-index with records (fleet.Times produces this shape); nil means
// no labels, and zero times store as NULL.
func (s *Store) InsertTrajectories(ctx context.Context, runID uuid.UUID, records []fleet.Record, times []time.Time) (inserted int, err error) {
	if len(records) == 0 {
		return 0, nil
	}
	if len(times) != 0 && len(times) != len(records) {
		return 0, fmt.Errorf("store: %d timestamps for %d trajectory records", len(times), len(records))
	}

	// Scale the deadline with the batch rather than using the standard
	// 30-second bound; a year-long thousand-balloon run inserts ~9M rows.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 10*time.Minute)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("insert", "trajectory_points", time.Since(start), err)
	}()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin trajectory transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().Err(rbErr).AnErr("original_error", err).Msg("Trajectory insert rollback failed")
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO trajectory_points (
		run_id, balloon_id, step, hour, lat, lon, ts
	) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("store: prepare trajectory insert: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for i := range records {
		rec := &records[i]
		var ts sql.NullTime
		if len(times) > 0 && !times[i].IsZero() {
			ts = sql.NullTime{Time: times[i].UTC(), Valid: true}
		}
		if _, err = stmt.ExecContext(ctx, runID, rec.BalloonID, rec.Step, rec.Hour, rec.Lat, rec.Lon, ts); err != nil {
			return 0, fmt.Errorf("store: insert trajectory point (%s, %s, step %d): %w",
				runID, rec.BalloonID, rec.Step, err)
		}
		inserted++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit trajectory transaction: %w", err)
	}

	logging.Debug().
		Str("run_id", runID.String()).
		Int("points", inserted).
		Dur("elapsed", time.Since(start)).
		Msg("Trajectory points inserted")

	return inserted, nil
}

// Trajectories returns a run's samples ordered by balloon then step.
// balloonID filters to one balloon when non-empty; limit and offset page the
// result (limit <= 0 means 10000).
func (s *Store) Trajectories(ctx context.Context, runID uuid.UUID, balloonID string, limit, offset int) ([]models.TrajectoryPoint, error) {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 10000
	}
	if offset < 0 {
		offset = 0
	}

	qb := newQueryBuilder(`SELECT run_id, balloon_id, step, hour, lat, lon, ts
		FROM trajectory_points WHERE 1=1`)
	qb.addFilter("run_id = ?", runID)
	if balloonID != "" {
		qb.addFilter("balloon_id = ?", balloonID)
	}
	query, args := qb.build("ORDER BY balloon_id, step LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	start := time.Now()
	points, err := queryAndScan(ctx, s.conn, query, args, scanTrajectoryPoint)
	metrics.RecordDBQuery("select", "trajectory_points", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("store: query trajectories for %s: %w", runID, err)
	}
	if points == nil {
		points = []models.TrajectoryPoint{}
	}
	return points, nil
}

// TrajectoryPointCount returns how many samples a run recorded.
func (s *Store) TrajectoryPointCount(ctx context.Context, runID uuid.UUID) (int64, error) {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	var count int64
	start := time.Now()
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trajectory_points WHERE run_id = ?`, runID).Scan(&count)
	metrics.RecordDBQuery("count", "trajectory_points", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("store: count trajectory points for %s: %w", runID, err)
	}
	return count, nil
}

func scanTrajectoryPoint(rows *sql.Rows) (models.TrajectoryPoint, error) {
	var (
		p  models.TrajectoryPoint
		ts sql.NullTime
	)
	if err := rows.Scan(&p.RunID, &p.BalloonID, &p.Step, &p.Hour, &p.Lat, &p.Lon, &ts); err != nil {
		return p, err
	}
	if ts.Valid {
		t := ts.Time.UTC()
		p.Time = &t
	}
	return p, nil
}
