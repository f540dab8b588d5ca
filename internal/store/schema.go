// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package store

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createSchema creates the tables and indexes. All statements are
// IF NOT EXISTS, so reopening an existing database is a no-op.
func (s *Store) createSchema() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := s.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	for _, query := range indexCreationQueries() {
		if _, err := s.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}

// tableCreationQueries returns the table creation SQL statements.
//
// The complete schema lives in the initial CREATE TABLE statements; there is
// no migration machinery. Runs carry their frozen launch configuration
// inline so a row is self-describing without a join.
func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id UUID PRIMARY KEY,
			status TEXT NOT NULL,

			-- Fleet layout
			balloons INTEGER NOT NULL,
			seed BIGINT NOT NULL,
			lat_min DOUBLE NOT NULL,
			lat_max DOUBLE NOT NULL,
			lon_min DOUBLE NOT NULL,
			lon_max DOUBLE NOT NULL,
			grid_fleet BOOLEAN NOT NULL DEFAULT false,
			spacing_deg DOUBLE NOT NULL DEFAULT 0,

			-- Horizon and wind sampling
			steps INTEGER NOT NULL,
			interpolation TEXT NOT NULL,

			-- Coverage geometry
			radius_km DOUBLE NOT NULL,
			grid_height INTEGER NOT NULL,
			grid_width INTEGER NOT NULL,
			mark_every INTEGER NOT NULL DEFAULT 1,

			-- Failure cause, set when status = 'failed'
			error_message TEXT,

			-- Lifecycle
			created_at TIMESTAMP NOT NULL,
			started_at TIMESTAMP,
			completed_at TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS trajectory_points (
			run_id UUID NOT NULL,
			balloon_id TEXT NOT NULL,
			step INTEGER NOT NULL,
			hour INTEGER NOT NULL,
			lat DOUBLE NOT NULL,
			lon DOUBLE NOT NULL,

			-- Wind-data timestamp of the sample; NULL when the run outlived
			-- the loaded wind span and hours have no wall-clock label
			ts TIMESTAMP,

			PRIMARY KEY (run_id, balloon_id, step)
		)`,

		`CREATE TABLE IF NOT EXISTS coverage_stats (
			run_id UUID PRIMARY KEY,
			coverage_percent DOUBLE NOT NULL,
			total_cells INTEGER NOT NULL,
			covered_cells INTEGER NOT NULL,
			uncovered_cells INTEGER NOT NULL,
			min_value DOUBLE,
			max_value DOUBLE,
			mean_value DOUBLE
		)`,

		`CREATE TABLE IF NOT EXISTS coverage_series (
			run_id UUID NOT NULL,
			hour INTEGER NOT NULL,
			fraction DOUBLE NOT NULL,
			PRIMARY KEY (run_id, hour)
		)`,
	}
}

// indexCreationQueries returns the index creation SQL statements, covering
// the list ordering, the per-run lookups, and the per-balloon trajectory
// page.
func indexCreationQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_trajectory_run ON trajectory_points(run_id);`,
		`CREATE INDEX IF NOT EXISTS idx_trajectory_run_balloon ON trajectory_points(run_id, balloon_id);`,
		`CREATE INDEX IF NOT EXISTS idx_coverage_series_run ON coverage_series(run_id);`,
	}
}
