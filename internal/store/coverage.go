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

	"github.com/driftlabs/stratodrift/internal/metrics"
	"github.com/driftlabs/stratodrift/internal/models"
)

// GetCoverage returns a run's full coverage summary including the fraction
// time series. Returns ErrRunNotFound for unknown IDs and ErrNoCoverage for
// runs that have not recorded results yet.
func (s *Store) GetCoverage(ctx context.Context, runID uuid.UUID) (*models.CoverageSummary, error) {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	summary, err := s.getCoverageStats(ctx, runID)
	metrics.RecordDBQuery("select", "coverage_stats", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	seriesStart := time.Now()
	series, err := queryAndScan(ctx, s.conn,
		`SELECT hour, fraction FROM coverage_series WHERE run_id = ? ORDER BY hour`,
		[]interface{}{runID},
		func(rows *sql.Rows) (models.FractionPoint, error) {
			var p models.FractionPoint
			err := rows.Scan(&p.Hour, &p.Fraction)
			return p, err
		})
	metrics.RecordDBQuery("select", "coverage_series", time.Since(seriesStart), err)
	if err != nil {
		return nil, fmt.Errorf("store: query coverage series for %s: %w", runID, err)
	}
	summary.Series = series

	return summary, nil
}

func (s *Store) getCoverageStats(ctx context.Context, runID uuid.UUID) (*models.CoverageSummary, error) {
	var (
		summary   models.CoverageSummary
		minValue  sql.NullFloat64
		maxValue  sql.NullFloat64
		meanValue sql.NullFloat64
	)
	err := s.conn.QueryRowContext(ctx, `SELECT
		coverage_percent, total_cells, covered_cells, uncovered_cells,
		min_value, max_value, mean_value
	FROM coverage_stats WHERE run_id = ?`, runID).Scan(
		&summary.CoveragePercent, &summary.TotalCells,
		&summary.CoveredCells, &summary.UncoveredCells,
		&minValue, &maxValue, &meanValue,
	)
	if errors.Is(err, sql.ErrNoRows) {
		// Distinguish a missing run from a run that has not finished.
		if reqErr := s.requireRun(ctx, runID); reqErr != nil {
			return nil, reqErr
		}
		return nil, fmt.Errorf("store: run %s: %w", runID, ErrNoCoverage)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get coverage stats for %s: %w", runID, err)
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
	return &summary, nil
}
