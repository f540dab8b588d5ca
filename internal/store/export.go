// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package store

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/driftlabs/stratodrift/internal/metrics"
)

// exportContext bounds an export at 10 minutes when the caller supplied no
// deadline. Exports move whole runs, so the standard 30-second bound is too
// tight.
func (s *Store) exportContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 10*time.Minute)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, 10*time.Minute)
	}
	return ctx, func() {}
}

// ExportTrajectoriesParquet writes a run's trajectory samples to outputPath
// as ZSTD-compressed Parquet. The rows never cross into Go; DuckDB performs
// the COPY.
func (s *Store) ExportTrajectoriesParquet(ctx context.Context, runID uuid.UUID, outputPath string) error {
	ctx, cancel := s.exportContext(ctx)
	defer cancel()

	if err := s.requireRun(ctx, runID); err != nil {
		return err
	}

	query := `COPY (
		SELECT balloon_id, step, hour, lat, lon, ts
		FROM trajectory_points
		WHERE run_id = ?
		ORDER BY balloon_id, step
	) TO ? (FORMAT PARQUET, COMPRESSION 'ZSTD', ROW_GROUP_SIZE 100000)`

	if _, err := s.conn.ExecContext(ctx, query, runID, outputPath); err != nil {
		return fmt.Errorf("store: export parquet for %s: %w", runID, err)
	}

	metrics.DBExportsTotal.WithLabelValues("parquet").Inc()
	return nil
}

// ExportTrajectoriesCSV writes a run's trajectory samples to outputPath as
// CSV with a header row.
func (s *Store) ExportTrajectoriesCSV(ctx context.Context, runID uuid.UUID, outputPath string) error {
	ctx, cancel := s.exportContext(ctx)
	defer cancel()

	if err := s.requireRun(ctx, runID); err != nil {
		return err
	}

	query := `COPY (
		SELECT balloon_id, step, hour, lat, lon, ts
		FROM trajectory_points
		WHERE run_id = ?
		ORDER BY balloon_id, step
	) TO ? (FORMAT CSV, HEADER true)`

	if _, err := s.conn.ExecContext(ctx, query, runID, outputPath); err != nil {
		return fmt.Errorf("store: export csv for %s: %w", runID, err)
	}

	metrics.DBExportsTotal.WithLabelValues("csv").Inc()
	return nil
}

// ExportCoverageCSV writes a run's coverage fraction time series to
// outputPath as CSV with a header row.
func (s *Store) ExportCoverageCSV(ctx context.Context, runID uuid.UUID, outputPath string) error {
	ctx, cancel := s.exportContext(ctx)
	defer cancel()

	if err := s.requireRun(ctx, runID); err != nil {
		return err
	}

	query := `COPY (
		SELECT hour, fraction
		FROM coverage_series
		WHERE run_id = ?
		ORDER BY hour
	) TO ? (FORMAT CSV, HEADER true)`

	if _, err := s.conn.ExecContext(ctx, query, runID, outputPath); err != nil {
		return fmt.Errorf("store: export coverage csv for %s: %w", runID, err)
	}

	metrics.DBExportsTotal.WithLabelValues("csv").Inc()
	return nil
}

// geoJSONFeature is one balloon path as a GeoJSON Feature.
type geoJSONFeature struct {
	Type       string            `json:"type"`
	Geometry   geoJSONLineString `json:"geometry"`
	Properties geoJSONProperties `json:"properties"`
}

// geoJSONLineString holds [lon, lat] positions, per RFC 7946 axis order.
type geoJSONLineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

type geoJSONProperties struct {
	BalloonID string     `json:"balloon_id"`
	Points    int        `json:"points"`
	StartHour int        `json:"start_hour"`
	EndHour   int        `json:"end_hour"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// ExportTrajectoriesGeoJSON streams a run's trajectories to w as a GeoJSON
// FeatureCollection with one LineString per balloon. Rows arrive ordered by
// balloon then step; each balloon's feature is encoded and flushed as soon
// as its last row has passed, so memory stays bounded by one trajectory.
func (s *Store) ExportTrajectoriesGeoJSON(ctx context.Context, runID uuid.UUID, w io.Writer) error {
	ctx, cancel := s.exportContext(ctx)
	defer cancel()

	if err := s.requireRun(ctx, runID); err != nil {
		return err
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT balloon_id, step, hour, lat, lon, ts
		FROM trajectory_points
		WHERE run_id = ?
		ORDER BY balloon_id, step`, runID)
	if err != nil {
		return fmt.Errorf("store: query trajectories for %s: %w", runID, err)
	}
	defer closeQuietly(rows)

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(`{"type":"FeatureCollection","features":[`); err != nil {
		return fmt.Errorf("store: write geojson: %w", err)
	}

	var (
		current  geoJSONFeature
		open     bool
		features int
	)
	flush := func() error {
		if !open {
			return nil
		}
		if features > 0 {
			if err := bw.WriteByte(','); err != nil {
				return err
			}
		}
		data, err := json.Marshal(current)
		if err != nil {
			return err
		}
		if _, err := bw.Write(data); err != nil {
			return err
		}
		features++
		open = false
		return nil
	}

	for rows.Next() {
		var (
			balloonID string
			step      int
			hour      int
			lat, lon  float64
			ts        sql.NullTime
		)
		if err := rows.Scan(&balloonID, &step, &hour, &lat, &lon, &ts); err != nil {
			return fmt.Errorf("store: scan trajectory row: %w", err)
		}

		if !open || current.Properties.BalloonID != balloonID {
			if err := flush(); err != nil {
				return fmt.Errorf("store: write geojson feature: %w", err)
			}
			current = geoJSONFeature{
				Type:     "Feature",
				Geometry: geoJSONLineString{Type: "LineString"},
				Properties: geoJSONProperties{
					BalloonID: balloonID,
					StartHour: hour,
				},
			}
			if ts.Valid {
				t := ts.Time.UTC()
				current.Properties.StartTime = &t
			}
			open = true
		}

		current.Geometry.Coordinates = append(current.Geometry.Coordinates, [2]float64{lon, lat})
		current.Properties.Points = len(current.Geometry.Coordinates)
		current.Properties.EndHour = hour
		if ts.Valid {
			t := ts.Time.UTC()
			current.Properties.EndTime = &t
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: read trajectories for %s: %w", runID, err)
	}
	if err := flush(); err != nil {
		return fmt.Errorf("store: write geojson feature: %w", err)
	}

	if _, err := bw.WriteString(`]}`); err != nil {
		return fmt.Errorf("store: write geojson: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("store: flush geojson: %w", err)
	}

	metrics.DBExportsTotal.WithLabelValues("geojson").Inc()
	return nil
}

// requireRun returns ErrRunNotFound when no run row exists for id.
func (s *Store) requireRun(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := s.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM runs WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("store: check run %s: %w", id, err)
	}
	if !exists {
		return fmt.Errorf("store: run %s: %w", id, ErrRunNotFound)
	}
	return nil
}
