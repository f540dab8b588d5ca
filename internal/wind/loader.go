// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package wind

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	// DuckDB driver, used to read the Parquet wind archives.
	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/driftlabs/stratodrift/internal/logging"
)

// Wind archives are long-format Parquet renditions of the reanalysis grids:
// one row per (time, level, lat, lon) sample, one file per variable-year,
// named uwnd.<year>.parquet / vwnd.<year>.parquet. Latitude runs north to
// south in the source; ordering ascending while loading reorients the grid so
// row 0 is the south pole, which is what the rest of the simulation expects.

// Load builds a Field from every uwnd/vwnd Parquet archive in dir, selecting
// one pressure level and concatenating files along the time axis in filename
// order. Returns ErrNoWindData when dir holds no matching files and
// ErrGridMismatch when the files disagree on grid shape or time axes.
func Load(ctx context.Context, dir string, level float64, mode InterpolationMode) (*Field, error) {
	uFiles, err := filepath.Glob(filepath.Join(dir, "uwnd.*.parquet"))
	if err != nil {
		return nil, fmt.Errorf("wind: glob %s: %w", dir, err)
	}
	vFiles, err := filepath.Glob(filepath.Join(dir, "vwnd.*.parquet"))
	if err != nil {
		return nil, fmt.Errorf("wind: glob %s: %w", dir, err)
	}
	if len(uFiles) == 0 || len(vFiles) == 0 {
		return nil, fmt.Errorf("wind: no uwnd/vwnd parquet archives in %s: %w", dir, ErrNoWindData)
	}
	sort.Strings(uFiles)
	sort.Strings(vFiles)

	db, err := sql.Open("duckdb", ":memory:?autoinstall_known_extensions=false&autoload_known_extensions=false")
	if err != nil {
		return nil, fmt.Errorf("wind: open reader: %w", err)
	}
	defer closeQuietly(db)

	u, uTimes, err := loadComponent(ctx, db, uFiles, level)
	if err != nil {
		return nil, err
	}
	v, vTimes, err := loadComponent(ctx, db, vFiles, level)
	if err != nil {
		return nil, err
	}
	if len(uTimes) != len(vTimes) {
		return nil, fmt.Errorf("wind: u covers %d times, v covers %d: %w",
			len(uTimes), len(vTimes), ErrGridMismatch)
	}

	field, err := NewField(u, v, uTimes, level, mode)
	if err != nil {
		return nil, err
	}

	h, w := field.GridSize()
	logging.Info().
		Int("time_slices", field.NumTimes()).
		Int("grid_height", h).
		Int("grid_width", w).
		Float64("level_hpa", level).
		Str("mode", string(field.Mode())).
		Msg("Wind field loaded")

	return field, nil
}

// loadComponent reads one variable's archives and concatenates their time
// slices in file order.
func loadComponent(ctx context.Context, db *sql.DB, files []string, level float64) ([][][]float64, []time.Time, error) {
	var (
		slices [][][]float64
		times  []time.Time
		height int
		width  int
	)

	for _, path := range files {
		fileSlices, fileTimes, h, w, err := loadArchive(ctx, db, path, level)
		if err != nil {
			return nil, nil, err
		}
		if height == 0 {
			height, width = h, w
		} else if h != height || w != width {
			return nil, nil, fmt.Errorf("wind: %s is %dx%d, earlier files are %dx%d: %w",
				filepath.Base(path), h, w, height, width, ErrGridMismatch)
		}
		slices = append(slices, fileSlices...)
		times = append(times, fileTimes...)
	}

	return slices, times, nil
}

// loadArchive reads one Parquet file into dense (time, row, col) slices.
func loadArchive(ctx context.Context, db *sql.DB, path string, level float64) ([][][]float64, []time.Time, int, int, error) {
	var h, w, nt int
	err := db.QueryRowContext(ctx,
		`SELECT count(DISTINCT lat), count(DISTINCT lon), count(DISTINCT time)
		 FROM read_parquet(?) WHERE level = ?`, path, level).Scan(&h, &w, &nt)
	if err != nil {
		return nil, nil, 0, 0, fmt.Errorf("wind: inspect %s: %w", filepath.Base(path), err)
	}
	if h == 0 || w == 0 || nt == 0 {
		return nil, nil, 0, 0, fmt.Errorf("wind: level %g absent from %s: %w",
			level, filepath.Base(path), ErrNoWindData)
	}

	// Ascending latitude order performs the south-to-north reorientation.
	rows, err := db.QueryContext(ctx,
		`SELECT time, value FROM read_parquet(?) WHERE level = ?
		 ORDER BY time, lat, lon`, path, level)
	if err != nil {
		return nil, nil, 0, 0, fmt.Errorf("wind: read %s: %w", filepath.Base(path), err)
	}
	defer closeQuietly(rows)

	slices := make([][][]float64, nt)
	for t := range slices {
		slices[t] = make([][]float64, h)
		for r := range slices[t] {
			slices[t][r] = make([]float64, w)
		}
	}
	times := make([]time.Time, 0, nt)

	i := 0
	for rows.Next() {
		var (
			ts  time.Time
			val float64
		)
		if err := rows.Scan(&ts, &val); err != nil {
			return nil, nil, 0, 0, fmt.Errorf("wind: scan %s: %w", filepath.Base(path), err)
		}
		t := i / (h * w)
		if t >= nt {
			return nil, nil, 0, 0, fmt.Errorf("wind: %s has more rows than time*lat*lon: %w",
				filepath.Base(path), ErrGridMismatch)
		}
		r := (i / w) % h
		c := i % w
		slices[t][r][c] = val
		if r == 0 && c == 0 {
			times = append(times, ts)
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return nil, nil, 0, 0, fmt.Errorf("wind: read %s: %w", filepath.Base(path), err)
	}
	if i != nt*h*w {
		return nil, nil, 0, 0, fmt.Errorf("wind: %s holds %d samples, want dense %d: %w",
			filepath.Base(path), i, nt*h*w, ErrGridMismatch)
	}

	return slices, times, h, w, nil
}

// closeQuietly closes a resource whose close error has nowhere useful to go.
func closeQuietly(c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		logging.Debug().Err(err).Msg("Close failed")
	}
}
