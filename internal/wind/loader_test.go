// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package wind

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/driftlabs/stratodrift/internal/geo"
)

// archiveSpec describes one synthetic Parquet wind archive.
type archiveSpec struct {
	name   string
	times  []time.Time
	levels []float64
	lats   []float64
	lons   []float64
	value  func(ti int, lat, lon float64) float64
}

// writeArchive materializes a long-format Parquet archive the way the
// upstream mirror lays them out: latitude descending (north to south).
func writeArchive(t *testing.T, dir string, spec archiveSpec) {
	t.Helper()

	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if _, err := db.ExecContext(ctx,
		`CREATE TABLE archive (time TIMESTAMP, level DOUBLE, lat DOUBLE, lon DOUBLE, value DOUBLE)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	stmt, err := db.PrepareContext(ctx, `INSERT INTO archive VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	defer stmt.Close()

	for ti, ts := range spec.times {
		for _, level := range spec.levels {
			for _, lat := range spec.lats {
				for _, lon := range spec.lons {
					if _, err := stmt.ExecContext(ctx, ts, level, lat, lon, spec.value(ti, lat, lon)); err != nil {
						t.Fatalf("insert: %v", err)
					}
				}
			}
		}
	}

	if _, err := db.ExecContext(ctx,
		`COPY (SELECT * FROM archive ORDER BY time, lat DESC, lon) TO ? (FORMAT PARQUET)`,
		filepath.Join(dir, spec.name)); err != nil {
		t.Fatalf("copy to parquet: %v", err)
	}
}

func defaultSpec(name string, times []time.Time, value func(ti int, lat, lon float64) float64) archiveSpec {
	return archiveSpec{
		name:   name,
		times:  times,
		levels: []float64{geo.DefaultPressureLevel},
		lats:   []float64{90, 0, -90},
		lons:   []float64{0, 90, 180, 270},
		value:  value,
	}
}

func TestLoadReorientsLatitude(t *testing.T) {
	dir := t.TempDir()
	times := makeTimes(1)

	// Value = latitude, so the orientation is visible in the loaded grid.
	byLat := func(_ int, lat, _ float64) float64 { return lat }
	writeArchive(t, dir, defaultSpec("uwnd.2023.parquet", times, byLat))
	writeArchive(t, dir, defaultSpec("vwnd.2023.parquet", times, byLat))

	f, err := Load(context.Background(), dir, geo.DefaultPressureLevel, ModeStep)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if h, w := f.GridSize(); h != 3 || w != 4 {
		t.Fatalf("GridSize = (%d, %d), want (3, 4)", h, w)
	}

	// Row 0 must be the south pole regardless of source ordering.
	if u, _ := f.VelocityAt(-90, 0, 0); !almostEqualF(u, -90*geo.MsToKmh, 1e-9) {
		t.Errorf("south pole u = %v, want %v", u, -90*geo.MsToKmh)
	}
	if u, _ := f.VelocityAt(90, 0, 0); !almostEqualF(u, 90*geo.MsToKmh, 1e-9) {
		t.Errorf("north pole u = %v, want %v", u, 90*geo.MsToKmh)
	}
}

func TestLoadConcatenatesArchivesInNameOrder(t *testing.T) {
	dir := t.TempDir()
	t2022 := makeTimes(2)
	t2023 := []time.Time{t2022[1].Add(6 * time.Hour), t2022[1].Add(12 * time.Hour)}

	writeArchive(t, dir, defaultSpec("uwnd.2022.parquet", t2022, func(ti int, _, _ float64) float64 { return float64(ti) }))
	writeArchive(t, dir, defaultSpec("uwnd.2023.parquet", t2023, func(ti int, _, _ float64) float64 { return float64(ti + 2) }))
	writeArchive(t, dir, defaultSpec("vwnd.2022.parquet", t2022, func(int, float64, float64) float64 { return 0 }))
	writeArchive(t, dir, defaultSpec("vwnd.2023.parquet", t2023, func(int, float64, float64) float64 { return 0 }))

	f, err := Load(context.Background(), dir, geo.DefaultPressureLevel, ModeStep)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := f.NumTimes(); got != 4 {
		t.Fatalf("NumTimes = %d, want 4", got)
	}
	for i, want := range append(t2022, t2023...) {
		if !f.TimeAt(i).Equal(want) {
			t.Errorf("TimeAt(%d) = %v, want %v", i, f.TimeAt(i), want)
		}
	}

	// Slice 2 is the first 2023 slice; value there is 2 m/s.
	if u, _ := f.VelocityAt(0, 0, 12); !almostEqualF(u, 2*geo.MsToKmh, 1e-9) {
		t.Errorf("hour 12 u = %v, want %v", u, 2*geo.MsToKmh)
	}
}

func TestLoadMissingData(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), t.TempDir(), geo.DefaultPressureLevel, ModeStep)
	if !errors.Is(err, ErrNoWindData) {
		t.Errorf("Load on empty dir = %v, want ErrNoWindData", err)
	}
}

func TestLoadRequiresBothComponents(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, defaultSpec("uwnd.2023.parquet", makeTimes(1), func(int, float64, float64) float64 { return 1 }))

	_, err := Load(context.Background(), dir, geo.DefaultPressureLevel, ModeStep)
	if !errors.Is(err, ErrNoWindData) {
		t.Errorf("Load without vwnd = %v, want ErrNoWindData", err)
	}
}

func TestLoadLevelAbsent(t *testing.T) {
	dir := t.TempDir()
	spec := defaultSpec("uwnd.2023.parquet", makeTimes(1), func(int, float64, float64) float64 { return 1 })
	spec.levels = []float64{500}
	writeArchive(t, dir, spec)
	vspec := spec
	vspec.name = "vwnd.2023.parquet"
	writeArchive(t, dir, vspec)

	_, err := Load(context.Background(), dir, geo.DefaultPressureLevel, ModeStep)
	if !errors.Is(err, ErrNoWindData) {
		t.Errorf("Load with absent level = %v, want ErrNoWindData", err)
	}
}

func TestLoadGridMismatch(t *testing.T) {
	dir := t.TempDir()
	times := makeTimes(1)

	writeArchive(t, dir, defaultSpec("uwnd.2022.parquet", times, func(int, float64, float64) float64 { return 1 }))
	coarse := defaultSpec("uwnd.2023.parquet", []time.Time{times[0].Add(6 * time.Hour)}, func(int, float64, float64) float64 { return 1 })
	coarse.lats = []float64{90, -90}
	writeArchive(t, dir, coarse)
	writeArchive(t, dir, defaultSpec("vwnd.2022.parquet", times, func(int, float64, float64) float64 { return 1 }))

	_, err := Load(context.Background(), dir, geo.DefaultPressureLevel, ModeStep)
	if !errors.Is(err, ErrGridMismatch) {
		t.Errorf("Load with mixed grids = %v, want ErrGridMismatch", err)
	}
}
