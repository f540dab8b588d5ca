// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

// Package wind owns the time-indexed wind grids the simulation samples.
//
// A Field holds (u, v) component grids for one pressure level, shaped
// (time, row, col) with six hours between time slices and row 0 at the south
// pole. Fields are immutable once constructed and safe to share across any
// number of simulation workers. Loading, fetching, and hot-swapping live in
// this package too; the Field itself never touches the network or the
// filesystem.
package wind

import (
	"fmt"
	"math"
	"time"

	"github.com/driftlabs/stratodrift/internal/geo"
)

// InterpolationMode selects how velocity queries blend between the six-hour
// wind snapshots.
type InterpolationMode string

const (
	// ModeStep holds each snapshot constant until the next one.
	ModeStep InterpolationMode = "step"

	// ModeLinear blends linearly between the bracketing snapshots.
	ModeLinear InterpolationMode = "linear"
)

// Field is an immutable wind field: u (eastward) and v (northward) component
// grids in m/s for one pressure level, plus the timestamp of every slice.
type Field struct {
	u     [][][]float64
	v     [][][]float64
	times []time.Time
	level float64
	mode  InterpolationMode

	height int
	width  int
}

// NewField validates and wraps raw component grids. Both components must
// have the same non-zero number of time slices as the timestamp list, and
// every slice must share one grid shape. The arrays are adopted, not copied;
// callers must not mutate them afterwards.
func NewField(u, v [][][]float64, times []time.Time, level float64, mode InterpolationMode) (*Field, error) {
	switch mode {
	case ModeStep, ModeLinear:
	case "":
		mode = ModeStep
	default:
		return nil, fmt.Errorf("wind: unknown interpolation mode %q", mode)
	}

	if len(u) == 0 || len(v) == 0 || len(times) == 0 {
		return nil, fmt.Errorf("wind: empty component arrays: %w", ErrNoWindData)
	}
	if len(u) != len(v) || len(u) != len(times) {
		return nil, fmt.Errorf("wind: %d u slices, %d v slices, %d timestamps: %w",
			len(u), len(v), len(times), ErrGridMismatch)
	}

	height := len(u[0])
	if height == 0 || len(u[0][0]) == 0 {
		return nil, fmt.Errorf("wind: empty grid slice: %w", ErrGridMismatch)
	}
	width := len(u[0][0])
	for t := range u {
		if err := checkSliceShape(u[t], height, width); err != nil {
			return nil, fmt.Errorf("wind: u slice %d: %w", t, err)
		}
		if err := checkSliceShape(v[t], height, width); err != nil {
			return nil, fmt.Errorf("wind: v slice %d: %w", t, err)
		}
	}

	return &Field{
		u:      u,
		v:      v,
		times:  times,
		level:  level,
		mode:   mode,
		height: height,
		width:  width,
	}, nil
}

func checkSliceShape(slice [][]float64, height, width int) error {
	if len(slice) != height {
		return fmt.Errorf("%d rows, want %d: %w", len(slice), height, ErrGridMismatch)
	}
	for r := range slice {
		if len(slice[r]) != width {
			return fmt.Errorf("row %d has %d cols, want %d: %w", r, len(slice[r]), width, ErrGridMismatch)
		}
	}
	return nil
}

// VelocityAt returns the wind in km/h at a standard coordinate and
// simulation hour. The nearest grid cell is used; there is no spatial
// interpolation. Hours outside the loaded time range clamp to the first or
// last slice.
func (f *Field) VelocityAt(lat, lon float64, hour int) (float64, float64) {
	ilat, ilon := geo.StandardToInternal(lat, lon)
	return f.VelocityAtInternal(ilat, ilon, hour)
}

// VelocityAtInternal is VelocityAt for internal coordinates. The trajectory
// integrator calls this form to avoid converting twice per step.
func (f *Field) VelocityAtInternal(ilat, ilon float64, hour int) (float64, float64) {
	row, col := geo.InternalToGrid(ilat, ilon, f.height, f.width)

	var u, v float64
	if f.mode == ModeLinear {
		t := float64(hour) / geo.WindUpdateHours
		rawT0 := int(math.Floor(t))
		t0 := clampIndex(rawT0, len(f.times))
		t1 := clampIndex(rawT0+1, len(f.times))
		alpha := t - math.Floor(t)

		u = (1-alpha)*f.u[t0][row][col] + alpha*f.u[t1][row][col]
		v = (1-alpha)*f.v[t0][row][col] + alpha*f.v[t1][row][col]
	} else {
		idx := clampIndex(hour/geo.WindUpdateHours, len(f.times))
		u = f.u[idx][row][col]
		v = f.v[idx][row][col]
	}

	return u * geo.MsToKmh, v * geo.MsToKmh
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

// NumTimes returns the number of loaded time slices.
func (f *Field) NumTimes() int { return len(f.times) }

// Times returns a copy of the slice timestamps.
func (f *Field) Times() []time.Time {
	out := make([]time.Time, len(f.times))
	copy(out, f.times)
	return out
}

// TimeAt returns the timestamp of slice i, clamped to the loaded range.
func (f *Field) TimeAt(i int) time.Time { return f.times[clampIndex(i, len(f.times))] }

// TimestampForHour maps a simulation hour to a wall-clock timestamp: the
// covering slice's timestamp plus the remainder within its six-hour window.
// Hours past either end extrapolate from the nearest slice, so labels stay
// monotonic even when a run outlasts the loaded winds.
func (f *Field) TimestampForHour(hour int) time.Time {
	idx := clampIndex(hour/geo.WindUpdateHours, len(f.times))
	return f.times[idx].Add(time.Duration(hour-idx*geo.WindUpdateHours) * time.Hour)
}

// GridSize returns (height, width) of the wind grid.
func (f *Field) GridSize() (int, int) { return f.height, f.width }

// Level returns the pressure level in hPa the field was loaded for.
func (f *Field) Level() float64 { return f.level }

// Mode returns the temporal interpolation mode.
func (f *Field) Mode() InterpolationMode { return f.mode }

// WithMode returns a view of the field using the given interpolation mode.
// The component arrays are shared, so the view costs nothing; an empty mode
// returns the receiver unchanged.
func (f *Field) WithMode(mode InterpolationMode) (*Field, error) {
	switch mode {
	case "":
		return f, nil
	case f.mode:
		return f, nil
	case ModeStep, ModeLinear:
	default:
		return nil, fmt.Errorf("wind: unknown interpolation mode %q", mode)
	}
	view := *f
	view.mode = mode
	return &view, nil
}

// HoursCovered returns the number of simulation hours the loaded time axis
// spans, counting the six-hour hold after the last slice.
func (f *Field) HoursCovered() int { return len(f.times) * geo.WindUpdateHours }
