// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

// Package coverage marks geodesic sensor footprints on a global grid and
// computes area-weighted coverage statistics over it.
//
// The grid is a height x width array in south-to-north row order. Cells hold
// zero while uncovered and a caller-supplied visit value once covered. The
// Analyzer owns a precomputed per-cell surface-area grid; coverage grids are
// owned by callers and mutated in place by Mark, which retains no alias
// after it returns. That contract is what lets a fleet run partition work
// freely as long as exactly one goroutine mutates a given grid.
package coverage

import (
	"fmt"
	"math"

	"github.com/driftlabs/stratodrift/internal/geo"
)

// nearPoleClampDeg keeps the bounding-box longitude extent finite when a
// footprint is centered close to a pole. The distance test still decides
// actual membership.
const nearPoleClampDeg = 89.9

// Analyzer computes coverage over a fixed-size grid with a fixed footprint
// radius. Analyzers are immutable after construction and safe for concurrent
// readers; Mark's exclusivity requirement applies to the grid argument, not
// the Analyzer.
type Analyzer struct {
	height   int
	width    int
	radiusKm float64

	// area[r][c] is the true surface area of the cell in km^2. It depends
	// only on the row's latitude, but is kept per cell for direct masking.
	area      [][]float64
	totalArea float64
}

// NewAnalyzer creates an Analyzer for a height x width grid and a footprint
// radius in km. Returns ErrInvalidGrid for non-positive dimensions and
// ErrInvalidRadius for a non-positive radius.
func NewAnalyzer(height, width int, radiusKm float64) (*Analyzer, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("coverage: %dx%d grid: %w", height, width, ErrInvalidGrid)
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("coverage: radius %g km: %w", radiusKm, ErrInvalidRadius)
	}

	a := &Analyzer{
		height:   height,
		width:    width,
		radiusKm: radiusKm,
		area:     make([][]float64, height),
	}

	// Cell footprint: (360/W) degrees of longitude scaled by the cosine of
	// the row's center latitude, times (180/H) degrees of latitude. Area
	// varies only with latitude.
	cellHeightKm := (180.0 / float64(height)) * geo.KmPerDegreeLat
	for row := 0; row < height; row++ {
		centerLat := (float64(row)+0.5)*180.0/float64(height) - 90.0
		cellWidthKm := (360.0 / float64(width)) * geo.KmPerDegreeLat * math.Cos(centerLat*math.Pi/180.0)
		rowArea := cellWidthKm * cellHeightKm

		a.area[row] = make([]float64, width)
		for col := 0; col < width; col++ {
			a.area[row][col] = rowArea
		}
		a.totalArea += rowArea * float64(width)
	}

	return a, nil
}

// Height returns the grid height the analyzer was built for.
func (a *Analyzer) Height() int { return a.height }

// Width returns the grid width the analyzer was built for.
func (a *Analyzer) Width() int { return a.width }

// RadiusKm returns the footprint radius.
func (a *Analyzer) RadiusKm() float64 { return a.radiusKm }

// NewGrid allocates a zeroed coverage grid matching the analyzer's shape.
func (a *Analyzer) NewGrid() [][]float64 {
	grid := make([][]float64, a.height)
	for r := range grid {
		grid[r] = make([]float64, a.width)
	}
	return grid
}

// Mark sets every cell whose center lies within the footprint radius of
// (lat, lon) to value, overwriting whatever was there. The footprint is a
// true geodesic disc: candidates come from a latitude/longitude bounding
// box, membership from the great-circle distance to the cell center. The
// distance test is what resolves antimeridian wrap and polar distortion, so
// there are no per-wrap special cases. Rows clamp at the poles; columns wrap
// modulo the grid width at indexing time, letting the candidate box span the
// seam.
func (a *Analyzer) Mark(lat, lon float64, grid [][]float64, value float64) error {
	if err := a.checkShape(grid); err != nil {
		return err
	}

	latExtent := a.radiusKm / geo.KmPerDegreeLat

	// Longitude is undefined at the poles; clamp the query latitude before
	// dividing by the per-degree longitude length.
	clampedLat := lat
	if clampedLat > nearPoleClampDeg {
		clampedLat = nearPoleClampDeg
	} else if clampedLat < -nearPoleClampDeg {
		clampedLat = -nearPoleClampDeg
	}
	lonExtent := a.radiusKm / geo.KmPerDegreeLon(clampedLat)
	if lonExtent > 180 {
		lonExtent = 180
	}

	// Row range clamps because latitude does not wrap; the one-cell margin
	// keeps boundary centers in the candidate set after rounding.
	rowMin, _ := geo.StandardToGrid(lat-latExtent, lon, a.height, a.width)
	rowMax, _ := geo.StandardToGrid(lat+latExtent, lon, a.height, a.width)
	if rowMin > 0 {
		rowMin--
	}
	if rowMax < a.height-1 {
		rowMax++
	}

	_, centerCol := geo.StandardToGrid(lat, lon, a.height, a.width)
	colSpan := int(math.Ceil(lonExtent/(360.0/float64(a.width)))) + 1

	for row := rowMin; row <= rowMax; row++ {
		if 2*colSpan+1 >= a.width {
			// Footprint wraps the whole parallel; visit each column once.
			for col := 0; col < a.width; col++ {
				a.markIfWithin(lat, lon, grid, row, col, value)
			}
			continue
		}
		for dc := -colSpan; dc <= colSpan; dc++ {
			col := ((centerCol+dc)%a.width + a.width) % a.width
			a.markIfWithin(lat, lon, grid, row, col, value)
		}
	}

	return nil
}

func (a *Analyzer) markIfWithin(lat, lon float64, grid [][]float64, row, col int, value float64) {
	cellLat, cellLon := geo.GridToStandard(row, col, a.height, a.width)
	if geo.GreatCircleKm(lat, lon, cellLat, cellLon) <= a.radiusKm {
		grid[row][col] = value
	}
}

// Fraction returns the fraction of the Earth's surface covered: the summed
// area of nonzero cells over the total area. Area weighting is what keeps
// the many small polar cells from being overcounted.
func (a *Analyzer) Fraction(grid [][]float64) (float64, error) {
	return a.fraction(grid, func(v float64) bool { return v != 0 })
}

// FractionAbove is Fraction with the mask grid > threshold instead of
// grid != 0.
func (a *Analyzer) FractionAbove(grid [][]float64, threshold float64) (float64, error) {
	return a.fraction(grid, func(v float64) bool { return v > threshold })
}

func (a *Analyzer) fraction(grid [][]float64, covered func(float64) bool) (float64, error) {
	if err := a.checkShape(grid); err != nil {
		return 0, err
	}

	var coveredArea float64
	for r := range grid {
		for c, v := range grid[r] {
			if covered(v) {
				coveredArea += a.area[r][c]
			}
		}
	}
	return coveredArea / a.totalArea, nil
}

func (a *Analyzer) checkShape(grid [][]float64) error {
	if len(grid) != a.height {
		return fmt.Errorf("coverage: grid has %d rows, analyzer expects %d: %w",
			len(grid), a.height, ErrInvalidGrid)
	}
	for r := range grid {
		if len(grid[r]) != a.width {
			return fmt.Errorf("coverage: grid row %d has %d cols, analyzer expects %d: %w",
				r, len(grid[r]), a.width, ErrInvalidGrid)
		}
	}
	return nil
}
