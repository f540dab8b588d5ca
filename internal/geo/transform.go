// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

// Package geo implements the coordinate systems the simulation moves between:
//
//   - Standard: geographic latitude in [-90, 90] (south negative) and
//     longitude in (-180, 180] (west negative). Every public simulation API
//     speaks standard coordinates.
//   - Internal: pole-safe latitude in [0, 180] (0 = south pole) and longitude
//     in [0, 360). Trajectory arithmetic happens here so that pole crossings
//     are simple overshoots of a linear axis instead of discontinuities.
//   - Grid: integer (row, col) indices into a fixed-resolution global array.
//     Rows clamp at the poles; columns wrap modulo the grid width.
//
// All functions are pure and defined over the full numeric domain; there are
// no error paths in this package.
package geo

import "math"

// StandardToInternal converts standard coordinates to the internal pole-safe
// representation.
func StandardToInternal(lat, lon float64) (float64, float64) {
	return lat + 90.0, wrap360(lon + 360.0)
}

// InternalToStandard converts internal coordinates back to standard ones.
// Longitudes above 180 map to the western hemisphere, so 181 becomes -179.
func InternalToStandard(ilat, ilon float64) (float64, float64) {
	lat := ilat - 90.0
	if ilon > 180.0 {
		return lat, ilon - 360.0
	}
	return lat, ilon
}

// InternalToGrid maps internal coordinates onto a height x width grid.
// Rounding (not truncation) keeps positions near cell boundaries in the
// correct cell. The row axis does not wrap: the poles are terminal rows and
// out-of-range latitudes clamp. The column axis wraps modulo width.
func InternalToGrid(ilat, ilon float64, height, width int) (int, int) {
	row := int(math.Round(float64(height-1) * ilat / 180.0))
	if row < 0 {
		row = 0
	}
	if row > height-1 {
		row = height - 1
	}
	col := wrapCol(int(math.Round(float64(width)*ilon/360.0)), width)
	return row, col
}

// GridToInternal maps a grid cell back to the internal coordinates of its
// origin. For a degenerate single-row grid the latitude is the equator.
func GridToInternal(row, col, height, width int) (float64, float64) {
	ilat := 90.0
	if height > 1 {
		ilat = 180.0 * float64(row) / float64(height-1)
	}
	ilon := 360.0 * float64(col) / float64(width)
	return ilat, ilon
}

// StandardToGrid composes StandardToInternal and InternalToGrid.
func StandardToGrid(lat, lon float64, height, width int) (int, int) {
	ilat, ilon := StandardToInternal(lat, lon)
	return InternalToGrid(ilat, ilon, height, width)
}

// GridToStandard composes GridToInternal and InternalToStandard.
func GridToStandard(row, col, height, width int) (float64, float64) {
	ilat, ilon := GridToInternal(row, col, height, width)
	return InternalToStandard(ilat, ilon)
}

// KmPerDegreeLon returns the length in km of one degree of longitude at the
// given standard latitude. It degenerates toward zero at the poles; callers
// dividing by it must clamp the latitude away from +/-90 first.
func KmPerDegreeLon(lat float64) float64 {
	return KmPerDegreeLat * math.Cos(lat*math.Pi/180.0)
}

// KmPerDegreeLonInternal is KmPerDegreeLon for an internal latitude.
func KmPerDegreeLonInternal(ilat float64) float64 {
	return KmPerDegreeLon(ilat - 90.0)
}

// wrap360 reduces a longitude-like angle into [0, 360). Unlike math.Mod it
// never returns a negative value.
func wrap360(deg float64) float64 {
	r := math.Mod(deg, 360.0)
	if r < 0 {
		r += 360.0
	}
	return r
}

// wrapCol reduces a column index into [0, width).
func wrapCol(col, width int) int {
	r := col % width
	if r < 0 {
		r += width
	}
	return r
}
