// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package geo

// Physical constants shared by the trajectory and coverage packages.
// Values match the NCEP/NCAR reanalysis conventions the wind data uses.
const (
	// EarthRadiusKm is the mean Earth radius used for great-circle distances.
	EarthRadiusKm = 6371.0

	// KmPerDegreeLat is the meridional length of one degree of latitude.
	// Treated as constant; meridian convergence only affects longitude.
	KmPerDegreeLat = 111.111

	// MsToKmh converts wind speeds from m/s (source units) to km/h.
	MsToKmh = 3.6

	// WindUpdateHours is the reanalysis time resolution: one wind snapshot
	// every six hours.
	WindUpdateHours = 6

	// DefaultPressureLevel is the 300 hPa level, roughly 9 km altitude,
	// where stratospheric balloons of this class float.
	DefaultPressureLevel = 300.0

	// DefaultCoverageRadiusKm is the ground-sensor footprint radius used
	// when a run does not override it.
	DefaultCoverageRadiusKm = 370.0

	// ReanalysisGridHeight and ReanalysisGridWidth are the dimensions of
	// the 2.5-degree global reanalysis grid (73 latitude rows including
	// both poles, 144 longitude columns).
	ReanalysisGridHeight = 73
	ReanalysisGridWidth  = 144
)
