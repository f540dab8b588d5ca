// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package models

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus tracks a simulation run through its lifecycle.
type RunStatus string

// Run lifecycle states. A run moves pending → running → one of the three
// terminal states and never back.
const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCanceled  RunStatus = "canceled"
)

// Terminal reports whether the status is an end state.
func (s RunStatus) Terminal() bool {
	return s == RunCompleted || s == RunFailed || s == RunCanceled
}

// Run represents one simulation run: a fleet of balloons advected through
// the loaded wind field for a fixed horizon, with coverage accumulated as
// they drift.
//
// Key Fields:
//   - ID: Unique UUID assigned at launch
//   - Status: Lifecycle state (see RunStatus)
//   - Config: The launch parameters, frozen at submission
//   - Coverage: Final coverage summary, present once completed
//   - Error: Failure cause when Status is "failed"
//
// Timestamps:
//   - CreatedAt: When the launch request was accepted
//   - StartedAt: When simulation work actually began (nil while pending)
//   - CompletedAt: When the run reached a terminal state
type Run struct {
	ID     uuid.UUID `json:"id"`
	Status RunStatus `json:"status"`
	Config RunConfig `json:"config"`

	// Results, populated on completion
	Coverage *CoverageSummary `json:"coverage,omitempty"`
	Error    string           `json:"error,omitempty"`

	// Lifecycle timestamps
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RunConfig is the frozen launch configuration of a run. It records every
// parameter needed to reproduce the run bit-for-bit against the same wind
// archive: the fleet layout (count + region + seed, or grid spacing), the
// horizon, the interpolation mode, and the coverage geometry.
type RunConfig struct {
	// Fleet layout
	Balloons   int     `json:"balloons"`
	Seed       int64   `json:"seed"`
	LatMin     float64 `json:"lat_min"`
	LatMax     float64 `json:"lat_max"`
	LonMin     float64 `json:"lon_min"`
	LonMax     float64 `json:"lon_max"`
	GridFleet  bool    `json:"grid_fleet,omitempty"`
	SpacingDeg float64 `json:"spacing_deg,omitempty"`

	// Horizon and wind sampling
	Steps         int    `json:"steps"`
	Interpolation string `json:"interpolation"`

	// Coverage geometry
	RadiusKm   float64 `json:"radius_km"`
	GridHeight int     `json:"grid_height"`
	GridWidth  int     `json:"grid_width"`
	MarkEvery  int     `json:"mark_every"`
}

// CoverageSummary is the final coverage accounting of a completed run:
// area-weighted percentage, raw cell counts, the spread of last-visit hours
// across covered cells, and the fraction time series sampled as the run
// progressed.
//
// MinValue/MaxValue/MeanValue are nil when no cell was covered.
type CoverageSummary struct {
	CoveragePercent float64  `json:"coverage_percent"`
	TotalCells      int      `json:"total_cells"`
	CoveredCells    int      `json:"covered_cells"`
	UncoveredCells  int      `json:"uncovered_cells"`
	MinValue        *float64 `json:"min_value,omitempty"`
	MaxValue        *float64 `json:"max_value,omitempty"`
	MeanValue       *float64 `json:"mean_value,omitempty"`

	Series []FractionPoint `json:"series,omitempty"`
}

// FractionPoint is one sample of the coverage fraction time series: the
// area-weighted covered fraction after Hour hours of simulated time.
type FractionPoint struct {
	Hour     int     `json:"hour"`
	Fraction float64 `json:"fraction"`
}

// TrajectoryPoint is one stored trajectory sample, as returned by the
// trajectory queries and exports. Time is the wind-data timestamp of the
// sample hour; it is absent when the run outlived the loaded wind span.
type TrajectoryPoint struct {
	RunID     uuid.UUID  `json:"run_id"`
	BalloonID string     `json:"balloon_id"`
	Step      int        `json:"step"`
	Hour      int        `json:"hour"`
	Lat       float64    `json:"lat"`
	Lon       float64    `json:"lon"`
	Time      *time.Time `json:"time,omitempty"`
}

// LaunchRequest is the POST /api/v1/runs body. Validation tags mirror the
// hard bounds in SimConfig; the handler additionally clamps against the
// configured maximums.
//
// Fleet layout: either a random fleet (Balloons + region + Seed) or, when
// SpacingDeg is set, a regular lattice covering the globe. The region
// defaults to the full globe when all four bounds are zero.
//
// Example:
//
//	{
//	  "balloons": 100,
//	  "steps": 720,
//	  "seed": 42,
//	  "lat_min": -60, "lat_max": 60,
//	  "lon_min": -180, "lon_max": 180,
//	  "interpolation": "linear",
//	  "radius_km": 370
//	}
type LaunchRequest struct {
	Balloons   int     `json:"balloons" validate:"required_without=SpacingDeg,omitempty,min=1,max=1000"`
	Steps      int     `json:"steps" validate:"required,min=1,max=8760"`
	Seed       int64   `json:"seed"`
	LatMin     float64 `json:"lat_min" validate:"omitempty,latitude"`
	LatMax     float64 `json:"lat_max" validate:"omitempty,latitude"`
	LonMin     float64 `json:"lon_min" validate:"omitempty,longitude"`
	LonMax     float64 `json:"lon_max" validate:"omitempty,longitude"`
	SpacingDeg float64 `json:"spacing_deg" validate:"omitempty,gt=0,lte=90"`

	Interpolation string `json:"interpolation" validate:"omitempty,oneof=step linear"`

	RadiusKm  float64 `json:"radius_km" validate:"omitempty,gt=0"`
	MarkEvery int     `json:"mark_every" validate:"omitempty,min=1"`
}

// WindStatus describes the currently loaded wind field, as returned by
// GET /api/v1/wind.
//
// Loaded is false (and the remaining fields zero) when no archive has been
// read yet — for example before the first sync on a fresh deployment.
type WindStatus struct {
	Loaded        bool       `json:"loaded"`
	GridHeight    int        `json:"grid_height,omitempty"`
	GridWidth     int        `json:"grid_width,omitempty"`
	TimeSlices    int        `json:"time_slices,omitempty"`
	Level         float64    `json:"level,omitempty"`
	Interpolation string     `json:"interpolation,omitempty"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	LoadedAt      *time.Time `json:"loaded_at,omitempty"`
}
