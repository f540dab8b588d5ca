// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

// Package fleet builds launch configurations for groups of balloons,
// simulates their trajectories in parallel, and folds the results into
// coverage grids and export rows.
package fleet

import (
	"fmt"
	"math/rand"

	"github.com/driftlabs/stratodrift/internal/trajectory"
)

// Balloon is one platform in a fleet. Trajectory stays nil until the fleet
// has been simulated.
type Balloon struct {
	ID         string             `json:"id"`
	LaunchLat  float64            `json:"launch_lat"`
	LaunchLon  float64            `json:"launch_lon"`
	Trajectory []trajectory.Point `json:"trajectory,omitempty"`
}

// Region bounds launch positions for random fleets.
type Region struct {
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
}

func (r Region) validate() error {
	if r.LatMin < -90 || r.LatMax > 90 || r.LatMin >= r.LatMax {
		return fmt.Errorf("fleet: latitude range [%g, %g] invalid", r.LatMin, r.LatMax)
	}
	if r.LonMin < -180 || r.LonMax > 180 || r.LonMin >= r.LonMax {
		return fmt.Errorf("fleet: longitude range [%g, %g] invalid", r.LonMin, r.LonMax)
	}
	return nil
}

// GlobalRegion spans all launchable positions.
var GlobalRegion = Region{LatMin: -90, LatMax: 90, LonMin: -180, LonMax: 180}

// Fleet is a set of balloons sharing one simulation horizon. Construct with
// NewRandomFleet or NewGridFleet, then Simulate before reading trajectories.
type Fleet struct {
	balloons  []Balloon
	simulated bool
	numSteps  int
}

// NewRandomFleet launches n balloons uniformly over region. The seed fully
// determines the launch set; the same seed always yields the same fleet.
func NewRandomFleet(n int, region Region, seed int64) (*Fleet, error) {
	if n <= 0 {
		return nil, fmt.Errorf("fleet: balloon count %d must be positive", n)
	}
	if err := region.validate(); err != nil {
		return nil, err
	}

	// Explicit seed, private source: fleets are reproducible without
	// touching the process-global generator.
	rng := rand.New(rand.NewSource(seed))
	balloons := make([]Balloon, n)
	for i := range balloons {
		balloons[i] = Balloon{
			ID:        fmt.Sprintf("B%03d", i),
			LaunchLat: region.LatMin + rng.Float64()*(region.LatMax-region.LatMin),
			LaunchLon: region.LonMin + rng.Float64()*(region.LonMax-region.LonMin),
		}
	}
	return &Fleet{balloons: balloons}, nil
}

// NewGridFleet launches balloons on a regular lattice: latitudes from -80 to
// 80 inclusive and longitudes from -180 up to but not including 180, both
// stepped by spacingDeg.
func NewGridFleet(spacingDeg float64) (*Fleet, error) {
	if spacingDeg <= 0 {
		return nil, fmt.Errorf("fleet: grid spacing %g must be positive", spacingDeg)
	}

	var balloons []Balloon
	i := 0
	for lat := -80.0; lat <= 80.0+1e-9; lat += spacingDeg {
		for lon := -180.0; lon < 180.0-1e-9; lon += spacingDeg {
			balloons = append(balloons, Balloon{
				ID:        fmt.Sprintf("B%03d", i),
				LaunchLat: lat,
				LaunchLon: lon,
			})
			i++
		}
	}
	return &Fleet{balloons: balloons}, nil
}

// Size returns the number of balloons.
func (f *Fleet) Size() int { return len(f.balloons) }

// Simulated reports whether trajectories have been computed.
func (f *Fleet) Simulated() bool { return f.simulated }

// NumSteps returns the simulation horizon of the last Simulate call.
func (f *Fleet) NumSteps() int { return f.numSteps }

// Balloons returns the balloon slice. Callers must not mutate it; copy
// before holding across a re-simulation.
func (f *Fleet) Balloons() []Balloon { return f.balloons }
