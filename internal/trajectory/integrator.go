// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

// Package trajectory advances balloon positions hour by hour under a wind
// field. A balloon adopts the local wind velocity instantaneously (no
// inertia, no altitude control), so one step is one hour of drift at the
// sampled wind speed, with reflection handling for steps that fly over a
// pole.
package trajectory

import (
	"context"
	"fmt"
	"math"

	"github.com/driftlabs/stratodrift/internal/geo"
)

// VelocitySource answers wind queries in internal coordinates, returning
// km/h components. *wind.Field implements it; tests substitute synthetic
// winds.
type VelocitySource interface {
	VelocityAtInternal(ilat, ilon float64, hour int) (uKmh, vKmh float64)
}

// Point is one trajectory sample in standard coordinates at a simulation
// hour.
type Point struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Hour int     `json:"hour"`
}

// Integrator advances positions using a shared, immutable wind source.
// Integrators are stateless between calls and safe for concurrent use.
type Integrator struct {
	wind VelocitySource
}

// NewIntegrator creates an Integrator over the given wind source.
func NewIntegrator(wind VelocitySource) *Integrator {
	return &Integrator{wind: wind}
}

// Step advances one position by one hour of drift and returns the new
// standard coordinates. The arithmetic happens in internal coordinates,
// where crossing a pole is an overshoot of the [0, 180] latitude axis:
// the balloon continues on the opposite meridian at the reflected latitude.
// Outputs are always valid standard coordinates, whatever the displacement
// magnitude.
func (in *Integrator) Step(lat, lon float64, hour int) (float64, float64) {
	ilat, ilon := geo.StandardToInternal(lat, lon)

	uKmh, vKmh := in.wind.VelocityAtInternal(ilat, ilon, hour)

	// One hour of drift, converted to degrees. Longitude degrees shrink
	// toward the poles.
	newILat := ilat + vKmh/geo.KmPerDegreeLat
	newILon := ilon + uKmh/geo.KmPerDegreeLonInternal(ilat)

	switch {
	case newILat > 180:
		// Crossed the north pole: reflect and continue on the opposite
		// meridian.
		newILat = 180 - math.Mod(newILat, 180)
		newILon = wrapLon(newILon + 180)
	case newILat < 0:
		// Crossed the south pole: same reflection from the other end.
		newILat = math.Abs(newILat)
		if newILat > 180 {
			// More than a full hemisphere past the pole; fold back into
			// range so the position stays physical.
			newILat = 180 - math.Mod(newILat, 180)
		}
		newILon = wrapLon(newILon + 180)
	default:
		newILon = wrapLon(newILon)
	}

	return geo.InternalToStandard(newILat, newILon)
}

// Integrate produces numSteps+1 trajectory points, the launch position
// followed by one point per hour of drift, with hours counted from
// startHour. The result is deterministic for a given wind source and is
// materialized eagerly so consumers can index it at random. The context is
// checked once per step so supervised fleet runs cancel promptly.
func (in *Integrator) Integrate(ctx context.Context, lat, lon float64, numSteps, startHour int) ([]Point, error) {
	if numSteps < 0 {
		return nil, fmt.Errorf("trajectory: negative step count %d", numSteps)
	}

	points := make([]Point, 0, numSteps+1)
	points = append(points, Point{Lat: lat, Lon: lon, Hour: startHour})

	for i := 0; i < numSteps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hour := startHour + i
		lat, lon = in.Step(lat, lon, hour)
		points = append(points, Point{Lat: lat, Lon: lon, Hour: hour + 1})
	}

	return points, nil
}

// wrapLon reduces an internal longitude into [0, 360).
func wrapLon(ilon float64) float64 {
	r := math.Mod(ilon, 360)
	if r < 0 {
		r += 360
	}
	return r
}
