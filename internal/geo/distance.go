// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package geo

import "math"

// GreatCircleKm returns the great-circle distance in km between two standard
// coordinates using the spherical law of cosines. The cosine argument is
// clamped to [-1, 1] so that antipodal and identical points stay inside the
// domain of Acos under floating-point noise.
func GreatCircleKm(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180.0

	phi1 := lat1 * degToRad
	phi2 := lat2 * degToRad
	dLambda := (lon2 - lon1) * degToRad

	c := math.Sin(phi1)*math.Sin(phi2) + math.Cos(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	if c > 1.0 {
		c = 1.0
	} else if c < -1.0 {
		c = -1.0
	}
	return EarthRadiusKm * math.Acos(c)
}
