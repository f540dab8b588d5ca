// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package fleet

import (
	"time"

	"github.com/driftlabs/stratodrift/internal/coverage"
)

// Record is one trajectory sample flattened for persistence and export.
type Record struct {
	BalloonID string  `json:"balloon_id"`
	Step      int     `json:"step"`
	Hour      int     `json:"hour"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// Records flattens every trajectory into tabular rows, balloon-major with
// steps in order. Returns ErrNotSimulated before a successful Simulate.
func (f *Fleet) Records() ([]Record, error) {
	if !f.simulated {
		return nil, ErrNotSimulated
	}

	records := make([]Record, 0, len(f.balloons)*(f.numSteps+1))
	for i := range f.balloons {
		b := &f.balloons[i]
		for step, p := range b.Trajectory {
			records = append(records, Record{
				BalloonID: b.ID,
				Step:      step,
				Hour:      p.Hour,
				Lat:       p.Lat,
				Lon:       p.Lon,
			})
		}
	}
	return records, nil
}

// TimeSource labels simulation hours with wall-clock timestamps. A loaded
// wind field is the canonical source.
type TimeSource interface {
	HoursCovered() int
	TimestampForHour(hour int) time.Time
}

// Times labels every Records row with the timestamp of its sample hour, in
// the same balloon-major order. A balloon whose trajectory runs past the
// source's span gets zero times for all of its rows — those rows keep their
// plain hour offsets, since extrapolated labels would suggest wind data that
// was never loaded. Returns ErrNotSimulated before a successful Simulate.
func (f *Fleet) Times(src TimeSource) ([]time.Time, error) {
	if !f.simulated {
		return nil, ErrNotSimulated
	}

	covered := src.HoursCovered()
	times := make([]time.Time, 0, len(f.balloons)*(f.numSteps+1))
	for i := range f.balloons {
		b := &f.balloons[i]
		inSpan := len(b.Trajectory) == 0 || b.Trajectory[len(b.Trajectory)-1].Hour < covered
		for _, p := range b.Trajectory {
			if inSpan {
				times = append(times, src.TimestampForHour(p.Hour))
			} else {
				times = append(times, time.Time{})
			}
		}
	}
	return times, nil
}

// Coverage marks every balloon's footprint onto grid, stepping through the
// horizon in time order so later visits overwrite earlier ones. markEvery
// thins the walk to every k-th step (minimum 1). The cell value written is
// the sample hour plus one, keeping hour zero distinct from uncovered cells.
//
// All marking happens on the calling goroutine: the grid has exactly one
// writer for the duration of the call.
func (f *Fleet) Coverage(a *coverage.Analyzer, grid [][]float64, markEvery int) error {
	if !f.simulated {
		return ErrNotSimulated
	}
	if markEvery < 1 {
		markEvery = 1
	}

	for step := 0; step <= f.numSteps; step += markEvery {
		for i := range f.balloons {
			p := f.balloons[i].Trajectory[step]
			if err := a.Mark(p.Lat, p.Lon, grid, float64(p.Hour)+1); err != nil {
				return err
			}
		}
	}
	return nil
}
