// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package fleet

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/driftlabs/stratodrift/internal/trajectory"
)

// Simulate computes a trajectory for every balloon over numSteps hourly
// steps. startHours offsets each balloon's wind sampling; nil means all
// balloons start at hour zero, any other length must equal the fleet size.
// workers bounds the pool, defaulting to the CPU count when non-positive.
//
// Balloon trajectories are independent given an immutable wind field, so the
// pool hands out balloon indices over a channel and each worker writes only
// the slots it claimed. Results are identical for any worker count.
func (f *Fleet) Simulate(ctx context.Context, integ *trajectory.Integrator, numSteps int, startHours []int, workers int) error {
	if numSteps < 0 {
		return fmt.Errorf("fleet: numSteps %d must be non-negative", numSteps)
	}
	if len(startHours) != 0 && len(startHours) != len(f.balloons) {
		return fmt.Errorf("fleet: %d start hours for %d balloons: %w",
			len(startHours), len(f.balloons), ErrStartHoursMismatch)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(f.balloons) {
		workers = len(f.balloons)
	}

	f.simulated = false

	jobs := make(chan int)
	errs := make(chan error, len(f.balloons))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				b := &f.balloons[i]
				start := 0
				if len(startHours) > 0 {
					start = startHours[i]
				}
				points, err := integ.Integrate(ctx, b.LaunchLat, b.LaunchLon, numSteps, start)
				if err != nil {
					errs <- fmt.Errorf("fleet: balloon %s: %w", b.ID, err)
					continue
				}
				b.Trajectory = points
			}
		}()
	}

feed:
	for i := range f.balloons {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(errs)

	var failures []error
	for err := range errs {
		failures = append(failures, err)
	}
	if len(failures) > 0 {
		return errors.Join(failures...)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.simulated = true
	f.numSteps = numSteps
	return nil
}
