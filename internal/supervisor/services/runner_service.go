// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package services

import "context"

// Runner is a component with a blocking, context-driven run loop. Satisfied
// by websocket.Hub and events.Router.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerService adapts a Runner to suture.Service, contributing nothing but
// the delegation and a stable name for supervisor logs.
type RunnerService struct {
	name   string
	runner Runner
}

// NewRunnerService wraps runner under the given supervisor log name.
func NewRunnerService(name string, runner Runner) *RunnerService {
	return &RunnerService{name: name, runner: runner}
}

// Serve implements suture.Service.
func (s *RunnerService) Serve(ctx context.Context) error {
	return s.runner.Run(ctx)
}

// String names the service in supervisor logs.
func (s *RunnerService) String() string { return s.name }
