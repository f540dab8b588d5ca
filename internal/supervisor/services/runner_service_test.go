// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

type mockRunner struct {
	runCount atomic.Int32
	err      error
}

func (m *mockRunner) Run(ctx context.Context) error {
	m.runCount.Add(1)
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestRunnerService_Interface(t *testing.T) {
	var _ suture.Service = (*RunnerService)(nil)
}

func TestRunnerService_Serve(t *testing.T) {
	t.Run("runs until context cancellation", func(t *testing.T) {
		runner := &mockRunner{}
		svc := NewRunnerService("websocket-hub", runner)

		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		deadline := time.Now().Add(time.Second)
		for runner.runCount.Load() == 0 && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		if runner.runCount.Load() == 0 {
			t.Fatal("runner was not started")
		}

		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Error("Serve did not return after cancellation")
		}
	})

	t.Run("propagates the runner's error", func(t *testing.T) {
		wantErr := errors.New("subscriber closed")
		runner := &mockRunner{err: wantErr}
		svc := NewRunnerService("event-router", runner)

		if err := svc.Serve(context.Background()); !errors.Is(err, wantErr) {
			t.Errorf("expected %v, got %v", wantErr, err)
		}
	})
}

func TestRunnerService_String(t *testing.T) {
	svc := NewRunnerService("event-router", &mockRunner{})
	if svc.String() != "event-router" {
		t.Errorf("expected 'event-router', got %q", svc.String())
	}
}
