// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/driftlabs/stratodrift/internal/models"
)

const testWait = 5 * time.Second

func newTestBus(t *testing.T) *Bus {
	t.Helper()

	bus := NewBus(DefaultBusConfig(), watermill.NopLogger{})
	t.Cleanup(func() {
		if err := bus.Close(); err != nil {
			t.Errorf("close bus: %v", err)
		}
	})
	return bus
}

func newTestRouter(t *testing.T, cfg *RouterConfig) *Router {
	t.Helper()

	router, err := NewRouter(cfg, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	t.Cleanup(func() {
		if err := router.Close(); err != nil {
			t.Errorf("close router: %v", err)
		}
	})
	return router
}

// startRouter runs the router in the background and blocks until all
// handlers are subscribed, so publishes are not lost to the non-persistent
// channel.
func startRouter(t *testing.T, router *Router) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		if err := router.Run(ctx); err != nil {
			t.Logf("router run: %v", err)
		}
	}()

	select {
	case <-router.Running():
	case <-time.After(testWait):
		t.Fatal("router did not start within timeout")
	}
}

func testPositionEvent() *models.PositionEvent {
	return &models.PositionEvent{
		RunID:     uuid.New(),
		BalloonID: "B0001",
		Window:    0,
		Points: []models.PositionPoint{
			{Hour: 0, Lat: 10.0, Lon: -120.0},
			{Hour: 1, Lat: 10.2, Lon: -119.5},
		},
		EndOfWindow: true,
	}
}

func TestBusPublishSubscribe(t *testing.T) {
	bus := newTestBus(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	msgs, err := bus.Subscriber().Subscribe(ctx, models.TopicPositions)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	want := testPositionEvent()
	if err := bus.PublishPositions(ctx, want); err != nil {
		t.Fatalf("PublishPositions() error = %v", err)
	}

	select {
	case msg := <-msgs:
		var got models.PositionEvent
		if err := json.Unmarshal(msg.Payload, &got); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		msg.Ack()

		if got.RunID != want.RunID {
			t.Errorf("RunID = %s, want %s", got.RunID, want.RunID)
		}
		if got.BalloonID != want.BalloonID {
			t.Errorf("BalloonID = %q, want %q", got.BalloonID, want.BalloonID)
		}
		if len(got.Points) != len(want.Points) {
			t.Errorf("Points count = %d, want %d", len(got.Points), len(want.Points))
		}
		if !got.EndOfWindow {
			t.Error("EndOfWindow not preserved")
		}
	case <-time.After(testWait):
		t.Fatal("no message received within timeout")
	}
}

func TestBusPublishRunStatusStampsTimestamp(t *testing.T) {
	bus := newTestBus(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	msgs, err := bus.Subscriber().Subscribe(ctx, models.TopicRunStatus)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	ev := &models.RunStatusEvent{
		RunID:  uuid.New(),
		Status: models.RunRunning,
	}
	if err := bus.PublishRunStatus(ctx, ev); err != nil {
		t.Fatalf("PublishRunStatus() error = %v", err)
	}
	if ev.Timestamp.IsZero() {
		t.Error("Timestamp not stamped on publish")
	}

	select {
	case msg := <-msgs:
		var got models.RunStatusEvent
		if err := json.Unmarshal(msg.Payload, &got); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		msg.Ack()
		if got.Timestamp.IsZero() {
			t.Error("received event has zero timestamp")
		}
	case <-time.After(testWait):
		t.Fatal("no message received within timeout")
	}
}

func TestBusClosed(t *testing.T) {
	bus := NewBus(DefaultBusConfig(), watermill.NopLogger{})

	if err := bus.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}

	err := bus.PublishPositions(context.Background(), testPositionEvent())
	if !errors.Is(err, ErrBusClosed) {
		t.Errorf("publish after close error = %v, want ErrBusClosed", err)
	}
}

func TestRouterDeliversToHandler(t *testing.T) {
	bus := newTestBus(t)
	router := newTestRouter(t, nil)

	received := make(chan models.PositionEvent, 8)
	router.AddConsumerHandler("test-consumer", models.TopicPositions, bus.Subscriber(),
		func(msg *message.Message) error {
			var ev models.PositionEvent
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				return NewPermanentError("parse position event", err)
			}
			received <- ev
			return nil
		})

	startRouter(t, router)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ev := testPositionEvent()
		ev.BalloonID = fmt.Sprintf("B%04d", i)
		if err := bus.PublishPositions(ctx, ev); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}

	got := make(map[string]bool)
	for i := 0; i < 3; i++ {
		select {
		case ev := <-received:
			got[ev.BalloonID] = true
		case <-time.After(testWait):
			t.Fatalf("received %d of 3 events within timeout", i)
		}
	}
	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("B%04d", i)
		if !got[id] {
			t.Errorf("missing event for balloon %s", id)
		}
	}
}

func TestRouterRetriesTransientFailures(t *testing.T) {
	bus := newTestBus(t)

	cfg := DefaultRouterConfig()
	cfg.RetryInitialInterval = 5 * time.Millisecond
	cfg.RetryMaxInterval = 20 * time.Millisecond
	router := newTestRouter(t, &cfg)

	var attempts atomic.Int64
	done := make(chan struct{})
	router.AddConsumerHandler("flaky-consumer", models.TopicRunStatus, bus.Subscriber(),
		func(msg *message.Message) error {
			if attempts.Add(1) == 1 {
				return NewRetryableError("transient store failure", errors.New("connection reset"))
			}
			close(done)
			return nil
		})

	startRouter(t, router)

	ev := &models.RunStatusEvent{RunID: uuid.New(), Status: models.RunCompleted}
	if err := bus.PublishRunStatus(context.Background(), ev); err != nil {
		t.Fatalf("PublishRunStatus() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(testWait):
		t.Fatal("handler did not succeed within timeout")
	}
	if n := attempts.Load(); n < 2 {
		t.Errorf("attempts = %d, want at least 2", n)
	}
}

func TestRouterDropsPermanentFailures(t *testing.T) {
	bus := newTestBus(t)
	router := newTestRouter(t, nil)

	var badAttempts atomic.Int64
	goodDone := make(chan struct{})
	router.AddConsumerHandler("strict-consumer", models.TopicPositions, bus.Subscriber(),
		func(msg *message.Message) error {
			var ev models.PositionEvent
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				return NewPermanentError("parse position event", err)
			}
			if ev.BalloonID == "bad" {
				badAttempts.Add(1)
				return NewPermanentError("unprocessable batch", nil)
			}
			close(goodDone)
			return nil
		})

	startRouter(t, router)

	ctx := context.Background()
	bad := testPositionEvent()
	bad.BalloonID = "bad"
	if err := bus.PublishPositions(ctx, bad); err != nil {
		t.Fatalf("publish bad event: %v", err)
	}
	good := testPositionEvent()
	if err := bus.PublishPositions(ctx, good); err != nil {
		t.Fatalf("publish good event: %v", err)
	}

	// The good event arriving proves the bad one was acked, not redelivered.
	select {
	case <-goodDone:
	case <-time.After(testWait):
		t.Fatal("pipeline wedged after permanent failure")
	}
	if n := badAttempts.Load(); n != 1 {
		t.Errorf("bad event attempts = %d, want 1 (no retries)", n)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantRetryable bool
		wantPermanent bool
	}{
		{
			name:          "retryable",
			err:           NewRetryableError("store down", errors.New("dial tcp")),
			wantRetryable: true,
		},
		{
			name:          "permanent",
			err:           NewPermanentError("bad payload", nil),
			wantPermanent: true,
		},
		{
			name:          "wrapped retryable",
			err:           fmt.Errorf("handler: %w", NewRetryableError("busy", nil)),
			wantRetryable: true,
		},
		{
			name:          "wrapped permanent",
			err:           fmt.Errorf("handler: %w", NewPermanentError("bad", errors.New("eof"))),
			wantPermanent: true,
		},
		{
			name: "plain error",
			err:  errors.New("plain"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err); got != tt.wantRetryable {
				t.Errorf("IsRetryableError() = %v, want %v", got, tt.wantRetryable)
			}
			if got := IsPermanentError(tt.err); got != tt.wantPermanent {
				t.Errorf("IsPermanentError() = %v, want %v", got, tt.wantPermanent)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")

	retryable := NewRetryableError("transient", cause)
	if !errors.Is(retryable, cause) {
		t.Error("RetryableError does not unwrap to cause")
	}
	if want := "transient: root cause"; retryable.Error() != want {
		t.Errorf("Error() = %q, want %q", retryable.Error(), want)
	}

	permanent := NewPermanentError("fatal", nil)
	if permanent.Error() != "fatal" {
		t.Errorf("Error() = %q, want %q", permanent.Error(), "fatal")
	}
}

type capturedBroadcast struct {
	topic   string
	payload []byte
}

type captureHub struct {
	mu        sync.Mutex
	broadcast []capturedBroadcast
	received  chan struct{}
}

func newCaptureHub() *captureHub {
	return &captureHub{received: make(chan struct{}, 16)}
}

func (h *captureHub) BroadcastRaw(topic string, data []byte) {
	h.mu.Lock()
	h.broadcast = append(h.broadcast, capturedBroadcast{topic: topic, payload: data})
	h.mu.Unlock()
	h.received <- struct{}{}
}

func (h *captureHub) snapshot() []capturedBroadcast {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]capturedBroadcast(nil), h.broadcast...)
}

func TestBroadcastHandler(t *testing.T) {
	if _, err := NewBroadcastHandler(nil); err == nil {
		t.Error("NewBroadcastHandler(nil) should error")
	}

	bus := newTestBus(t)
	router := newTestRouter(t, nil)

	hub := newCaptureHub()
	handler, err := NewBroadcastHandler(hub)
	if err != nil {
		t.Fatalf("NewBroadcastHandler() error = %v", err)
	}
	router.AddConsumerHandler("ws-forwarder", models.TopicRunStatus, bus.Subscriber(), handler.Handle)

	startRouter(t, router)

	status := &models.RunStatusEvent{
		RunID:     uuid.New(),
		Status:    "running",
		Fraction:  0.42,
		Timestamp: time.Now().UTC(),
	}
	if err := bus.PublishRunStatus(context.Background(), status); err != nil {
		t.Fatalf("PublishRunStatus() error = %v", err)
	}

	select {
	case <-hub.received:
	case <-time.After(testWait):
		t.Fatal("broadcast not received within timeout")
	}

	got := hub.snapshot()
	if len(got) != 1 {
		t.Fatalf("broadcast count = %d, want 1", len(got))
	}
	if got[0].topic != models.TopicRunStatus {
		t.Errorf("broadcast topic = %q, want %q", got[0].topic, models.TopicRunStatus)
	}

	var event models.RunStatusEvent
	if err := json.Unmarshal(got[0].payload, &event); err != nil {
		t.Fatalf("unmarshal broadcast payload: %v", err)
	}
	if event.RunID != status.RunID {
		t.Errorf("RunID = %s, want %s", event.RunID, status.RunID)
	}
	if event.Fraction != status.Fraction {
		t.Errorf("Fraction = %v, want %v", event.Fraction, status.Fraction)
	}

	stats := handler.Stats()
	if stats.MessagesReceived != 1 || stats.MessagesBroadcast != 1 {
		t.Errorf("stats = %+v, want 1 received and 1 broadcast", stats)
	}
}

func TestLoggerAdapter(t *testing.T) {
	logger := NewLoggerAdapter()

	child := logger.With(watermill.LogFields{"topic": "sim.positions"})
	if child == nil {
		t.Fatal("With() returned nil")
	}

	// Exercise every level; none may panic with or without fields.
	child.Error("publish failed", errors.New("boom"), watermill.LogFields{"n": 1})
	child.Info("subscribed", nil)
	child.Debug("delivering", watermill.LogFields{"uuid": "x"})
	child.Trace("ack", nil)
}
