// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	json "github.com/goccy/go-json"

	"github.com/driftlabs/stratodrift/internal/metrics"
	"github.com/driftlabs/stratodrift/internal/models"
)

// BusConfig holds settings for the in-process pub/sub.
type BusConfig struct {
	// BufferSize is the per-subscriber output channel buffer. Publishing
	// blocks once a subscriber falls this far behind, which backpressures
	// the simulation instead of growing memory without bound.
	BufferSize int64
}

// DefaultBusConfig returns production defaults.
func DefaultBusConfig() BusConfig {
	return BusConfig{BufferSize: 256}
}

// Bus is the in-process event transport. It wraps a Watermill gochannel
// pub/sub and serializes domain events to JSON payloads.
//
// Subscriptions are not persistent: events published before a subscriber
// attaches are not replayed, so the router must be running before the first
// run launches.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

// NewBus creates the in-process pub/sub.
func NewBus(cfg BusConfig, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = NewLoggerAdapter()
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBusConfig().BufferSize
	}

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.BufferSize,
	}, logger)

	return &Bus{
		pubsub: pubsub,
		logger: logger,
	}
}

// Subscriber returns the subscriber side for router handler registration.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Publisher returns the raw publisher side. Most callers should use the
// typed Publish helpers instead.
func (b *Bus) Publisher() message.Publisher {
	return b.pubsub
}

// Publish serializes v and publishes it on topic. It blocks while any
// subscriber's buffer is full, propagating backpressure to the caller.
func (b *Bus) Publish(ctx context.Context, topic string, v any) error {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return ErrBusClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	metrics.EventsPublished.WithLabelValues(topic).Inc()
	return nil
}

// PublishPositions publishes a per-balloon position batch.
func (b *Bus) PublishPositions(ctx context.Context, ev *models.PositionEvent) error {
	return b.Publish(ctx, models.TopicPositions, ev)
}

// PublishRunStatus publishes a run lifecycle transition, stamping the event
// time if the caller left it zero.
func (b *Bus) PublishRunStatus(ctx context.Context, ev *models.RunStatusEvent) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	return b.Publish(ctx, models.TopicRunStatus, ev)
}

// Close shuts down the pub/sub. In-flight subscribers receive channel close.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	return b.pubsub.Close()
}
