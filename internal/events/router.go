// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/driftlabs/stratodrift/internal/metrics"
)

// RouterConfig holds Watermill Router settings.
type RouterConfig struct {
	// CloseTimeout bounds how long Close waits for in-flight handlers.
	CloseTimeout time.Duration

	// RetryMaxRetries is the retry budget per delivery attempt. The
	// gochannel transport redelivers nacked messages, so transient
	// failures are retried indefinitely with bounded backoff.
	RetryMaxRetries int

	// RetryInitialInterval is the first backoff delay.
	RetryInitialInterval time.Duration

	// RetryMaxInterval caps the backoff delay.
	RetryMaxInterval time.Duration

	// RetryMultiplier is the backoff growth factor.
	RetryMultiplier float64
}

// DefaultRouterConfig returns production defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      5,
		RetryInitialInterval: time.Second,
		RetryMaxInterval:     time.Minute,
		RetryMultiplier:      2.0,
	}
}

// Router dispatches bus messages to consumer handlers with panic recovery
// and exponential backoff retry.
type Router struct {
	router   *message.Router
	config   RouterConfig
	logger   watermill.LoggerAdapter
	handlers map[string]*message.Handler
}

// NewRouter creates a Watermill Router with the middleware stack
// pre-configured:
//
//  1. Recoverer converts handler panics into errors.
//  2. Retry backs off and redelivers on transient failures.
//  3. Permanent failures are acked and dropped with a log line.
func NewRouter(cfg *RouterConfig, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = NewLoggerAdapter()
	}
	if cfg == nil {
		defaultCfg := DefaultRouterConfig()
		cfg = &defaultCfg
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	r := &Router{
		router:   wmRouter,
		config:   *cfg,
		logger:   logger,
		handlers: make(map[string]*message.Handler),
	}

	wmRouter.AddMiddleware(middleware.Recoverer)

	retryMiddleware := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      cfg.RetryMultiplier,
		Logger:          logger,
	}
	wmRouter.AddMiddleware(retryMiddleware.Middleware)

	// Innermost so permanent errors never reach the retry middleware.
	wmRouter.AddMiddleware(dropPermanent(logger))

	return r, nil
}

// AddConsumerHandler registers a handler that consumes from topic without
// producing output messages. The handler is instrumented with processing
// metrics under its name.
func (r *Router) AddConsumerHandler(
	name string,
	topic string,
	subscriber message.Subscriber,
	handler message.NoPublishHandlerFunc,
) *message.Handler {
	h := r.router.AddConsumerHandler(
		name,
		topic,
		subscriber,
		instrumentHandler(name, topic, handler),
	)
	r.handlers[name] = h
	return h
}

// Run starts the router and blocks until the context is canceled or Close
// is called. All registered handlers begin processing messages.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running returns a channel that closes once all handlers are subscribed.
// Publishers must wait for it before the first publish: gochannel
// subscriptions do not replay earlier messages.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// Close gracefully stops the router, waiting up to CloseTimeout for
// in-flight messages.
func (r *Router) Close() error {
	return r.router.Close()
}

// instrumentHandler wraps a consumer handler with duration and throughput
// metrics keyed by handler name and subscribe topic.
func instrumentHandler(name, topic string, h message.NoPublishHandlerFunc) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		start := time.Now()
		err := h(msg)
		metrics.EventProcessingDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if err == nil {
			metrics.EventsProcessed.WithLabelValues(topic, name).Inc()
		}
		return err
	}
}

// dropPermanent acks messages whose handler failed with a PermanentError.
// Retrying cannot fix a malformed payload, and the in-process channel
// redelivers nacked messages forever.
func dropPermanent(logger watermill.LoggerAdapter) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			msgs, err := h(msg)
			if err != nil && IsPermanentError(err) {
				logger.Error("dropping message after permanent failure", err, watermill.LogFields{
					"message_uuid": msg.UUID,
				})
				return nil, nil
			}
			return msgs, err
		}
	}
}
