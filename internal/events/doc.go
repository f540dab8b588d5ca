// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

// Package events provides the in-process event pipeline built on Watermill.
//
// Simulation runs publish position batches and lifecycle transitions onto a
// gochannel pub/sub (Bus). A Router with panic recovery and exponential
// backoff retry dispatches them to consumer handlers: the coverage
// accumulator, the WebSocket broadcast forwarder, and (when built with the
// nats tag) a JetStream mirror that replicates the stream to external
// consumers.
//
// Handlers signal failure semantics through error types: a RetryableError
// nacks the message and lets the retry middleware back off, while a
// PermanentError is logged and dropped, since the in-process channel would
// otherwise redeliver an unprocessable message forever.
package events
