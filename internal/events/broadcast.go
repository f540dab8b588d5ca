// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package events

import (
	"fmt"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Broadcaster is the sink for live event forwarding, implemented by the
// WebSocket hub. The interface keeps this package independent of the hub's
// connection management. The topic tells the hub which client-facing
// message type to wrap the payload in.
type Broadcaster interface {
	// BroadcastRaw sends raw JSON bytes to all connected clients.
	BroadcastRaw(topic string, data []byte)
}

// BroadcastHandler forwards bus payloads verbatim to WebSocket clients.
type BroadcastHandler struct {
	hub Broadcaster

	messagesReceived  atomic.Int64
	messagesBroadcast atomic.Int64
}

// NewBroadcastHandler creates a forwarding handler for the given hub.
func NewBroadcastHandler(hub Broadcaster) (*BroadcastHandler, error) {
	if hub == nil {
		return nil, fmt.Errorf("hub required")
	}
	return &BroadcastHandler{hub: hub}, nil
}

// Handle broadcasts a message to WebSocket clients. It always returns nil:
// a client falling behind must not stall or retry the pipeline.
func (h *BroadcastHandler) Handle(msg *message.Message) error {
	h.messagesReceived.Add(1)

	topic := message.SubscribeTopicFromCtx(msg.Context())
	h.hub.BroadcastRaw(topic, msg.Payload)
	h.messagesBroadcast.Add(1)

	return nil
}

// Stats returns current handler statistics.
func (h *BroadcastHandler) Stats() BroadcastHandlerStats {
	return BroadcastHandlerStats{
		MessagesReceived:  h.messagesReceived.Load(),
		MessagesBroadcast: h.messagesBroadcast.Load(),
	}
}

// BroadcastHandlerStats holds runtime statistics.
type BroadcastHandlerStats struct {
	MessagesReceived  int64
	MessagesBroadcast int64
}
