// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/driftlabs/stratodrift/internal/auth"
	"github.com/driftlabs/stratodrift/internal/config"
	"github.com/driftlabs/stratodrift/internal/logging"
	"github.com/driftlabs/stratodrift/internal/middleware"
	"github.com/driftlabs/stratodrift/internal/sim"
	"github.com/driftlabs/stratodrift/internal/store"
	"github.com/driftlabs/stratodrift/internal/wind"
	ws "github.com/driftlabs/stratodrift/internal/websocket"
)

// version is reported by the health endpoints and the swagger doc.
const version = "1.0.0"

// WindSource is the wind-field view the handlers need: the current field for
// status reporting and a manual sync trigger. *wind.Manager implements it.
type WindSource interface {
	Current() *wind.Field
	LoadedAt() time.Time
	Sync(ctx context.Context) error
}

// Handler carries the dependencies for all HTTP handlers.
//
// Handler methods are split across files by endpoint group:
//   - handlers.go: struct, constructor, WebSocket upgrade (this file)
//   - handlers_health.go: liveness, readiness, full health, performance
//   - handlers_auth.go: API-key to JWT exchange
//   - handlers_wind.go: wind field status and manual sync
//   - handlers_runs.go: launch, list, detail, trajectories, coverage,
//     cancel, delete
//   - handlers_export.go: trajectory and coverage file downloads
type Handler struct {
	store     *store.Store
	sim       *sim.Service
	winds     WindSource
	hub       *ws.Hub
	tokens    *auth.Manager // nil when auth is disabled
	config    *config.Config
	perfMon   *middleware.PerformanceMonitor
	startTime time.Time
}

// NewHandler creates the API handler. tokens may be nil when authentication
// is disabled; protected routes are then registered without the middleware.
func NewHandler(st *store.Store, simSvc *sim.Service, winds WindSource, hub *ws.Hub, tokens *auth.Manager, cfg *config.Config) *Handler {
	return &Handler{
		store:     st,
		sim:       simSvc,
		winds:     winds,
		hub:       hub,
		tokens:    tokens,
		config:    cfg,
		perfMon:   middleware.NewPerformanceMonitor(1000),
		startTime: time.Now(),
	}
}

// PerformanceMonitor exposes the request-latency monitor for router wiring.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}

// getUpgrader creates the WebSocket upgrader. The handshake timeout guards
// against clients that open the TCP connection and stall.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates the Origin header against the configured
// CORS origins. Browser WebSockets always send Origin; an absent header
// means a non-browser client sidestepping CORS, which is rejected rather
// than silently allowed.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	// Fail open without config so handler tests can dial directly.
	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Server.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().
		Str("origin", sanitizeLogValue(origin)).
		Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// WebSocket upgrades the connection and attaches it to the hub, which then
// streams position batches and run-status events until the client leaves.
//
// @Summary WebSocket live feed
// @Description Upgrades to a WebSocket carrying position_batch and run_status messages as simulations progress
// @Tags Live
// @Success 101 {string} string "Switching Protocols"
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logging.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()
}
