// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package api

import (
	"net/http"
	"time"

	"github.com/driftlabs/stratodrift/internal/models"
)

// HealthLive reports process liveness regardless of dependencies.
//
// @Summary Liveness probe
// @Description Returns 200 whenever the process can serve requests, regardless of store or wind state
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	}, 0)
}

// HealthReady reports readiness to serve traffic: the store answers pings
// and a wind field is loaded. Returns 503 until both hold, so orchestrators
// do not route launch traffic to an instance that would refuse it.
//
// @Summary Readiness probe
// @Description Returns 200 once the run store responds and a wind field is loaded, 503 otherwise
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	storeConnected := h.store != nil && h.store.Ping(r.Context()) == nil
	windLoaded := h.winds != nil && h.winds.Current() != nil
	ready := storeConnected && windLoaded

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, &models.APIResponse{
		Status: readyLabel(ready),
		Data: map[string]interface{}{
			"store_connected": storeConnected,
			"wind_loaded":     windLoaded,
			"ready_to_serve":  ready,
			"uptime_seconds":  time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

func readyLabel(ready bool) string {
	if ready {
		return "ready"
	}
	return "not_ready"
}

// Health returns the full health document: dependency states, the loaded
// wind field, active run count, and connected WebSocket clients.
//
// @Summary Full health document
// @Description Returns dependency states, wind field summary, active runs, and connected clients
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	storeConnected := h.store != nil && h.store.Ping(r.Context()) == nil
	windStatus := h.windStatus()

	status := "healthy"
	if !storeConnected || !windStatus.Loaded {
		status = "degraded"
	}

	health := models.HealthStatus{
		Status:         status,
		Version:        version,
		StoreConnected: storeConnected,
		Wind:           windStatus,
		UptimeSeconds:  time.Since(h.startTime).Seconds(),
	}
	if h.sim != nil {
		health.ActiveRuns = h.sim.ActiveRuns()
	}
	if h.hub != nil {
		health.ConnectedClients = h.hub.GetClientCount()
	}

	respondSuccess(w, http.StatusOK, health, 0)
}

// HealthPerformance returns per-endpoint latency percentiles over the recent
// request window.
//
// @Summary Recent request latency statistics
// @Description Returns per-endpoint request counts and latency percentiles over the last 1000 requests
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /health/performance [get]
func (h *Handler) HealthPerformance(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"endpoints": h.perfMon.Stats(),
	}, 0)
}
