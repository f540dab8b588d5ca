// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/driftlabs/stratodrift/internal/models"
	"github.com/driftlabs/stratodrift/internal/wind"
)

// windStatus builds the status document for the currently loaded field.
func (h *Handler) windStatus() models.WindStatus {
	if h.winds == nil {
		return models.WindStatus{}
	}
	field := h.winds.Current()
	if field == nil {
		return models.WindStatus{}
	}

	height, width := field.GridSize()
	status := models.WindStatus{
		Loaded:        true,
		GridHeight:    height,
		GridWidth:     width,
		TimeSlices:    field.NumTimes(),
		Level:         field.Level(),
		Interpolation: string(field.Mode()),
	}

	if n := field.NumTimes(); n > 0 {
		start := field.TimeAt(0)
		end := field.TimeAt(n - 1)
		status.StartTime = &start
		status.EndTime = &end
	}
	if loadedAt := h.winds.LoadedAt(); !loadedAt.IsZero() {
		status.LoadedAt = &loadedAt
	}

	return status
}

// WindStatus reports the loaded wind field: grid shape, pressure level, time
// range, and interpolation mode.
//
// @Summary Wind field status
// @Description Returns the loaded wind field's grid shape, pressure level, covered time range, and interpolation mode
// @Tags Wind
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.WindStatus}
// @Router /wind [get]
func (h *Handler) WindStatus(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, h.windStatus(), 0)
}

// WindSync triggers a fetch-and-reload cycle and reports the resulting
// field. Runs synchronously: the caller learns whether the reload produced a
// usable field.
//
// @Summary Trigger a wind sync
// @Description Fetches missing archives when fetching is configured, reloads the data directory, and returns the new field status
// @Tags Wind
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.WindStatus}
// @Failure 409 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Security BearerAuth
// @Router /wind/sync [post]
func (h *Handler) WindSync(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.winds.Sync(r.Context()); err != nil {
		if errors.Is(err, wind.ErrNoWindData) {
			respondError(w, http.StatusConflict, codeWindUnavailable,
				"No wind archives found in the data directory", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal,
			"Wind sync failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, h.windStatus(), time.Since(start))
}
