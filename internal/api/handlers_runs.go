// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/driftlabs/stratodrift/internal/models"
	"github.com/driftlabs/stratodrift/internal/validation"
)

// maxListLimit caps list and trajectory page sizes. Trajectory pages are
// the big ones: a full year of hourly samples for one balloon is 8761 rows.
const (
	defaultListLimit       = 50
	maxListLimit           = 500
	defaultTrajectoryLimit = 1000
	maxTrajectoryLimit     = 10000
)

// runID extracts and parses the {id} route parameter. A false return means
// the 400 response has already been written.
func runID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation,
			"Run ID must be a UUID", nil)
		return uuid.UUID{}, false
	}
	return id, true
}

// clampLimit applies the default and ceiling for a page-size parameter.
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// ListRuns returns runs newest-first, optionally filtered by status.
//
// @Summary List runs
// @Description Returns runs newest-first. Filter with ?status=pending|running|completed|failed|canceled, page with ?limit= and ?offset=
// @Tags Runs
// @Produce json
// @Param status query string false "Filter by run status"
// @Param limit query int false "Page size (default 50, max 500)"
// @Param offset query int false "Page offset"
// @Success 200 {object} models.APIResponse{data=[]models.Run}
// @Router /runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !validRunStatus(status) {
		respondError(w, http.StatusBadRequest, codeValidation,
			"Unknown status filter; expected pending, running, completed, failed, or canceled", nil)
		return
	}

	limit := clampLimit(getIntParam(r, "limit", defaultListLimit), defaultListLimit, maxListLimit)
	offset := getIntParam(r, "offset", 0)

	start := time.Now()
	runs, err := h.store.ListRuns(r.Context(), status, limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"runs":   runs,
		"count":  len(runs),
		"limit":  limit,
		"offset": offset,
	}, time.Since(start))
}

func validRunStatus(status string) bool {
	switch models.RunStatus(status) {
	case models.RunPending, models.RunRunning, models.RunCompleted,
		models.RunFailed, models.RunCanceled:
		return true
	}
	return false
}

// LaunchRun validates a launch request and starts the run asynchronously.
// The response is 202 with the pending run document; progress streams over
// the WebSocket feed and lands in the run detail endpoint.
//
// @Summary Launch a simulation run
// @Description Validates the request, creates the run, and simulates it in the background. Returns 202 with the pending run
// @Tags Runs
// @Accept json
// @Produce json
// @Param request body models.LaunchRequest true "Launch parameters"
// @Success 202 {object} models.APIResponse{data=models.Run}
// @Failure 400 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Security BearerAuth
// @Router /runs [post]
func (h *Handler) LaunchRun(w http.ResponseWriter, r *http.Request) {
	var req models.LaunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "Invalid JSON body", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	run, err := h.sim.Launch(r.Context(), &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/runs/"+run.ID.String())
	respondSuccess(w, http.StatusAccepted, run, 0)
}

// GetRun returns one run with its coverage summary when completed.
//
// @Summary Get run detail
// @Description Returns the run document including frozen config, lifecycle timestamps, and the coverage summary once completed
// @Tags Runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} models.APIResponse{data=models.Run}
// @Failure 404 {object} models.APIResponse
// @Router /runs/{id} [get]
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(w, r)
	if !ok {
		return
	}

	start := time.Now()
	run, err := h.store.GetRun(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, run, time.Since(start))
}

// RunTrajectories returns a page of a run's trajectory samples.
//
// @Summary Get run trajectories
// @Description Returns trajectory samples ordered by balloon then step. Filter with ?balloon_id=, page with ?limit= and ?offset=
// @Tags Runs
// @Produce json
// @Param id path string true "Run ID"
// @Param balloon_id query string false "Filter to one balloon"
// @Param limit query int false "Page size (default 1000, max 10000)"
// @Param offset query int false "Page offset"
// @Success 200 {object} models.APIResponse{data=[]models.TrajectoryPoint}
// @Failure 404 {object} models.APIResponse
// @Router /runs/{id}/trajectories [get]
func (h *Handler) RunTrajectories(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(w, r)
	if !ok {
		return
	}

	balloonID := r.URL.Query().Get("balloon_id")
	limit := clampLimit(getIntParam(r, "limit", defaultTrajectoryLimit), defaultTrajectoryLimit, maxTrajectoryLimit)
	offset := getIntParam(r, "offset", 0)

	start := time.Now()
	// Resolve the run first so a missing ID is a 404, not an empty page.
	if _, err := h.store.GetRun(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}

	points, err := h.store.Trajectories(r.Context(), id, balloonID, limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	total, err := h.store.TrajectoryPointCount(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"points": points,
		"count":  len(points),
		"total":  total,
		"limit":  limit,
		"offset": offset,
	}, time.Since(start))
}

// RunCoverage returns a run's coverage summary and fraction time series.
// Completed runs are served from the checkpoint snapshot when one exists,
// skipping the DuckDB round trip.
//
// @Summary Get run coverage
// @Description Returns the coverage summary (area-weighted percent, cell counts, visit-hour spread) and the fraction time series
// @Tags Runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} models.APIResponse{data=models.CoverageSummary}
// @Failure 404 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /runs/{id}/coverage [get]
func (h *Handler) RunCoverage(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(w, r)
	if !ok {
		return
	}

	start := time.Now()
	summary, err := h.sim.Coverage(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, summary, time.Since(start))
}

// CancelRun requests cancellation of an active run. The transition is
// asynchronous: the run may briefly still read as running while the
// simulation goroutine unwinds.
//
// @Summary Cancel a run
// @Description Requests cancellation of a pending or running run. Returns 202; the terminal state lands shortly after
// @Tags Runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 202 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Security BearerAuth
// @Router /runs/{id}/cancel [post]
func (h *Handler) CancelRun(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(w, r)
	if !ok {
		return
	}

	if err := h.sim.Cancel(r.Context(), id); err != nil {
		// Distinguish "never existed" from "exists but not active".
		if _, getErr := h.store.GetRun(r.Context(), id); getErr != nil {
			respondDomainError(w, getErr)
			return
		}
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusAccepted, map[string]interface{}{
		"id":     id,
		"status": "canceling",
	}, 0)
}

// DeleteRun removes a run and all its stored results. Active runs must be
// canceled first.
//
// @Summary Delete a run
// @Description Deletes the run row, its trajectory samples, coverage results, and checkpoint snapshot
// @Tags Runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Security BearerAuth
// @Router /runs/{id} [delete]
func (h *Handler) DeleteRun(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(w, r)
	if !ok {
		return
	}

	if err := h.sim.Delete(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"id":      id,
		"deleted": true,
	}, 0)
}
