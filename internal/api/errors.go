// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package api

import (
	"errors"
	"net/http"

	"github.com/driftlabs/stratodrift/internal/sim"
	"github.com/driftlabs/stratodrift/internal/store"
)

// respondDomainError translates sentinel errors from the sim and store
// layers into HTTP responses. Anything unmapped is a 500 with the details
// kept server-side.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrRunNotFound):
		respondError(w, http.StatusNotFound, codeNotFound, "Run not found", nil)

	case errors.Is(err, store.ErrNoCoverage):
		respondError(w, http.StatusConflict, codeNotSimulated,
			"Run has not recorded coverage results yet", nil)

	case errors.Is(err, sim.ErrWindNotReady):
		respondError(w, http.StatusServiceUnavailable, codeWindUnavailable,
			"No wind field loaded yet; try again after the next sync", nil)

	case errors.Is(err, sim.ErrInvalidLaunch):
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)

	case errors.Is(err, sim.ErrFleetTooLarge):
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)

	case errors.Is(err, sim.ErrHorizonTooLong):
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)

	case errors.Is(err, sim.ErrRunNotActive):
		respondError(w, http.StatusConflict, codeConflict,
			"Run is not active; only pending or running runs can be canceled", nil)

	case errors.Is(err, sim.ErrRunActive):
		respondError(w, http.StatusConflict, codeConflict,
			"Run is still active; cancel it before deleting", nil)

	case errors.Is(err, sim.ErrShuttingDown):
		respondError(w, http.StatusServiceUnavailable, codeUnavailable,
			"Service is shutting down", nil)

	default:
		respondError(w, http.StatusInternalServerError, codeInternal,
			"Internal server error", err)
	}
}
