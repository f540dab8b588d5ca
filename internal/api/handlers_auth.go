// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/driftlabs/stratodrift/internal/logging"
	"github.com/driftlabs/stratodrift/internal/models"
	"github.com/driftlabs/stratodrift/internal/validation"
)

// Token exchanges the configured API key for a signed bearer token.
//
// Failures are deliberately uniform: a wrong key and a malformed key both
// produce the same 401, so the endpoint leaks nothing about which part of
// the credential check failed.
//
// @Summary Exchange an API key for a JWT
// @Description Compares the presented key against the configured bcrypt hash and issues a short-lived HS256 bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.TokenRequest true "API key"
// @Success 200 {object} models.APIResponse{data=models.TokenResponse}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Router /auth/token [post]
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	if h.tokens == nil {
		respondError(w, http.StatusServiceUnavailable, codeUnavailable,
			"Authentication is not enabled on this server", nil)
		return
	}

	var req models.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "Invalid JSON body", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	if err := h.tokens.VerifyAPIKey(req.APIKey); err != nil {
		logging.Warn().Msg("Token exchange rejected: API key mismatch")
		respondError(w, http.StatusUnauthorized, codeAuthentication,
			"Invalid API key", nil)
		return
	}

	token, expiresAt, err := h.tokens.IssueToken("operator")
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal,
			"Failed to issue token", err)
		return
	}

	respondSuccess(w, http.StatusOK, models.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}, 0)
}
