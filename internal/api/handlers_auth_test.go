// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/driftlabs/stratodrift/internal/auth"
	"github.com/driftlabs/stratodrift/internal/config"
	"github.com/driftlabs/stratodrift/internal/models"
)

const testAPIKey = "sd_test_key_4f8a2b91"

// newTokenManager builds a manager whose configured hash matches testAPIKey.
func newTokenManager(t *testing.T) *auth.Manager {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testAPIKey), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt hash: %v", err)
	}

	mgr, err := auth.NewManager(&config.AuthConfig{
		JWTSecret:  "test-secret-with-at-least-32-bytes!",
		APIKeyHash: string(hash),
		TokenTTL:   time.Hour,
		Issuer:     "stratodrift",
		Audience:   "stratodrift-api",
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return mgr
}

func postToken(t *testing.T, handler *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/v1/auth/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.Token(w, req)
	return w
}

// =====================================================
// Token Exchange Tests
// =====================================================

func TestToken_AuthNotEnabled(t *testing.T) {
	t.Parallel()

	handler := NewHandler(nil, nil, nil, nil, nil, nil)

	w := postToken(t, handler, `{"api_key":"`+testAPIKey+`"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
	resp := decodeEnvelope(t, w)
	if resp.Error == nil || resp.Error.Code != "SERVICE_UNAVAILABLE" {
		t.Errorf("error = %+v, want SERVICE_UNAVAILABLE", resp.Error)
	}
}

func TestToken_ValidKeyIssuesUsableToken(t *testing.T) {
	t.Parallel()

	tokens := newTokenManager(t)
	handler := NewHandler(nil, nil, nil, nil, tokens, nil)

	w := postToken(t, handler, `{"api_key":"`+testAPIKey+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var tok models.TokenResponse
	decodeData(t, w, &tok)
	if tok.Token == "" {
		t.Fatal("expected a non-empty token")
	}
	if !tok.ExpiresAt.After(time.Now()) {
		t.Errorf("expires_at = %v, want in the future", tok.ExpiresAt)
	}

	// The issued token must satisfy the gate middleware.
	var reached bool
	gated := tokens.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		if _, ok := auth.ClaimsFromContext(r.Context()); !ok {
			t.Error("expected claims in request context")
		}
	}))

	req := httptest.NewRequest("POST", "/api/v1/runs", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	gated.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !reached {
		t.Errorf("gated request status = %d, reached = %v", rec.Code, reached)
	}
}

func TestToken_WrongKeyRejectedUniformly(t *testing.T) {
	t.Parallel()

	handler := NewHandler(nil, nil, nil, nil, newTokenManager(t), nil)

	for _, key := range []string{"sd_test_key_wrong00", "definitely-not-it"} {
		w := postToken(t, handler, `{"api_key":"`+key+`"}`)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
		resp := decodeEnvelope(t, w)
		if resp.Error == nil || resp.Error.Code != "AUTHENTICATION_ERROR" {
			t.Errorf("error = %+v, want AUTHENTICATION_ERROR", resp.Error)
		}
		if resp.Error != nil && resp.Error.Message != "Invalid API key" {
			t.Errorf("message = %q, want the uniform rejection", resp.Error.Message)
		}
	}
}

func TestToken_MalformedBody(t *testing.T) {
	t.Parallel()

	handler := NewHandler(nil, nil, nil, nil, newTokenManager(t), nil)

	w := postToken(t, handler, `{"api_key": `)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	resp := decodeEnvelope(t, w)
	if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v, want VALIDATION_ERROR", resp.Error)
	}
}

func TestToken_KeyValidation(t *testing.T) {
	t.Parallel()

	handler := NewHandler(nil, nil, nil, nil, newTokenManager(t), nil)

	tests := []struct {
		name string
		body string
	}{
		{"missing api_key", `{}`},
		{"key below minimum length", `{"api_key":"short"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postToken(t, handler, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			resp := decodeEnvelope(t, w)
			if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error = %+v, want VALIDATION_ERROR", resp.Error)
			}
		})
	}
}
