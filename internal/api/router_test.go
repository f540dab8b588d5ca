// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package api

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/driftlabs/stratodrift/internal/config"
	"github.com/driftlabs/stratodrift/internal/models"
)

// =====================================================
// Fallback Handler Tests
// =====================================================

func TestRouter_NotFoundEnvelope(t *testing.T) {
	env := newAPIEnv(t, false)

	w := env.do(t, "GET", "/api/v1/nonexistent", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	resp := decodeEnvelope(t, w)
	if resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v, want NOT_FOUND", resp.Error)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID on every response")
	}
}

func TestRouter_MethodNotAllowedEnvelope(t *testing.T) {
	env := newAPIEnv(t, false)

	w := env.do(t, "PUT", "/api/v1/wind", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
	resp := decodeEnvelope(t, w)
	if resp.Error == nil || resp.Error.Code != "METHOD_NOT_ALLOWED" {
		t.Errorf("error = %+v, want METHOD_NOT_ALLOWED", resp.Error)
	}
}

// =====================================================
// Observability Route Tests
// =====================================================

func TestRouter_MetricsEndpoint(t *testing.T) {
	env := newAPIEnv(t, false)

	w := env.do(t, "GET", "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "# HELP") {
		t.Error("expected Prometheus exposition format")
	}
}

func TestRouter_SwaggerUI(t *testing.T) {
	env := newAPIEnv(t, false)

	w := env.do(t, "GET", "/swagger/index.html", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

// =====================================================
// Middleware Wiring Tests
// =====================================================

func TestRouter_SecurityAndCORSHeaders(t *testing.T) {
	env := newAPIEnv(t, false)

	req := httptest.NewRequest("GET", "/api/v1/health/live", nil)
	req.Header.Set("Origin", "http://dashboard.example")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestRouter_CompressedJSONGroups(t *testing.T) {
	env := newAPIEnv(t, false)

	req := httptest.NewRequest("GET", "/api/v1/wind", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}

	gz, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	body, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	var resp models.APIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode decompressed body: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}
}

// =====================================================
// Authentication Gating Tests
// =====================================================

// TestRouter_AuthGating assembles a router with a token manager and checks
// that reads stay open while mutations require a bearer token.
func TestRouter_AuthGating(t *testing.T) {
	env := newAPIEnv(t, false)
	tokens := newTokenManager(t)

	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = []string{"*"}
	mwCfg.RateLimitDisabled = true
	gated := NewRouter(env.handler, NewChiMiddleware(mwCfg), tokens).SetupChi()

	do := func(method, path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(`{"balloons":2,"steps":5}`))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		gated.ServeHTTP(w, req)
		return w
	}

	// Reads stay open.
	for _, path := range []string{"/api/v1/health", "/api/v1/wind", "/api/v1/runs"} {
		if w := do("GET", path, ""); w.Code != http.StatusOK {
			t.Errorf("GET %s without token = %d, want %d", path, w.Code, http.StatusOK)
		}
	}

	// Mutations without a token are rejected before the handler runs.
	mutations := []struct {
		method, path string
	}{
		{"POST", "/api/v1/runs"},
		{"POST", "/api/v1/wind/sync"},
		{"GET", "/api/v1/export/runs/not-checked/trajectories.csv"},
	}
	for _, m := range mutations {
		w := do(m.method, m.path, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token = %d, want %d", m.method, m.path, w.Code, http.StatusUnauthorized)
		}
		if w.Header().Get("WWW-Authenticate") == "" {
			t.Errorf("%s %s missing WWW-Authenticate challenge", m.method, m.path)
		}
	}

	if w := do("POST", "/api/v1/runs", "not-a-jwt"); w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	// A valid token unlocks the launch path end to end.
	token, _, err := tokens.IssueToken("operator")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	w := do("POST", "/api/v1/runs", token)
	if w.Code != http.StatusAccepted {
		t.Fatalf("authorized launch = %d, body %s", w.Code, w.Body.String())
	}
}

// =====================================================
// WebSocket Endpoint Tests
// =====================================================

func TestWebSocket_NonUpgradeRequest(t *testing.T) {
	t.Parallel()

	handler := NewHandler(nil, nil, nil, nil, nil, &config.Config{
		Server: config.ServerConfig{CORSOrigins: []string{"*"}},
	})

	req := httptest.NewRequest("GET", "/api/v1/ws", nil)
	req.Header.Set("Origin", "http://dashboard.example")
	w := httptest.NewRecorder()
	handler.WebSocket(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestWebSocket_DisallowedOriginHandshake(t *testing.T) {
	t.Parallel()

	handler := NewHandler(nil, nil, nil, nil, nil, &config.Config{
		Server: config.ServerConfig{CORSOrigins: []string{"http://localhost:6371"}},
	})

	req := httptest.NewRequest("GET", "/api/v1/ws", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	handler.WebSocket(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

// TestWebSocket_EndToEnd dials the live endpoint through the full router and
// checks that hub broadcasts arrive framed by topic.
func TestWebSocket_EndToEnd(t *testing.T) {
	env := newAPIEnv(t, false)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws"
	header := http.Header{"Origin": []string{"http://dashboard.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial: %v (resp %+v)", err, resp)
	}
	defer conn.Close()

	// Broadcasts reach only registered clients; wait for registration.
	deadline := time.Now().Add(testWait)
	for env.hub.GetClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with the hub")
		}
		time.Sleep(5 * time.Millisecond)
	}

	env.hub.BroadcastRaw(models.TopicPositions, []byte(`{"run_id":"r1","window":0}`))
	env.hub.BroadcastRaw(models.TopicRunStatus, []byte(`{"run_id":"r1","status":"completed"}`))

	wantTypes := []string{"position_batch", "run_status"}
	for _, want := range wantTypes {
		if err := conn.SetReadDeadline(time.Now().Add(testWait)); err != nil {
			t.Fatalf("set deadline: %v", err)
		}
		_, frame, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read %s frame: %v", want, err)
		}
		var msg struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(frame, &msg); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		if msg.Type != want {
			t.Errorf("frame type = %q, want %q", msg.Type, want)
		}
		if len(msg.Data) == 0 {
			t.Errorf("%s frame carried no payload", want)
		}
	}
}
