// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses, with metadata
// for observability.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"id": "7f9c...", "status": "completed", ...},
//	  "metadata": {
//	    "timestamp": "2026-02-11T12:00:00Z",
//	    "query_time_ms": 8
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "NOT_FOUND",
//	    "message": "run not found",
//	    "details": {"id": "7f9c..."}
//	  },
//	  "metadata": {"timestamp": "2026-02-11T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and performance tracking.
//
// Fields:
//   - Timestamp: Server time when the response was generated (RFC3339 format)
//   - QueryTimeMS: Store query execution time in milliseconds (omitted when zero)
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - NOT_FOUND: Resource doesn't exist
//   - NOT_SIMULATED: Results requested before the run produced any
//   - WIND_UNAVAILABLE: No wind field loaded yet
//   - AUTHENTICATION_ERROR: Invalid/missing credentials
//   - RATE_LIMIT_EXCEEDED: Too many requests
//   - INTERNAL_ERROR: Unexpected server failure
//
// Example:
//
//	{
//	  "code": "VALIDATION_ERROR",
//	  "message": "Balloons must be at most 1000",
//	  "details": {"field": "Balloons", "value": 5000}
//	}
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the full health document returned by GET /api/v1/health.
//
// Status is "healthy" when the store responds and a wind field is loaded,
// "degraded" otherwise. Degraded still serves reads; only launches need the
// wind field.
type HealthStatus struct {
	Status           string     `json:"status"`
	Version          string     `json:"version"`
	StoreConnected   bool       `json:"store_connected"`
	Wind             WindStatus `json:"wind"`
	ActiveRuns       int        `json:"active_runs"`
	ConnectedClients int        `json:"connected_clients"`
	UptimeSeconds    float64    `json:"uptime_seconds"`
}

// TokenRequest represents an API-key to JWT exchange request.
//
// The API key is compared against the configured bcrypt hash; on success the
// server issues a short-lived bearer token for the mutating endpoints.
//
// Example:
//
//	{"api_key": "sd_live_9a31..."}
type TokenRequest struct {
	APIKey string `json:"api_key" validate:"required,min=8"`
}

// TokenResponse represents a successful token exchange.
//
// Fields:
//   - Token: Signed JWT (HS256)
//   - ExpiresAt: Token expiration timestamp
//
// Token usage:
//
//	Authorization: Bearer <token>
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
