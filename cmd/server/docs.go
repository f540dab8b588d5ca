// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

// Package main provides the Stratodrift HTTP server
//
// Stratodrift simulates stratospheric balloon fleets drifting through
// archived wind fields and measures the ground-station coverage the
// fleet would provide.
//
// @title Stratodrift API
// @version 1.0
// @description Balloon fleet trajectory simulation and coverage analytics.
// @description
// @description ## Workflow
// @description
// @description 1. Drop ERA5-style wind archives into the data directory (or configure a fetcher) and call `POST /api/v1/wind/sync`
// @description 2. Launch a run with `POST /api/v1/runs` - the server simulates it in the background
// @description 3. Poll `GET /api/v1/runs/{id}` or subscribe to `/api/v1/ws` for live positions
// @description 4. Read the coverage summary from `GET /api/v1/runs/{id}/coverage`
// @description 5. Export trajectories as GeoJSON, CSV, or Parquet from `/api/v1/export`
// @description
// @description ## Authentication
// @description
// @description Read endpoints are open. Mutating endpoints (launch, cancel, delete,
// @description sync) require a bearer token when `STRATODRIFT_API_KEY_HASH` is set.
// @description Exchange the API key for a JWT via `POST /api/v1/auth/token`.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-01-18T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/driftlabs/stratodrift/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.en.html
//
// @host localhost:6371
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT obtained from /api/v1/auth/token.
//
// @tag.name Health
// @tag.description Liveness, readiness, and performance endpoints for probes and dashboards
//
// @tag.name Auth
// @tag.description API-key to JWT token exchange
//
// @tag.name Wind
// @tag.description Wind field status and archive synchronization
//
// @tag.name Runs
// @tag.description Simulation run lifecycle: launch, inspect, cancel, delete
//
// @tag.name Export
// @tag.description Trajectory and coverage downloads in GeoJSON, CSV, and Parquet
//
// @tag.name Live
// @tag.description WebSocket feed of balloon positions and run lifecycle events
package main
