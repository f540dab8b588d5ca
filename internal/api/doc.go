// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

/*
Package api provides the HTTP surface: chi routing, middleware wiring, and
the handlers for runs, wind, exports, health, and the WebSocket live feed.

Routes are grouped by concern, each group with its own rate-limit tier:

	/api/v1/health    liveness, readiness, full health doc   (1000/min)
	/api/v1/auth      API-key to JWT exchange                (5/5min)
	/api/v1/wind      wind field status, manual sync         (100/min)
	/api/v1/runs      launch, list, detail, results, cancel  (100/min)
	/api/v1/export    trajectory and coverage file downloads (10/min)
	/api/v1/ws        WebSocket upgrade for the live feed    (100/min)
	/metrics          Prometheus scrape endpoint
	/swagger/*        interactive API documentation

Every JSON endpoint responds with the models.APIResponse envelope:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "query_time_ms": 4}
	}

Mutating endpoints (launch, cancel, delete, sync) require a Bearer token
issued by POST /api/v1/auth/token when auth is enabled; read endpoints are
open so dashboards can poll without credentials.

Handlers hold no domain logic. They decode, validate with
internal/validation, call into sim.Service / store.Store / wind.Manager, and
translate sentinel errors to status codes in errors.go.
*/
package api
