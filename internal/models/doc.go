// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

/*
Package models defines data structures shared across the Stratodrift service.

This package contains the simulation run models persisted by the store, the
API request/response structures, and the event payloads carried by the
in-process pipeline. It has no internal dependencies so every layer can
import it freely.

Model Categories:

1. Run Models:
  - Run: A simulation run with its configuration, lifecycle timestamps, and
    coverage results
  - RunConfig: Fleet, horizon, wind, and coverage-grid parameters of a run
  - CoverageSummary: Area-weighted coverage statistics of a completed run
  - FractionPoint: One sample of the coverage-fraction time series
  - TrajectoryPoint: One persisted trajectory sample

2. API Request/Response Models:
  - APIResponse: Standard response wrapper
  - APIError: Error details
  - Metadata: Response metadata (timestamp, query time)
  - LaunchRequest: Validated POST /runs payload
  - TokenRequest / TokenResponse: API-key to JWT exchange
  - WindStatus: Loaded wind field summary

3. Event Models:
  - PositionEvent: One balloon position emitted during a run
  - RunStatusEvent: Run lifecycle transition

Usage Example - API Response:

	import "github.com/driftlabs/stratodrift/internal/models"

	response := models.APIResponse{
	    Status: "success",
	    Data:   run,
	    Metadata: models.Metadata{
	        Timestamp:   time.Now(),
	        QueryTimeMS: 12,
	    },
	}
	json.NewEncoder(w).Encode(response)

Thread Safety:

All models are plain data structures: immutable after creation, safe for
concurrent reads, no internal mutexes.

See Also:

  - internal/store: Persistence of these models in DuckDB
  - internal/api: API handlers returning these models
  - internal/sim: Run lifecycle producing these models
*/
package models
