// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

/*
Package metrics provides Prometheus metrics collection and export for observability.

Metrics are registered with the default registry through promauto at package
load and exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:6371/metrics

# Available Metrics

API metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Requests currently in flight (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Run store metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
  - duckdb_exports_total: COPY TO exports served (counter)
    Labels: format (parquet, csv, geojson)

Wind data metrics:
  - wind_fetch_total / wind_fetch_bytes_total: Archive download outcomes
  - wind_fetch_breaker_state: Fetch circuit breaker (0=closed, 1=half-open, 2=open)
  - wind_sync_total: Periodic sync cycle outcomes
  - wind_field_time_slices: Six-hour slices in the loaded field (gauge)

Simulation metrics:
  - sim_runs_total: Runs by terminal status (counter)
  - sim_runs_active: Runs in progress (gauge)
  - sim_run_duration_seconds: Wall-clock run duration (histogram)
  - sim_trajectory_steps_total / sim_balloons_simulated_total: Work counters
  - coverage_marks_total: Footprint marks applied (counter)
  - coverage_last_fraction: Coverage fraction of the latest run (gauge)

Pipeline metrics:
  - events_published_total / events_processed_total: Watermill throughput
    Labels: topic (and handler on the processed side)
  - event_processing_duration_seconds: Handler latency (histogram)
  - nats_messages_published_total: Events mirrored to JetStream (counter)
  - websocket_connections / websocket_messages_sent_total / websocket_errors_total

Helper functions (RecordAPIRequest, RecordDBQuery, RecordRunCompletion,
RecordFleetSimulated, TrackActiveRequest) bundle the common update patterns so
call sites stay one line.
*/
package metrics
