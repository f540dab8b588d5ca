// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the simulation service:
// - API endpoint latency and throughput
// - Run store query performance (DuckDB)
// - Wind archive fetch/sync health
// - Simulation run progress and coverage output
// - Event pipeline and WebSocket fan-out

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Run Store Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	DBExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_exports_total",
			Help: "Total number of COPY TO exports served",
		},
		[]string{"format"}, // "parquet", "csv", "geojson"
	)

	// Wind Data Metrics
	WindFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wind_fetch_total",
			Help: "Total number of wind archive download attempts",
		},
		[]string{"status"}, // "ok", "error"
	)

	WindFetchBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wind_fetch_bytes_total",
			Help: "Total bytes of wind archives downloaded",
		},
	)

	WindFetchBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wind_fetch_breaker_state",
			Help: "Wind fetch circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	WindSyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wind_sync_total",
			Help: "Total number of periodic wind sync cycles",
		},
		[]string{"status"}, // "ok", "error"
	)

	WindFieldTimeSlices = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wind_field_time_slices",
			Help: "Number of six-hour time slices in the loaded wind field",
		},
	)

	// Simulation Metrics
	SimRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sim_runs_total",
			Help: "Total number of simulation runs by terminal status",
		},
		[]string{"status"}, // "completed", "failed", "canceled"
	)

	SimRunsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sim_runs_active",
			Help: "Current number of simulation runs in progress",
		},
	)

	SimRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sim_run_duration_seconds",
			Help:    "Wall-clock duration of simulation runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 600},
		},
	)

	SimTrajectorySteps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sim_trajectory_steps_total",
			Help: "Total number of hourly trajectory steps integrated",
		},
	)

	SimBalloonsSimulated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sim_balloons_simulated_total",
			Help: "Total number of balloon trajectories computed",
		},
	)

	// Coverage Metrics
	CoverageMarksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coverage_marks_total",
			Help: "Total number of footprint marks applied to coverage grids",
		},
	)

	CoverageLastFraction = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coverage_last_fraction",
			Help: "Area-weighted coverage fraction of the most recently completed run",
		},
	)

	// Event Pipeline Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published to the in-process pipeline",
		},
		[]string{"topic"},
	)

	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_processed_total",
			Help: "Total number of events handled by pipeline subscribers",
		},
		[]string{"topic", "handler"},
	)

	EventProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "event_processing_duration_seconds",
			Help:    "Duration of event handler invocations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler"},
	)

	NATSMessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_published_total",
			Help: "Total number of events mirrored to NATS JetStream",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Checkpoint Metrics
	CheckpointWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkpoint_writes_total",
			Help: "Total number of run checkpoints written",
		},
		[]string{"status"}, // "ok", "error"
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records one served API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDBQuery records a run-store query and its outcome.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordRunCompletion records a run reaching a terminal status.
func RecordRunCompletion(status string, duration time.Duration) {
	SimRunsTotal.WithLabelValues(status).Inc()
	SimRunDuration.Observe(duration.Seconds())
}

// RecordFleetSimulated records the work done by one fleet simulation.
func RecordFleetSimulated(balloons, stepsPerBalloon int) {
	SimBalloonsSimulated.Add(float64(balloons))
	SimTrajectorySteps.Add(float64(balloons * stepsPerBalloon))
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
