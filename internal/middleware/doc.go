// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

/*
Package middleware provides HTTP middleware shared by the API router.

The middleware here is transport plumbing with no knowledge of runs or wind
fields: gzip compression for the JSON-heavy endpoints, Prometheus request
instrumentation labelled by chi route pattern, and an in-memory performance
monitor that feeds the health/performance endpoint with recent latency
percentiles.

All middleware uses the standard chi signature func(http.Handler)
http.Handler and composes through chi's Use/With:

	r.Route("/api/v1/runs", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Use(middleware.Compression)
	    ...
	})

Request-ID generation and CORS live in the api package next to the router
because they are configured from it; rate limiting comes from go-chi/httprate.
*/
package middleware
