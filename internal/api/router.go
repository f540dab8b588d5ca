// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/driftlabs/stratodrift/internal/auth"
	"github.com/driftlabs/stratodrift/internal/middleware"
)

// Router assembles the HTTP surface: handlers, per-group middleware
// tiers, and the observability endpoints.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	tokens        *auth.Manager
}

// NewRouter creates a Router. tokens may be nil, in which case mutating
// endpoints are served without authentication (single-operator deployments).
func NewRouter(handler *Handler, chiMw *ChiMiddleware, tokens *auth.Manager) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMw,
		tokens:        tokens,
	}
}

// authenticate returns the bearer-token middleware, or a pass-through
// when token auth is disabled.
func (router *Router) authenticate() func(http.Handler) http.Handler {
	if router.tokens == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return router.tokens.Authenticate
}

// SetupChi configures all HTTP routes using the Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	perfMon := router.handler.PerformanceMonitor()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(RequestIDWithLogging())      // Add X-Request-ID header with logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// There is no static frontend, so unmatched routes get the same JSON
	// envelope as every other error.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, http.StatusNotFound, codeNotFound, "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "Method not allowed for this resource", nil)
	})

	// ========================
	// Health Endpoints
	// ========================
	// Permissive rate limiting (1000/min) so orchestrator probes and
	// dashboards can poll freely.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/performance", router.handler.HealthPerformance)
		r.Get("/", router.handler.Health)
	})

	// ========================
	// Authentication Endpoints
	// ========================
	// Token exchange has the strictest rate limiting (5 attempts per 5
	// minutes) to slow down API-key brute forcing.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.With(router.chiMiddleware.RateLimitLogin()).Post("/token", router.handler.Token)
	})

	// ========================
	// Wind Endpoints
	// ========================
	r.Route("/api/v1/wind", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(perfMon.Middleware)
		r.Use(middleware.Compression)

		r.Get("/", router.handler.WindStatus)

		// Sync rescans archives from disk; stricter limit and auth.
		r.With(router.chiMiddleware.RateLimitSync()).
			With(router.authenticate()).
			Post("/sync", router.handler.WindSync)
	})

	// ========================
	// Run Endpoints
	// ========================
	// Reads are open; anything that creates, cancels, or deletes runs
	// requires a token when auth is enabled.
	r.Route("/api/v1/runs", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(perfMon.Middleware)
		r.Use(middleware.Compression)

		r.Get("/", router.handler.ListRuns)
		r.Get("/{id}", router.handler.GetRun)
		r.Get("/{id}/trajectories", router.handler.RunTrajectories)
		r.Get("/{id}/coverage", router.handler.RunCoverage)

		r.Group(func(r chi.Router) {
			r.Use(router.authenticate())
			r.Post("/", router.handler.LaunchRun)
			r.Post("/{id}/cancel", router.handler.CancelRun)
			r.Delete("/{id}", router.handler.DeleteRun)
		})
	})

	// ========================
	// Export Endpoints
	// ========================
	// Strict rate limiting (10/min) - exports materialize whole runs.
	// No Compression middleware here: the file exports are served via
	// http.ServeFile, which manages Content-Length and range requests
	// itself.
	r.Route("/api/v1/export", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitExport())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.authenticate())

		r.Get("/runs/{id}/trajectories.geojson", router.handler.ExportTrajectoriesGeoJSON)
		r.Get("/runs/{id}/trajectories.csv", router.handler.ExportTrajectoriesCSV)
		r.Get("/runs/{id}/trajectories.parquet", router.handler.ExportTrajectoriesParquet)
		r.Get("/runs/{id}/coverage.csv", router.handler.ExportCoverageCSV)
	})

	// ========================
	// WebSocket
	// ========================
	// Live position and lifecycle feed. Origin checking happens in the
	// upgrade handler; browsers cannot attach Authorization headers to
	// WebSocket dials, so the feed follows the open-read policy.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Get("/api/v1/ws", router.handler.WebSocket)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
