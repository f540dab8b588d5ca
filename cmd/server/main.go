// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/driftlabs/stratodrift/docs" // generated swagger docs
	"github.com/driftlabs/stratodrift/internal/api"
	"github.com/driftlabs/stratodrift/internal/auth"
	"github.com/driftlabs/stratodrift/internal/checkpoint"
	"github.com/driftlabs/stratodrift/internal/config"
	"github.com/driftlabs/stratodrift/internal/events"
	"github.com/driftlabs/stratodrift/internal/logging"
	"github.com/driftlabs/stratodrift/internal/models"
	"github.com/driftlabs/stratodrift/internal/sim"
	"github.com/driftlabs/stratodrift/internal/store"
	"github.com/driftlabs/stratodrift/internal/supervisor"
	"github.com/driftlabs/stratodrift/internal/supervisor/services"
	ws "github.com/driftlabs/stratodrift/internal/websocket"
	"github.com/driftlabs/stratodrift/internal/wind"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Str("wind_data_dir", cfg.Wind.DataDir).
		Bool("auth_enabled", cfg.Auth.Enabled).
		Msg("Starting Stratodrift")

	// Run store: DuckDB holds runs, trajectories, and coverage results.
	st, err := store.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize run store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing run store")
		}
	}()
	logging.Info().Msg("Run store initialized")

	// Checkpoint store: badger snapshots let a restarted process answer
	// coverage queries for completed runs without replaying trajectories.
	var checkpoints *checkpoint.Store
	if cfg.Checkpoint.Enabled {
		checkpoints, err = checkpoint.Open(cfg.Checkpoint.Path)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open checkpoint store")
		}
		defer func() {
			if err := checkpoints.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing checkpoint store")
			}
		}()
		logging.Info().Str("path", cfg.Checkpoint.Path).Msg("Checkpoint store opened")
	} else {
		logging.Info().Msg("Checkpointing disabled (STRATODRIFT_CHECKPOINT_ENABLED=false)")
	}

	// Wind manager: loads ERA5-style archives from the data directory and,
	// when fetching is configured, mirrors missing years first.
	var fetcher *wind.Fetcher
	if cfg.Wind.FetchEnabled {
		fetcher = wind.NewFetcher(cfg.Wind.FetchBaseURL, cfg.Wind.DataDir, cfg.Wind.FetchTimeout, cfg.Wind.FetchRequestsPerMin)
		logging.Info().
			Str("base_url", cfg.Wind.FetchBaseURL).
			Ints("years", cfg.Wind.FetchYears).
			Msg("Wind archive fetching enabled")
	}
	winds := wind.NewManager(&cfg.Wind, fetcher)

	// WebSocket hub for live position and run-status frames.
	hub := ws.NewHub()

	// In-process event pipeline: the simulator publishes to the bus, the
	// router fans out to the coverage accumulator and the WebSocket hub.
	busLogger := events.NewLoggerAdapter()
	bus := events.NewBus(events.DefaultBusConfig(), busLogger)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	router, err := events.NewRouter(nil, busLogger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event router")
	}

	simSvc := sim.NewService(&cfg.Sim, &cfg.Coverage, st, checkpoints, winds, bus)

	// Exactly one consumer owns the coverage grids; see sim.HandlePositions.
	router.AddConsumerHandler("coverage-accumulator", models.TopicPositions, bus.Subscriber(), simSvc.HandlePositions)

	broadcast, err := events.NewBroadcastHandler(hub)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create broadcast handler")
	}
	router.AddConsumerHandler("ws-positions", models.TopicPositions, bus.Subscriber(), broadcast.Handle)
	router.AddConsumerHandler("ws-run-status", models.TopicRunStatus, bus.Subscriber(), broadcast.Handle)

	// Optional NATS JetStream mirror for external consumers; compiled in
	// with -tags nats, a warning stub otherwise.
	mirror, err := initMirror(cfg, router, bus)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize NATS mirror")
	}
	if mirror != nil {
		defer func() {
			if err := mirror.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing NATS mirror")
			}
		}()
	}

	// Settle whatever a previous process left behind before accepting new
	// launches: pending/running runs are failed, checkpoints reconciled.
	if err := simSvc.RecoverInterrupted(context.Background()); err != nil {
		logging.Fatal().Err(err).Msg("Failed to recover interrupted runs")
	}

	var tokens *auth.Manager
	if cfg.Auth.Enabled {
		tokens, err = auth.NewManager(&cfg.Auth)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize token auth")
		}
		logging.Info().Str("issuer", cfg.Auth.Issuer).Msg("Token authentication enabled")
	} else {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  Authentication is DISABLED (STRATODRIFT_AUTH_ENABLED=false)")
		logging.Warn().Msg("  Anyone who can reach this server can launch and delete runs.")
		logging.Warn().Msg("  Enable token auth for anything beyond local experiments.")
		logging.Warn().Msg("============================================================")
	}

	handler := api.NewHandler(st, simSvc, winds, hub, tokens, cfg)
	chiMw := api.NewChiMiddlewareFromOrigins(cfg.Server.CORSOrigins)
	apiRouter := api.NewRouter(handler, chiMw, tokens)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      apiRouter.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Supervision tree. sutureslog events route into zerolog through the
	// slog adapter.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervision tree")
	}

	tree.AddDataService(winds)
	tree.AddDataService(simSvc)
	if checkpoints != nil {
		tree.AddDataService(checkpoints)
	}

	tree.AddMessagingService(services.NewRunnerService("event-router", router))
	tree.AddMessagingService(services.NewRunnerService("websocket-hub", hub))

	tree.AddAPIService(services.NewHTTPService(server, 10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervision tree")
	errCh := tree.ServeBackground(ctx)

	// The gochannel transport drops messages published before a subscriber
	// exists, so a run launched this early would lose its first batches.
	// Handlers subscribe within milliseconds; this is a startup sanity check.
	select {
	case <-router.Running():
		logging.Info().Msg("Event router running")
	case <-time.After(10 * time.Second):
		logging.Warn().Msg("Event router still not running after 10s")
	case <-ctx.Done():
	}

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutting down, waiting for services to stop")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervision tree error")
		}
	}

	// Drain until the supervisor closes the channel.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Stratodrift stopped")
}
