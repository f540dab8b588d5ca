// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package config

import (
	"time"

	"github.com/driftlabs/stratodrift/internal/geo"
)

// Config holds all service configuration.
//
// Loading order (Load):
//  1. Defaults: built-in values for every setting
//  2. Config file: optional YAML file for persistent settings
//  3. Environment: STRATODRIFT_* variables override anything
//
// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Wind       WindConfig       `koanf:"wind"`
	Sim        SimConfig        `koanf:"sim"`
	Coverage   CoverageConfig   `koanf:"coverage"`
	Auth       AuthConfig       `koanf:"auth"`
	NATS       NATSConfig       `koanf:"nats"`
	Checkpoint CheckpointConfig `koanf:"checkpoint"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds the HTTP listener settings.
//
// Environment variables:
//   - STRATODRIFT_HTTP_HOST, STRATODRIFT_HTTP_PORT
//   - STRATODRIFT_HTTP_TIMEOUT (request timeout, e.g. "30s")
//   - STRATODRIFT_CORS_ORIGINS (comma-separated)
//   - STRATODRIFT_ENVIRONMENT (development or production)
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	CORSOrigins []string      `koanf:"cors_origins"`
	Environment string        `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings for the run store.
type DatabaseConfig struct {
	// Path is the database file, or ":memory:" for an ephemeral store.
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB memory use, e.g. "2GB".
	MaxMemory string `koanf:"max_memory"`

	// Threads limits DuckDB worker threads; 0 lets DuckDB decide.
	Threads int `koanf:"threads"`
}

// WindConfig controls where wind archives live and how they are refreshed.
//
// Environment variables:
//   - STRATODRIFT_WIND_DATA_DIR, STRATODRIFT_WIND_LEVEL
//   - STRATODRIFT_WIND_INTERPOLATION (step or linear)
//   - STRATODRIFT_WIND_SYNC_INTERVAL (0 disables periodic sync)
//   - STRATODRIFT_WIND_FETCH_ENABLED, STRATODRIFT_WIND_FETCH_BASE_URL
//   - STRATODRIFT_WIND_FETCH_YEARS (comma-separated)
//   - STRATODRIFT_WIND_FETCH_TIMEOUT, STRATODRIFT_WIND_FETCH_RPM
type WindConfig struct {
	DataDir             string        `koanf:"data_dir"`
	Level               float64       `koanf:"level"`
	Interpolation       string        `koanf:"interpolation"`
	SyncInterval        time.Duration `koanf:"sync_interval"`
	FetchEnabled        bool          `koanf:"fetch_enabled"`
	FetchBaseURL        string        `koanf:"fetch_base_url"`
	FetchYears          []int         `koanf:"fetch_years"`
	FetchTimeout        time.Duration `koanf:"fetch_timeout"`
	FetchRequestsPerMin int           `koanf:"fetch_requests_per_min"`
}

// SimConfig bounds simulation runs launched through the API.
type SimConfig struct {
	// MaxBalloons caps the fleet size of a single run.
	MaxBalloons int `koanf:"max_balloons"`

	// MaxSteps caps the simulation horizon in hours.
	MaxSteps int `koanf:"max_steps"`

	// Workers bounds the trajectory worker pool; 0 means one per CPU.
	Workers int `koanf:"workers"`

	// MarkEvery thins coverage marking to every k-th hour.
	MarkEvery int `koanf:"mark_every"`

	// SeriesEveryHours is the cadence of the coverage fraction time series.
	SeriesEveryHours int `koanf:"series_every_hours"`
}

// CoverageConfig shapes the coverage grid and footprint.
type CoverageConfig struct {
	RadiusKm   float64 `koanf:"radius_km"`
	GridHeight int     `koanf:"grid_height"`
	GridWidth  int     `koanf:"grid_width"`
}

// AuthConfig holds token-auth settings. When disabled, mutating endpoints
// are open; production validation refuses that combination.
type AuthConfig struct {
	Enabled    bool          `koanf:"enabled"`
	JWTSecret  string        `koanf:"jwt_secret"`
	APIKeyHash string        `koanf:"api_key_hash"`
	TokenTTL   time.Duration `koanf:"token_ttl"`
	Issuer     string        `koanf:"issuer"`
	Audience   string        `koanf:"audience"`
}

// NATSConfig controls the optional external event mirror. It only takes
// effect in binaries built with the nats tag.
type NATSConfig struct {
	Enabled        bool   `koanf:"enabled"`
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	StoreDir       string `koanf:"store_dir"`
}

// CheckpointConfig controls the badger-backed run checkpoint store.
type CheckpointConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults, applied before the config
// file and environment layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        6371, // mean Earth radius, km
			Timeout:     30 * time.Second,
			CORSOrigins: []string{"*"},
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/stratodrift.duckdb",
			MaxMemory: "2GB",
			Threads:   0,
		},
		Wind: WindConfig{
			DataDir:             "/data/wind",
			Level:               geo.DefaultPressureLevel,
			Interpolation:       "step",
			SyncInterval:        0, // periodic sync off; reload on demand
			FetchEnabled:        false,
			FetchBaseURL:        "",
			FetchYears:          nil,
			FetchTimeout:        10 * time.Minute,
			FetchRequestsPerMin: 6,
		},
		Sim: SimConfig{
			MaxBalloons:      1000,
			MaxSteps:         8760, // one year of hourly steps
			Workers:          0,
			MarkEvery:        1,
			SeriesEveryHours: 24,
		},
		Coverage: CoverageConfig{
			RadiusKm:   geo.DefaultCoverageRadiusKm,
			GridHeight: geo.ReanalysisGridHeight,
			GridWidth:  geo.ReanalysisGridWidth,
		},
		Auth: AuthConfig{
			Enabled:    false,
			JWTSecret:  "",
			APIKeyHash: "",
			TokenTTL:   time.Hour,
			Issuer:     "stratodrift",
			Audience:   "stratodrift-api",
		},
		NATS: NATSConfig{
			Enabled:        false,
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: true,
			StoreDir:       "/data/nats/jetstream",
		},
		Checkpoint: CheckpointConfig{
			Enabled: true,
			Path:    "/data/checkpoints",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
