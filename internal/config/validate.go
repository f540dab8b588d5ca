// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package config

import (
	"fmt"
	"strings"
)

// Validate checks that the configuration is complete and consistent.
// Error messages name environment variables rather than struct fields.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateWind(); err != nil {
		return err
	}
	if err := c.validateSim(); err != nil {
		return err
	}
	if err := c.validateCoverage(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateNATS(); err != nil {
		return err
	}
	if err := c.validateCheckpoint(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("STRATODRIFT_HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("STRATODRIFT_HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("STRATODRIFT_ENVIRONMENT must be development or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("STRATODRIFT_DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("STRATODRIFT_DUCKDB_THREADS must be non-negative, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateWind() error {
	if c.Wind.DataDir == "" {
		return fmt.Errorf("STRATODRIFT_WIND_DATA_DIR is required")
	}
	if c.Wind.Level <= 0 {
		return fmt.Errorf("STRATODRIFT_WIND_LEVEL must be a positive pressure level in hPa, got %g", c.Wind.Level)
	}
	switch c.Wind.Interpolation {
	case "", "step", "linear":
	default:
		return fmt.Errorf("STRATODRIFT_WIND_INTERPOLATION must be step or linear, got %q", c.Wind.Interpolation)
	}

	if !c.Wind.FetchEnabled {
		return nil
	}
	if c.Wind.FetchBaseURL == "" {
		return fmt.Errorf("STRATODRIFT_WIND_FETCH_BASE_URL is required when STRATODRIFT_WIND_FETCH_ENABLED=true")
	}
	if err := validateBaseURL(c.Wind.FetchBaseURL, "STRATODRIFT_WIND_FETCH_BASE_URL"); err != nil {
		return err
	}
	if len(c.Wind.FetchYears) == 0 {
		return fmt.Errorf("STRATODRIFT_WIND_FETCH_YEARS is required when STRATODRIFT_WIND_FETCH_ENABLED=true")
	}
	for _, year := range c.Wind.FetchYears {
		// The reanalysis record starts in 1948.
		if year < 1948 || year > 2100 {
			return fmt.Errorf("STRATODRIFT_WIND_FETCH_YEARS contains %d, want 1948-2100", year)
		}
	}
	if c.Wind.FetchTimeout <= 0 {
		return fmt.Errorf("STRATODRIFT_WIND_FETCH_TIMEOUT must be positive, got %s", c.Wind.FetchTimeout)
	}
	if c.Wind.FetchRequestsPerMin < 1 {
		return fmt.Errorf("STRATODRIFT_WIND_FETCH_RPM must be at least 1, got %d", c.Wind.FetchRequestsPerMin)
	}
	return nil
}

func (c *Config) validateSim() error {
	if c.Sim.MaxBalloons < 1 {
		return fmt.Errorf("STRATODRIFT_SIM_MAX_BALLOONS must be at least 1, got %d", c.Sim.MaxBalloons)
	}
	if c.Sim.MaxSteps < 1 {
		return fmt.Errorf("STRATODRIFT_SIM_MAX_STEPS must be at least 1, got %d", c.Sim.MaxSteps)
	}
	if c.Sim.Workers < 0 {
		return fmt.Errorf("STRATODRIFT_SIM_WORKERS must be non-negative, got %d", c.Sim.Workers)
	}
	if c.Sim.MarkEvery < 1 {
		return fmt.Errorf("STRATODRIFT_SIM_MARK_EVERY must be at least 1, got %d", c.Sim.MarkEvery)
	}
	if c.Sim.SeriesEveryHours < 1 {
		return fmt.Errorf("STRATODRIFT_SIM_SERIES_HOURS must be at least 1, got %d", c.Sim.SeriesEveryHours)
	}
	return nil
}

func (c *Config) validateCoverage() error {
	if c.Coverage.RadiusKm <= 0 {
		return fmt.Errorf("STRATODRIFT_COVERAGE_RADIUS_KM must be positive, got %g", c.Coverage.RadiusKm)
	}
	if c.Coverage.GridHeight < 2 || c.Coverage.GridWidth < 2 {
		return fmt.Errorf("STRATODRIFT_COVERAGE_GRID_HEIGHT and _WIDTH must be at least 2, got %dx%d",
			c.Coverage.GridHeight, c.Coverage.GridWidth)
	}
	return nil
}

func (c *Config) validateAuth() error {
	if !c.Auth.Enabled {
		if c.Server.Environment == "production" {
			return fmt.Errorf("STRATODRIFT_AUTH_ENABLED=false is not allowed when STRATODRIFT_ENVIRONMENT=production")
		}
		return nil
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("STRATODRIFT_JWT_SECRET must be at least 32 characters when STRATODRIFT_AUTH_ENABLED=true")
	}
	if !strings.HasPrefix(c.Auth.APIKeyHash, "$2") {
		return fmt.Errorf("STRATODRIFT_API_KEY_HASH must be a bcrypt hash when STRATODRIFT_AUTH_ENABLED=true")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("STRATODRIFT_TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Auth.Issuer == "" || c.Auth.Audience == "" {
		return fmt.Errorf("STRATODRIFT_AUTH_ISSUER and STRATODRIFT_AUTH_AUDIENCE must not be empty")
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("STRATODRIFT_NATS_URL is invalid: %w", err)
	}
	if c.NATS.EmbeddedServer && c.NATS.StoreDir == "" {
		return fmt.Errorf("STRATODRIFT_NATS_STORE_DIR is required when STRATODRIFT_NATS_EMBEDDED=true")
	}
	return nil
}

func (c *Config) validateCheckpoint() error {
	if c.Checkpoint.Enabled && c.Checkpoint.Path == "" {
		return fmt.Errorf("STRATODRIFT_CHECKPOINT_PATH is required when STRATODRIFT_CHECKPOINT_ENABLED=true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("STRATODRIFT_LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("STRATODRIFT_LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
