// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, first hit wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/stratodrift/config.yaml",
	"/etc/stratodrift/config.yml",
}

// ConfigPathEnvVar overrides the config file search entirely.
const ConfigPathEnvVar = "STRATODRIFT_CONFIG_PATH"

// envPrefix scopes which environment variables the env layer reads.
const envPrefix = "STRATODRIFT_"

// Load builds the configuration from defaults, an optional YAML file, and
// STRATODRIFT_* environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the config file to load, or "" for none. The
// explicit env override wins over the default search path.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are the settings accepted from the environment as
// comma-separated values.
var sliceConfigPaths = []string{
	"server.cors_origins",
	"wind.fetch_years",
}

// processSliceFields splits comma-separated env strings into slices; the
// weakly-typed unmarshal then coerces element types (fetch years to ints).
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue // absent, or already a slice from YAML
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc maps STRATODRIFT_* variable names to config paths.
// Unmapped variables are skipped so unrelated environment noise cannot
// reach the config.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	envMappings := map[string]string{
		// Server
		"http_host":    "server.host",
		"http_port":    "server.port",
		"http_timeout": "server.timeout",
		"cors_origins": "server.cors_origins",
		"environment":  "server.environment",

		// Database
		"duckdb_path":       "database.path",
		"duckdb_max_memory": "database.max_memory",
		"duckdb_threads":    "database.threads",

		// Wind
		"wind_data_dir":       "wind.data_dir",
		"wind_level":          "wind.level",
		"wind_interpolation":  "wind.interpolation",
		"wind_sync_interval":  "wind.sync_interval",
		"wind_fetch_enabled":  "wind.fetch_enabled",
		"wind_fetch_base_url": "wind.fetch_base_url",
		"wind_fetch_years":    "wind.fetch_years",
		"wind_fetch_timeout":  "wind.fetch_timeout",
		"wind_fetch_rpm":      "wind.fetch_requests_per_min",

		// Simulation limits
		"sim_max_balloons": "sim.max_balloons",
		"sim_max_steps":    "sim.max_steps",
		"sim_workers":      "sim.workers",
		"sim_mark_every":   "sim.mark_every",
		"sim_series_hours": "sim.series_every_hours",

		// Coverage grid
		"coverage_radius_km":   "coverage.radius_km",
		"coverage_grid_height": "coverage.grid_height",
		"coverage_grid_width":  "coverage.grid_width",

		// Auth
		"auth_enabled":  "auth.enabled",
		"jwt_secret":    "auth.jwt_secret",
		"api_key_hash":  "auth.api_key_hash",
		"token_ttl":     "auth.token_ttl",
		"auth_issuer":   "auth.issuer",
		"auth_audience": "auth.audience",

		// NATS mirror
		"nats_enabled":   "nats.enabled",
		"nats_url":       "nats.url",
		"nats_embedded":  "nats.embedded_server",
		"nats_store_dir": "nats.store_dir",

		// Checkpoints
		"checkpoint_enabled": "checkpoint.enabled",
		"checkpoint_path":    "checkpoint.path",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
