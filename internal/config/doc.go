// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

// Package config loads and validates service configuration.
//
// Configuration is layered with koanf: built-in defaults, then an optional
// YAML file, then STRATODRIFT_* environment variables, each layer overriding
// the one below. The resulting Config is immutable and safe to share.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("configuration invalid")
//	}
//
// Validation errors name the environment variable to fix, not the struct
// field, since operators tune the service through the environment.
package config
