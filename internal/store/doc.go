// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

// Package store persists simulation runs in DuckDB: run rows with their
// frozen launch configuration, the flattened trajectory samples, the final
// coverage statistics, and the coverage fraction time series.
//
// DuckDB also does the heavy lifting on the way out. Trajectory exports are
// COPY TO statements producing Parquet (ZSTD) or CSV without the rows ever
// crossing into Go; only the GeoJSON export streams rows through the process,
// because it regroups samples into one LineString per balloon.
//
// All methods take a context and bound themselves at 30 seconds when the
// caller supplies no deadline. The *Store is safe for concurrent use; DuckDB
// serializes writers internally.
package store
