// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/driftlabs/stratodrift/internal/logging"
	"github.com/driftlabs/stratodrift/internal/store"
)

// exportConfig describes one file-based export format.
type exportConfig struct {
	kind        string // filename infix, e.g. "trajectories"
	extension   string
	contentType string
	exportFunc  func(ctx context.Context, runID uuid.UUID, outputPath string) error
}

// handleFileExport runs a DuckDB COPY into a temp file and serves it with
// download headers. The temp file is removed once ServeFile has streamed it.
func (h *Handler) handleFileExport(w http.ResponseWriter, r *http.Request, id uuid.UUID, cfg exportConfig) {
	start := time.Now()

	filename := fmt.Sprintf("stratodrift-%s-%s.%s", cfg.kind, id, cfg.extension)
	outputPath := filepath.Join(os.TempDir(),
		fmt.Sprintf("%d-%s", time.Now().UnixNano(), filename))
	defer func() {
		_ = os.Remove(outputPath)
	}()

	if err := cfg.exportFunc(r.Context(), id, outputPath); err != nil {
		if errors.Is(err, store.ErrRunNotFound) || errors.Is(err, store.ErrNoCoverage) {
			respondDomainError(w, err)
			return
		}
		// COPY failures (disk, codec) are export errors, not generic 500s.
		respondError(w, http.StatusInternalServerError, codeExportFailed,
			"Export failed, see server logs", err)
		return
	}

	w.Header().Set("Content-Type", cfg.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("X-Export-Time-MS", fmt.Sprintf("%d", time.Since(start).Milliseconds()))

	http.ServeFile(w, r, outputPath)
}

// ExportTrajectoriesCSV downloads a run's trajectory samples as CSV.
//
// @Summary Export trajectories as CSV
// @Description Streams a CSV file with one row per trajectory sample (balloon_id, step, hour, lat, lon)
// @Tags Export
// @Produce text/csv
// @Param id path string true "Run ID"
// @Success 200 {file} file
// @Failure 404 {object} models.APIResponse
// @Security BearerAuth
// @Router /export/runs/{id}/trajectories.csv [get]
func (h *Handler) ExportTrajectoriesCSV(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(w, r)
	if !ok {
		return
	}
	h.handleFileExport(w, r, id, exportConfig{
		kind:        "trajectories",
		extension:   "csv",
		contentType: "text/csv",
		exportFunc:  h.store.ExportTrajectoriesCSV,
	})
}

// ExportTrajectoriesParquet downloads a run's trajectory samples as
// ZSTD-compressed Parquet.
//
// @Summary Export trajectories as Parquet
// @Description Streams a ZSTD-compressed Parquet file with one row per trajectory sample
// @Tags Export
// @Produce application/octet-stream
// @Param id path string true "Run ID"
// @Success 200 {file} file
// @Failure 404 {object} models.APIResponse
// @Security BearerAuth
// @Router /export/runs/{id}/trajectories.parquet [get]
func (h *Handler) ExportTrajectoriesParquet(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(w, r)
	if !ok {
		return
	}
	h.handleFileExport(w, r, id, exportConfig{
		kind:        "trajectories",
		extension:   "parquet",
		contentType: "application/octet-stream",
		exportFunc:  h.store.ExportTrajectoriesParquet,
	})
}

// ExportCoverageCSV downloads a run's coverage fraction time series as CSV.
//
// @Summary Export coverage series as CSV
// @Description Streams a CSV file with one row per sampled hour (hour, fraction)
// @Tags Export
// @Produce text/csv
// @Param id path string true "Run ID"
// @Success 200 {file} file
// @Failure 404 {object} models.APIResponse
// @Security BearerAuth
// @Router /export/runs/{id}/coverage.csv [get]
func (h *Handler) ExportCoverageCSV(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(w, r)
	if !ok {
		return
	}
	h.handleFileExport(w, r, id, exportConfig{
		kind:        "coverage",
		extension:   "csv",
		contentType: "text/csv",
		exportFunc:  h.store.ExportCoverageCSV,
	})
}

// ExportTrajectoriesGeoJSON streams a run's trajectories as a GeoJSON
// FeatureCollection with one LineString per balloon. Unlike the file-based
// exports this writes straight to the response, so memory stays bounded by
// one balloon's path.
//
// @Summary Export trajectories as GeoJSON
// @Description Streams a FeatureCollection with one LineString per balloon, RFC 7946 axis order
// @Tags Export
// @Produce application/geo+json
// @Param id path string true "Run ID"
// @Success 200 {file} file
// @Failure 404 {object} models.APIResponse
// @Security BearerAuth
// @Router /export/runs/{id}/trajectories.geojson [get]
func (h *Handler) ExportTrajectoriesGeoJSON(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(w, r)
	if !ok {
		return
	}

	// Resolve the run before streaming starts; once bytes are on the wire
	// the status code is committed.
	if _, err := h.store.GetRun(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}

	start := time.Now()
	filename := fmt.Sprintf("stratodrift-trajectories-%s.geojson", id)
	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := h.store.ExportTrajectoriesGeoJSON(r.Context(), id, w); err != nil {
		// Mid-stream failure: the client sees a truncated document.
		logging.Error().Err(err).Str("run_id", id.String()).Msg("GeoJSON export failed mid-stream")
		return
	}

	logging.Debug().
		Str("run_id", id.String()).
		Dur("duration", time.Since(start)).
		Msg("GeoJSON export served")
}
