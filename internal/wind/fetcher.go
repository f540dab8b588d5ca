// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package wind

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/driftlabs/stratodrift/internal/logging"
	"github.com/driftlabs/stratodrift/internal/metrics"
)

// fetchVariables are the two reanalysis variables a simulation needs.
var fetchVariables = [2]string{"uwnd", "vwnd"}

// Fetcher downloads wind archives from an upstream mirror into the local
// data directory. Downloads run behind a circuit breaker so a misbehaving
// mirror fails fast instead of stalling every sync cycle, and behind a rate
// limiter so bulk backfills stay polite.
type Fetcher struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[int64]
	limiter *rate.Limiter
	baseURL string
	dir     string
}

// NewFetcher creates a Fetcher for the given mirror base URL and destination
// directory. requestsPerMin bounds download starts; timeout bounds a single
// download end to end.
func NewFetcher(baseURL, dir string, timeout time.Duration, requestsPerMin int) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	if requestsPerMin <= 0 {
		requestsPerMin = 6
	}

	settings := gobreaker.Settings{
		Name:        "wind-fetch",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.WindFetchBreakerState.Set(breakerStateValue(to))
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Wind fetch circuit breaker state changed")
		},
	}

	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[int64](settings),
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMin)/60.0), 1),
		baseURL: baseURL,
		dir:     dir,
	}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// Fetch downloads one variable-year archive unless it is already present.
// Returns the local path of the archive.
func (f *Fetcher) Fetch(ctx context.Context, variable string, year int) (string, error) {
	name := fmt.Sprintf("%s.%d.parquet", variable, year)
	dest := filepath.Join(f.dir, name)

	if _, err := os.Stat(dest); err == nil {
		logging.Debug().Str("archive", name).Msg("Wind archive already present")
		return dest, nil
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("wind: fetch %s: %w", name, err)
	}

	written, err := f.breaker.Execute(func() (int64, error) {
		return f.download(ctx, f.baseURL+"/"+name, dest)
	})
	if err != nil {
		metrics.WindFetchTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("wind: fetch %s: %w", name, err)
	}

	metrics.WindFetchTotal.WithLabelValues("ok").Inc()
	metrics.WindFetchBytesTotal.Add(float64(written))
	logging.Info().Str("archive", name).Int64("bytes", written).Msg("Wind archive downloaded")
	return dest, nil
}

// FetchAll downloads both variables for every requested year, continuing past
// individual failures and reporting them joined.
func (f *Fetcher) FetchAll(ctx context.Context, years []int) error {
	var errs []error
	for _, year := range years {
		for _, variable := range fetchVariables {
			if _, err := f.Fetch(ctx, variable, year); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// download streams the archive to a temp file in the destination directory
// and renames it into place, so partial downloads never look like archives.
func (f *Fetcher) download(ctx context.Context, url, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer closeQuietly(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(f.dir, filepath.Base(dest)+".partial-*")
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return 0, err
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, err
	}
	return written, nil
}
