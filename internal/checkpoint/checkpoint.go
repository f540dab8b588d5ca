// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

// Package checkpoint persists per-run simulation snapshots in BadgerDB.
//
// A snapshot is the accumulator's latest view of a run: the coverage grid,
// the fraction series so far, and the final summary once the run completes.
// Saving overwrites the previous snapshot for the same run, so the store
// always holds exactly one record per run and a restarted service can
// answer coverage queries without replaying trajectories or round-tripping
// through DuckDB.
//
// Writes are fsynced (badger SyncWrites) so a crash between the accumulator
// and the store cannot lose a completed run's results.
package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/driftlabs/stratodrift/internal/logging"
	"github.com/driftlabs/stratodrift/internal/metrics"
	"github.com/driftlabs/stratodrift/internal/models"
)

// Errors
var (
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("checkpoint: store is closed")

	// ErrNotFound is returned when no snapshot exists for a run.
	ErrNotFound = errors.New("checkpoint: snapshot not found")
)

const keyPrefix = "run:"

// gcInterval paces badger value-log garbage collection while Serve runs.
const gcInterval = 5 * time.Minute

// Snapshot is the durable record of a run's accumulated coverage state.
// Grid is nil once a run is terminal and Summary carries the final numbers;
// keeping the full grid for in-flight runs lets a restart resume the
// fraction series without remarking from scratch.
type Snapshot struct {
	RunID     uuid.UUID               `json:"run_id"`
	Status    models.RunStatus        `json:"status"`
	Hour      int                     `json:"hour"`
	Grid      [][]float64             `json:"grid,omitempty"`
	Series    []models.FractionPoint  `json:"series,omitempty"`
	Summary   *models.CoverageSummary `json:"summary,omitempty"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// Store persists run snapshots in BadgerDB. Safe for concurrent use.
type Store struct {
	db *badger.DB

	mu     sync.RWMutex
	closed bool
}

// Open creates or reopens the snapshot database at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.SyncWrites = true
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open badger at %s: %w", path, err)
	}

	logging.Info().Str("path", path).Msg("Checkpoint store opened")
	return &Store{db: db}, nil
}

// Save writes (or overwrites) the snapshot for snap.RunID.
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	if err := s.guard(); err != nil {
		return err
	}
	if snap == nil || snap.RunID == uuid.Nil {
		return fmt.Errorf("checkpoint: snapshot must carry a run ID")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(snap)
	if err != nil {
		metrics.CheckpointWrites.WithLabelValues("error").Inc()
		return fmt.Errorf("checkpoint: marshal snapshot for %s: %w", snap.RunID, err)
	}

	key := runKey(snap.RunID)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		metrics.CheckpointWrites.WithLabelValues("error").Inc()
		return fmt.Errorf("checkpoint: write snapshot for %s: %w", snap.RunID, err)
	}

	metrics.CheckpointWrites.WithLabelValues("ok").Inc()
	return nil
}

// Load returns the snapshot for runID, or ErrNotFound.
func (s *Store) Load(ctx context.Context, runID uuid.UUID) (*Snapshot, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var snap Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(runID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("checkpoint: run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("checkpoint: load snapshot for %s: %w", runID, err)
	}
	return &snap, nil
}

// Delete removes a run's snapshot. Deleting a missing snapshot is a no-op.
func (s *Store) Delete(ctx context.Context, runID uuid.UUID) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(runKey(runID))
	})
	if err != nil {
		return fmt.Errorf("checkpoint: delete snapshot for %s: %w", runID, err)
	}
	return nil
}

// RunIDs lists every run with a stored snapshot. Keys only, no payload
// reads.
func (s *Store) RunIDs(ctx context.Context) ([]uuid.UUID, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw := string(it.Item().Key())[len(keyPrefix):]
			id, err := uuid.Parse(raw)
			if err != nil {
				logging.Warn().Str("key", raw).Err(err).Msg("Checkpoint key is not a run ID")
				continue
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("checkpoint: list snapshots: %w", err)
	}
	return ids, nil
}

// Serve runs periodic value-log garbage collection until ctx is canceled.
// Implements suture.Service so the store slots into the supervision tree.
func (s *Store) Serve(ctx context.Context) error {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.runGC(); err != nil {
				logging.Warn().Err(err).Msg("Checkpoint GC failed")
			}
		}
	}
}

// String names the service in supervisor logs.
func (s *Store) String() string { return "checkpoint-gc" }

// runGC reclaims value-log space until badger reports nothing left to
// rewrite.
func (s *Store) runGC() error {
	if err := s.guard(); err != nil {
		return err
	}
	for {
		err := s.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("checkpoint: value log GC: %w", err)
		}
	}
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) guard() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func runKey(id uuid.UUID) []byte {
	return []byte(keyPrefix + id.String())
}
