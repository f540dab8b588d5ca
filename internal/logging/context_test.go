// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestGenerateCorrelationID(t *testing.T) {
	t.Parallel()

	id := GenerateCorrelationID()
	if len(id) != 8 {
		t.Errorf("correlation ID %q has length %d, want 8", id, len(id))
	}
	if id == GenerateCorrelationID() {
		t.Error("two correlation IDs collided")
	}
}

func TestGenerateRequestID(t *testing.T) {
	t.Parallel()

	id := GenerateRequestID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("request ID %q is not a UUID: %v", id, err)
	}
}

func TestContextRoundTrips(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	if got := CorrelationIDFromContext(ctx); got != "" {
		t.Errorf("empty context correlation ID = %q, want empty", got)
	}
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("empty context request ID = %q, want empty", got)
	}

	ctx = ContextWithCorrelationID(ctx, "abcd1234")
	ctx = ContextWithRequestID(ctx, "req-1")

	if got := CorrelationIDFromContext(ctx); got != "abcd1234" {
		t.Errorf("correlation ID = %q, want abcd1234", got)
	}
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("request ID = %q, want req-1", got)
	}
}

func TestCtxAddsFields(t *testing.T) {
	var buf bytes.Buffer

	SetLogger(zerolog.New(&buf))
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := ContextWithCorrelationID(context.Background(), "abcd1234")
	ctx = ContextWithRequestID(ctx, "req-1")

	Ctx(ctx).Info().Msg("with context")

	output := buf.String()
	if !strings.Contains(output, `"correlation_id":"abcd1234"`) {
		t.Errorf("output missing correlation ID: %s", output)
	}
	if !strings.Contains(output, `"request_id":"req-1"`) {
		t.Errorf("output missing request ID: %s", output)
	}

	// A bare context adds no fields.
	buf.Reset()
	Ctx(context.Background()).Info().Msg("plain")
	if strings.Contains(buf.String(), "correlation_id") {
		t.Errorf("bare context leaked correlation field: %s", buf.String())
	}
}

func TestCtxWithExtraFields(t *testing.T) {
	var buf bytes.Buffer

	SetLogger(zerolog.New(&buf))
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := ContextWithCorrelationID(context.Background(), "abcd1234")
	logger := CtxWith(ctx).Str("run_id", "r-7").Logger()
	logger.Info().Msg("launch")

	output := buf.String()
	if !strings.Contains(output, `"correlation_id":"abcd1234"`) {
		t.Errorf("output missing correlation ID: %s", output)
	}
	if !strings.Contains(output, `"run_id":"r-7"`) {
		t.Errorf("output missing extra field: %s", output)
	}
}

func TestCtxErr(t *testing.T) {
	var buf bytes.Buffer

	SetLogger(zerolog.New(&buf))
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := ContextWithRequestID(context.Background(), "req-9")
	CtxErr(ctx, errTest{}).Msg("failed")

	output := buf.String()
	if !strings.Contains(output, `"request_id":"req-9"`) {
		t.Errorf("output missing request ID: %s", output)
	}
	if !strings.Contains(output, `"level":"error"`) {
		t.Errorf("output missing error level: %s", output)
	}
}
