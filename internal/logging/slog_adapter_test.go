// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newCapturedSlogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	return slog.New(NewSlogHandlerWithLogger(logger)), &buf
}

func TestSlogHandlerLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		log       func(*slog.Logger)
		wantLevel string
	}{
		{"debug", func(l *slog.Logger) { l.Debug("m") }, `"level":"debug"`},
		{"info", func(l *slog.Logger) { l.Info("m") }, `"level":"info"`},
		{"warn", func(l *slog.Logger) { l.Warn("m") }, `"level":"warn"`},
		{"error", func(l *slog.Logger) { l.Error("m") }, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			slogger, buf := newCapturedSlogger()
			tt.log(slogger)
			if !strings.Contains(buf.String(), tt.wantLevel) {
				t.Errorf("output = %s, want %s", buf.String(), tt.wantLevel)
			}
		})
	}
}

func TestSlogHandlerAttrs(t *testing.T) {
	t.Parallel()

	slogger, buf := newCapturedSlogger()
	slogger.Info("attrs",
		slog.String("service", "api"),
		slog.Int64("count", 42),
		slog.Bool("ok", true),
		slog.Duration("took", 3*time.Second),
		slog.Float64("fraction", 0.25),
	)

	output := buf.String()
	for _, want := range []string{
		`"service":"api"`,
		`"count":42`,
		`"ok":true`,
		`"fraction":0.25`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s: %s", want, output)
		}
	}
}

func TestSlogHandlerWithAttrsAndGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := NewSlogHandlerWithLogger(zerolog.New(&buf))

	handler := base.WithAttrs([]slog.Attr{slog.String("supervisor", "root")})
	handler = handler.WithGroup("svc")
	slogger := slog.New(handler)

	slogger.Info("started", slog.String("name", "http"))

	output := buf.String()
	if !strings.Contains(output, `"supervisor":"root"`) {
		t.Errorf("output missing inherited attr: %s", output)
	}
	if !strings.Contains(output, `"svc.name":"http"`) {
		t.Errorf("output missing group-prefixed attr: %s", output)
	}
}

func TestSlogHandlerEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		zerologLevel zerolog.Level
		slogLevel    slog.Level
		want         bool
	}{
		{"debug logger enables debug", zerolog.DebugLevel, slog.LevelDebug, true},
		{"info logger disables debug", zerolog.InfoLevel, slog.LevelDebug, false},
		{"info logger enables info", zerolog.InfoLevel, slog.LevelInfo, true},
		{"info logger enables warn", zerolog.InfoLevel, slog.LevelWarn, true},
		{"warn logger disables info", zerolog.WarnLevel, slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			handler := NewSlogHandlerWithLogger(zerolog.New(nil).Level(tt.zerologLevel))
			if got := handler.Enabled(context.Background(), tt.slogLevel); got != tt.want {
				t.Errorf("Enabled = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewSlogLogger(t *testing.T) {
	t.Parallel()

	if NewSlogLogger() == nil {
		t.Fatal("NewSlogLogger returned nil")
	}
}
