// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// testJSONRoundTrip marshals input, unmarshals it back, and hands the result
// to verify. Keeps the per-type tests focused on field fidelity.
func testJSONRoundTrip[T any](t *testing.T, name string, input T, verify func(t *testing.T, decoded T)) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		data, err := json.Marshal(input)
		if err != nil {
			t.Fatalf("Failed to marshal %s: %v", name, err)
		}

		var decoded T
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Failed to unmarshal %s: %v", name, err)
		}

		if verify != nil {
			verify(t, decoded)
		}
	})
}

var (
	testUUID = uuid.New()
	testTime = time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
)

func createTestRun() Run {
	started := testTime.Add(time.Second)
	completed := testTime.Add(90 * time.Second)
	mean := 421.5
	minV, maxV := 1.0, 720.0
	return Run{
		ID:     testUUID,
		Status: RunCompleted,
		Config: RunConfig{
			Balloons:      100,
			Seed:          42,
			LatMin:        -90,
			LatMax:        90,
			LonMin:        -180,
			LonMax:        180,
			Steps:         720,
			Interpolation: "linear",
			RadiusKm:      370,
			GridHeight:    73,
			GridWidth:     144,
			MarkEvery:     1,
		},
		Coverage: &CoverageSummary{
			CoveragePercent: 61.2,
			TotalCells:      10512,
			CoveredCells:    6433,
			UncoveredCells:  4079,
			MinValue:        &minV,
			MaxValue:        &maxV,
			MeanValue:       &mean,
			Series: []FractionPoint{
				{Hour: 24, Fraction: 0.08},
				{Hour: 48, Fraction: 0.15},
			},
		},
		CreatedAt:   testTime,
		StartedAt:   &started,
		CompletedAt: &completed,
	}
}

func TestJSONMarshaling(t *testing.T) {
	t.Parallel()

	testJSONRoundTrip(t, "Run", createTestRun(), func(t *testing.T, decoded Run) {
		if decoded.ID != testUUID {
			t.Errorf("Expected ID %v, got %v", testUUID, decoded.ID)
		}
		if decoded.Status != RunCompleted {
			t.Errorf("Expected status completed, got %s", decoded.Status)
		}
		if decoded.Config.Balloons != 100 {
			t.Errorf("Expected 100 balloons, got %d", decoded.Config.Balloons)
		}
		if decoded.Coverage == nil {
			t.Fatal("Coverage not marshaled")
		}
		if decoded.Coverage.CoveragePercent != 61.2 {
			t.Errorf("Expected coverage 61.2, got %f", decoded.Coverage.CoveragePercent)
		}
		if decoded.Coverage.MaxValue == nil || *decoded.Coverage.MaxValue != 720.0 {
			t.Error("MaxValue not properly marshaled/unmarshaled")
		}
		if len(decoded.Coverage.Series) != 2 || decoded.Coverage.Series[1].Hour != 48 {
			t.Error("Fraction series not properly marshaled/unmarshaled")
		}
	})

	testJSONRoundTrip(t, "APIResponse", APIResponse{
		Status:   "success",
		Data:     map[string]interface{}{"loaded": true},
		Metadata: Metadata{Timestamp: testTime, QueryTimeMS: 8},
	}, func(t *testing.T, decoded APIResponse) {
		if decoded.Status != "success" {
			t.Errorf("Expected status 'success', got '%s'", decoded.Status)
		}
		if decoded.Error != nil {
			t.Error("Expected error to be nil")
		}
		if decoded.Metadata.QueryTimeMS != 8 {
			t.Errorf("Expected query_time_ms 8, got %d", decoded.Metadata.QueryTimeMS)
		}
	})

	testJSONRoundTrip(t, "APIError", APIError{
		Code:    "VALIDATION_ERROR",
		Message: "Invalid input",
		Details: map[string]interface{}{"field": "Balloons"},
	}, func(t *testing.T, decoded APIError) {
		if decoded.Code != "VALIDATION_ERROR" {
			t.Errorf("Expected code 'VALIDATION_ERROR', got '%s'", decoded.Code)
		}
		if decoded.Message != "Invalid input" {
			t.Errorf("Expected message 'Invalid input', got '%s'", decoded.Message)
		}
	})

	testJSONRoundTrip(t, "PositionEvent", PositionEvent{
		RunID:     testUUID,
		BalloonID: "B007",
		Points: []PositionPoint{
			{Hour: 0, Lat: 10.5, Lon: -120.25},
			{Hour: 1, Lat: 10.6, Lon: -119.9},
		},
	}, func(t *testing.T, decoded PositionEvent) {
		if decoded.BalloonID != "B007" {
			t.Errorf("Expected balloon B007, got %s", decoded.BalloonID)
		}
		if len(decoded.Points) != 2 || decoded.Points[1].Lon != -119.9 {
			t.Error("Points not properly marshaled/unmarshaled")
		}
	})

	testJSONRoundTrip(t, "WindStatus_Unloaded", WindStatus{Loaded: false}, func(t *testing.T, decoded WindStatus) {
		if decoded.Loaded {
			t.Error("Expected loaded=false")
		}
		if decoded.TimeSlices != 0 {
			t.Errorf("Expected zero time slices, got %d", decoded.TimeSlices)
		}
	})
}

func TestRunStatusTerminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   RunStatus
		terminal bool
	}{
		{RunPending, false},
		{RunRunning, false},
		{RunCompleted, true},
		{RunFailed, true},
		{RunCanceled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Terminal(); got != tt.terminal {
				t.Errorf("Terminal(%s) = %v, want %v", tt.status, got, tt.terminal)
			}
		})
	}
}

// Omitted optional fields must stay absent from the wire form so a fresh
// deployment's wind status is just {"loaded":false}.
func TestWindStatusOmitsUnsetFields(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(WindStatus{Loaded: false})
	if err != nil {
		t.Fatalf("Failed to marshal WindStatus: %v", err)
	}
	if string(data) != `{"loaded":false}` {
		t.Errorf("Expected minimal JSON, got %s", data)
	}
}
