// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// launchRequest mirrors the API's run-launch payload shape.
type launchRequest struct {
	Balloons      int     `validate:"min=1,max=1000"`
	Steps         int     `validate:"min=1,max=8760"`
	LatMin        float64 `validate:"latitude"`
	LatMax        float64 `validate:"latitude"`
	LonMin        float64 `validate:"longitude"`
	LonMax        float64 `validate:"longitude"`
	Interpolation string  `validate:"omitempty,oneof=step linear"`
	RadiusKm      float64 `validate:"gt=0"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input launchRequest
	}{
		{
			name: "typical global run",
			input: launchRequest{
				Balloons: 100,
				Steps:    720,
				LatMin:   -90, LatMax: 90,
				LonMin: -180, LonMax: 180,
				Interpolation: "linear",
				RadiusKm:      370,
			},
		},
		{
			name: "minimum run",
			input: launchRequest{
				Balloons: 1,
				Steps:    1,
				LatMin:   0, LatMax: 0,
				LonMin: 0, LonMax: 0,
				RadiusKm: 1,
			},
		},
		{
			name: "maximum horizon",
			input: launchRequest{
				Balloons: 1000,
				Steps:    8760,
				LatMin:   -80, LatMax: 80,
				LonMin: -179, LonMax: 179,
				Interpolation: "step",
				RadiusKm:      370,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	valid := launchRequest{
		Balloons: 10,
		Steps:    24,
		LatMin:   -60, LatMax: 60,
		LonMin: -120, LonMax: 120,
		RadiusKm: 370,
	}

	tests := []struct {
		name      string
		mutate    func(*launchRequest)
		wantField string
		wantTag   string
	}{
		{
			name:      "zero balloons",
			mutate:    func(r *launchRequest) { r.Balloons = 0 },
			wantField: "Balloons",
			wantTag:   "min",
		},
		{
			name:      "too many steps",
			mutate:    func(r *launchRequest) { r.Steps = 9000 },
			wantField: "Steps",
			wantTag:   "max",
		},
		{
			name:      "latitude out of range",
			mutate:    func(r *launchRequest) { r.LatMax = 91 },
			wantField: "LatMax",
			wantTag:   "latitude",
		},
		{
			name:      "longitude out of range",
			mutate:    func(r *launchRequest) { r.LonMin = -181 },
			wantField: "LonMin",
			wantTag:   "longitude",
		},
		{
			name:      "unknown interpolation",
			mutate:    func(r *launchRequest) { r.Interpolation = "cubic" },
			wantField: "Interpolation",
			wantTag:   "oneof",
		},
		{
			name:      "non-positive radius",
			mutate:    func(r *launchRequest) { r.RadiusKm = 0 },
			wantField: "RadiusKm",
			wantTag:   "gt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)

			err := ValidateStruct(&input)
			if err == nil {
				t.Fatal("ValidateStruct() should return an error")
			}

			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	input := launchRequest{
		Balloons: 0,
		Steps:    0,
		LatMin:   -95, LatMax: 60,
		LonMin: 0, LonMax: 0,
		RadiusKm: 370,
	}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("ValidateStruct() should return an error")
	}
	if len(err.Errors()) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(err.Errors()), err)
	}

	// Combined message should mention every failed field.
	msg := err.Error()
	for _, field := range []string{"Balloons", "Steps", "LatMin"} {
		if !strings.Contains(msg, field) {
			t.Errorf("Error() = %q, missing field %q", msg, field)
		}
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	input := launchRequest{
		Balloons: 10,
		Steps:    24,
		LatMin:   0, LatMax: 0,
		LonMin: 0, LonMax: 0,
		RadiusKm: -5,
	}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("ValidateStruct() should return an error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "RadiusKm" {
		t.Errorf("Details[field] = %v, want RadiusKm", apiErr.Details["field"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	input := launchRequest{
		Balloons: -1,
		Steps:    -1,
		LatMin:   0, LatMax: 0,
		LonMin: 0, LonMax: 0,
		RadiusKm: 370,
	}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("ValidateStruct() should return an error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details[fields] has type %T, want []map[string]interface{}", apiErr.Details["fields"])
	}
	if len(fields) != 2 {
		t.Errorf("got %d field entries, want 2", len(fields))
	}
}

func TestTranslateError_Messages(t *testing.T) {
	tests := []struct {
		name    string
		input   launchRequest
		wantSub string
	}{
		{
			name: "latitude message",
			input: launchRequest{
				Balloons: 1, Steps: 1, LatMin: 120, LatMax: 0,
				LonMin: 0, LonMax: 0, RadiusKm: 1,
			},
			wantSub: "valid latitude",
		},
		{
			name: "min message",
			input: launchRequest{
				Balloons: 0, Steps: 1, LatMin: 0, LatMax: 0,
				LonMin: 0, LonMax: 0, RadiusKm: 1,
			},
			wantSub: "at least 1",
		},
		{
			name: "oneof message",
			input: launchRequest{
				Balloons: 1, Steps: 1, LatMin: 0, LatMax: 0,
				LonMin: 0, LonMax: 0, RadiusKm: 1, Interpolation: "spline",
			},
			wantSub: "must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() should return an error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Error() = %q, want substring %q", err.Error(), tt.wantSub)
			}
		})
	}
}
