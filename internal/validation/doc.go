// Stratodrift - Balloon Fleet Trajectory Simulation and Coverage Analytics
// Copyright 2026 Dana R. (driftlabs)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlabs/stratodrift

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a thread-safe
// singleton validator instance with user-friendly error messages. It integrates
// with the application's API error format for consistent error responses.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Error translation to human-readable messages
//   - APIError conversion matching the application's error format
//   - Built-in validator support (latitude, longitude, oneof, min/max, etc.)
//
// # Quick Start
//
//	type LaunchRequest struct {
//	    Balloons int `validate:"min=1,max=1000"`
//	    Steps    int `validate:"min=1,max=8760"`
//	    Seed     int64
//	}
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    var req LaunchRequest
//	    if err := json.Decode(r.Body, &req); err != nil {
//	        // handle decode error
//	    }
//
//	    if verr := validation.ValidateStruct(&req); verr != nil {
//	        apiErr := verr.ToAPIError()
//	        respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	        return
//	    }
//
//	    // proceed with valid request
//	}
//
// # Common Validation Tags
//
// Numeric validations:
//   - gte=n, lte=n, gt=n, lt=n: Range comparisons
//   - min=n, max=n: Minimum/maximum value (length for strings)
//
// Enum validations:
//   - oneof=step linear: Must be one of the specified values
//
// Coordinate validations:
//   - latitude: Valid latitude (-90 to 90)
//   - longitude: Valid longitude (-180 to 180)
//
// # API Error Integration
//
// The ToAPIError method produces errors matching the application format:
//
//	// Single field error
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "LatMax must be a valid latitude (-90 to 90)",
//	    "details": {"field": "LatMax", "tag": "latitude", "value": 91}
//	}
//
//	// Multiple field errors
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "Balloons: must be at least 1; Steps: must be at least 1",
//	    "details": {
//	        "fields": [
//	            {"field": "Balloons", "tag": "min", "message": "..."},
//	            {"field": "Steps", "tag": "min", "message": "..."}
//	        ]
//	    }
//	}
//
// # Thread Safety
//
// The singleton validator is initialized once and safe for concurrent use:
//
//	validate := validation.GetValidator()  // Thread-safe
//	err := validation.ValidateStruct(&req) // Thread-safe
//
// # See Also
//
//   - internal/api: Request handlers using validation
//   - github.com/go-playground/validator/v10: Underlying library
package validation
