// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a thread-safe
// singleton validator instance with user-friendly error messages. It integrates
// with the API's error envelope so editor request bodies fail consistently.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Error translation to human-readable messages keyed by json field name
//   - APIError conversion matching the VALIDATION_ERROR response format
//   - A "category" validator for "|"-separated category tag lists
//
// # Request Types
//
// The request bodies in internal/models carry their rules as struct tags:
//
//	type SyncRequest struct {
//	    StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
//	    EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
//	}
//
// Cross-field rules (start before end, both or neither) are checked by the
// sync package when it parses the range, since they need the parsed dates.
//
// # Error Format
//
// A single failure produces:
//
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "title is required",
//	    "details": {"field": "title", "tag": "required", "value": ""}
//	}
//
// Several failures are joined into one message and listed under
// details.fields.
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use. The validator
// caches struct metadata after the first validation of each type.
package validation
