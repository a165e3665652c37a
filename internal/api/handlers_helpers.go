// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/vodarchive/internal/database"
	"github.com/tomtom215/vodarchive/internal/logging"
	"github.com/tomtom215/vodarchive/internal/models"
	"github.com/tomtom215/vodarchive/internal/validation"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess sends data in a success envelope.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondError sends an error response. err, when non-nil, is logged and
// never sent to the client.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	respondErrorWithDetails(w, status, code, message, nil, err)
}

func respondErrorWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]interface{}, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// decodeBody decodes and validates a JSON request body into v. It writes
// the 400 response itself and reports whether the handler may continue.
// An empty body decodes to the zero value when allowEmpty is set.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body: "+sanitizeLogValue(err.Error()), nil)
			return false
		}
	}

	if apiErr := validateRequest(v); apiErr != nil {
		respondErrorWithDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return false
	}
	return true
}

// pathID parses a positive integer chi URL parameter.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", fmt.Sprintf("%s must be a positive integer", name), nil)
		return 0, false
	}
	return id, true
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// parseDateParam parses a query parameter as YYYY-MM-DD or RFC3339. Empty
// yields nil. A date-only "to" bound is made exclusive at the following
// midnight so the whole day is included.
func parseDateParam(r *http.Request, key string, endOfRange bool) (*time.Time, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, fmt.Errorf("%s must be YYYY-MM-DD or RFC3339", key)
	}
	if endOfRange {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}

// parseCommaSeparated splits a comma-separated query value, dropping blanks.
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// respondStoreError maps store errors to HTTP responses. Missing rows are
// 404, conflicting writes 409, malformed input 400 and anything else 500.
func respondStoreError(w http.ResponseWriter, err error) {
	var recErr *database.RecordError
	switch {
	case errors.Is(err, database.ErrVideoNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Video not found", nil)
	case errors.Is(err, database.ErrClipNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Clip not found", nil)
	case errors.Is(err, database.ErrLinkNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Video link not found", nil)
	case errors.Is(err, database.ErrConflict):
		respondError(w, http.StatusConflict, "CONFLICT", "The record was modified concurrently; retry the request", err)
	case errors.As(err, &recErr),
		errors.Is(err, database.ErrMissingField),
		errors.Is(err, database.ErrMalformedField):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", sanitizeLogValue(err.Error()), nil)
	default:
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "A database error occurred", err)
	}
}

// respondParentError is respondStoreError for clip writes, where an unknown
// vod_id is a bad reference in the body rather than a missing resource.
func respondParentError(w http.ResponseWriter, err error) {
	if errors.Is(err, database.ErrVideoNotFound) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "vod_id does not name a stored video", nil)
		return
	}
	respondStoreError(w, err)
}
