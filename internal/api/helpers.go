// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Jihx-0/cinemate-recommendation-engine/internal/logging"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/models"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/validation"
)

// sanitizeLogValue strips control characters from strings before they
// reach the log, preventing forged log entries from request input.
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

// respondJSON writes a response envelope with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
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

// respondError writes an error envelope and logs the underlying cause.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}
	respondJSON(w, status, models.Failure(code, message))
}

// decodeJSON parses a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// validateRequest validates a request struct's `validate` tags and maps
// failures to the standard VALIDATION_ERROR shape.
func validateRequest(v interface{}) *models.APIError {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	return &models.APIError{
		Code:    "VALIDATION_ERROR",
		Message: verr.Error(),
		Details: verr.Fields,
	}
}

// respondValidationError writes the standard VALIDATION_ERROR envelope
// including the per-field details.
func respondValidationError(w http.ResponseWriter, apiErr *models.APIError) {
	resp := models.Failure(apiErr.Code, apiErr.Message)
	resp.Error.Details = apiErr.Details
	respondJSON(w, http.StatusBadRequest, resp)
}

// getIntParam extracts an integer query parameter with a default.
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
