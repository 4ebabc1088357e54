// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

// Package models defines the shared API response envelope.
package models

import "time"

// APIResponse is the standardized wrapper used by all HTTP endpoints.
//
// Status is "success" or "error". Data carries the payload on success;
// Error is populated only on failure.
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "VALIDATION_ERROR", "message": "rating must be between 1 and 5"},
//	  "metadata": {"timestamp": "2026-08-30T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response generation details.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Success wraps a payload in a success envelope.
func Success(data interface{}) *APIResponse {
	return &APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: Metadata{Timestamp: time.Now().UTC()},
	}
}

// Failure wraps an error code and message in an error envelope.
func Failure(code, message string) *APIResponse {
	return &APIResponse{
		Status:   "error",
		Metadata: Metadata{Timestamp: time.Now().UTC()},
		Error:    &APIError{Code: code, Message: message},
	}
}
