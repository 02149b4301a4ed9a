// Vidarium - Self-Hosted Video Catalog and Ingestion Service
// Copyright 2026 A. V. Bell (avbell)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avbell/vidarium

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/avbell/vidarium/internal/logging"
	"github.com/avbell/vidarium/internal/models"
)

// APIResponse is the wrapper for every non-streaming endpoint.
type APIResponse struct {
	// Success indicates whether the request was successful
	Success bool `json:"success"`

	// Data contains the response payload (null on error)
	Data interface{} `json:"data,omitempty"`

	// Error contains error details (null on success)
	Error *APIError `json:"error,omitempty"`
}

// APIError represents an error response body.
type APIError struct {
	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`
}

// Error codes for API responses.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("failed to encode response")
	}
}

func respondSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

// respondDomainError maps the domain error taxonomy onto HTTP statuses.
// Unknown errors are reported as internal without leaking detail.
func respondDomainError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error())
	case errors.Is(err, models.ErrPersistence):
		logging.Error().Err(err).Msg("persistence failure")
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "persistence failure")
	default:
		logging.Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}
