package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Simplici0/labgrowth/internal/bundles"
	"github.com/Simplici0/labgrowth/internal/leads"
	"github.com/Simplici0/labgrowth/internal/logger"
	"github.com/Simplici0/labgrowth/internal/pricing"
	"github.com/Simplici0/labgrowth/internal/roi"
)

const (
	codeValidation   = "VALIDATION_ERROR"
	codeUnauthorized = "UNAUTHORIZED"
	codeNotFound     = "NOT_FOUND"
	codeRateLimit    = "RATE_LIMIT_EXCEEDED"
	codeInternal     = "INTERNAL_ERROR"
)

type successEnvelope struct {
	Data any `json:"data"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// apiError is an error already classified for the wire.
type apiError struct {
	status  int
	code    string
	message string
	details any
	err     error
}

func (e *apiError) Error() string {
	if e.err != nil {
		return e.message + ": " + e.err.Error()
	}
	return e.message
}

func (e *apiError) Unwrap() error { return e.err }

func validationError(message string, err error) *apiError {
	return &apiError{status: http.StatusBadRequest, code: codeValidation, message: message, err: err}
}

func notFound(message string, err error) *apiError {
	return &apiError{status: http.StatusNotFound, code: codeNotFound, message: message, err: err}
}

func unauthorized(message string) *apiError {
	return &apiError{status: http.StatusUnauthorized, code: codeUnauthorized, message: message}
}

func rateLimited(details any) *apiError {
	return &apiError{status: http.StatusTooManyRequests, code: codeRateLimit, message: "rate limit exceeded", details: details}
}

// classify maps domain errors onto the HTTP error taxonomy.
func classify(err error) *apiError {
	var typed *apiError
	if errors.As(err, &typed) {
		return typed
	}

	var invalid *leads.ValidationError
	if errors.As(err, &invalid) {
		return &apiError{
			status:  http.StatusBadRequest,
			code:    codeValidation,
			message: "validation failed",
			details: invalid.Fields,
			err:     err,
		}
	}

	switch {
	case pricing.IsValidationError(err),
		errors.Is(err, bundles.ErrUnknownBundle),
		errors.Is(err, bundles.ErrUnknownGoal),
		errors.Is(err, roi.ErrInvalidInput),
		errors.Is(err, leads.ErrInvalidLead):
		return validationError(err.Error(), err)
	case errors.Is(err, leads.ErrNotFound):
		return notFound("not found", err)
	}

	return &apiError{status: http.StatusInternalServerError, code: codeInternal, message: "internal server error", err: err}
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeSuccessStatus(w, http.StatusOK, data)
}

func writeSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successEnvelope{Data: data})
}

func writeError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	typed := classify(err)

	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"error_code": typed.code,
			"status":     typed.status,
		})
		if typed.status >= http.StatusInternalServerError {
			logg.Error(logCtx, "request.error", err)
		} else {
			logg.Warn(logg.WithField(logCtx, "error", err.Error()), "request.rejected")
		}
	}

	writeJSON(w, typed.status, errorEnvelope{Error: errorBody{
		Code:    typed.code,
		Message: typed.message,
		Details: typed.details,
	}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSONBody reads a single JSON object, rejecting unknown fields.
func decodeJSONBody(r *http.Request, dest any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		invalid := validationError("invalid request body", err)
		invalid.details = map[string]string{"error": err.Error()}
		return invalid
	}
	return nil
}
