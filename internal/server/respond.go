package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
)

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// apiError is the envelope returned for failed requests.
type apiError struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// writeError maps err to an HTTP status and writes the error envelope.
// Server-side failures are logged; client mistakes are not.
func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "err", err)
	}
	writeJSON(w, status, apiError{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

// statusFor translates structured error codes to HTTP statuses. Errors
// without a code, and unexpected codes, are server faults.
func statusFor(err error) int {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return http.StatusGatewayTimeout
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidTarget, errors.ErrCodeInvalidBackend,
		errors.ErrCodeInvalidStrategy, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidManifest,
		errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeTargetNotFound, errors.ErrCodeRunNotFound:
		return http.StatusNotFound
	case errors.ErrCodeSearchExhausted:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
