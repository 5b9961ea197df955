package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// CONSISTENT ERROR FORMAT:
// Every error response from our API has the same shape:
//   {"error": "Snippet not found", "code": "not_found"}
//
// "error" is the human-readable text the editor shows; "code" is the
// machine-readable kind. Internal details (SQL, Redis, file paths) never
// reach the client.

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/sakif/notecode/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

const notFoundMessage = "Snippet not found"

// writeJSON sends a JSON response with the given status code.
// Headers and status must be written before the body.
func writeJSON(w http.ResponseWriter, logger zerolog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			logger.Error().Err(err).Msg("failed to encode JSON response")
		}
	}
}

// writeError maps a domain error to an HTTP status and sends it.
//
//	ErrValidation → 400
//	ErrNotFound   → 404
//	ErrTooLarge   → 413
//	anything else → 500 with internalMessage
//
// The service never knows about status codes; this is the only place
// they are chosen.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error, internalMessage string) {
	var appErr *apperror.AppError
	hasAppErr := errors.As(err, &appErr)

	switch {
	case errors.Is(err, apperror.ErrValidation) && hasAppErr:
		writeJSON(w, logger, http.StatusBadRequest, ErrorResponse{
			Error: appErr.Message,
			Code:  "validation_error",
		})
	case errors.Is(err, apperror.ErrNotFound):
		writeJSON(w, logger, http.StatusNotFound, ErrorResponse{
			Error: notFoundMessage,
			Code:  "not_found",
		})
	case errors.Is(err, apperror.ErrTooLarge) && hasAppErr:
		writeJSON(w, logger, http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: appErr.Message,
			Code:  "payload_too_large",
		})
	default:
		writeJSON(w, logger, http.StatusInternalServerError, ErrorResponse{
			Error: internalMessage,
			Code:  "internal_error",
		})
	}
}
