// Package apperror defines the error taxonomy shared by every layer.
//
// Each kind is a sentinel error. Constructors wrap the sentinel in an *AppError
// carrying a human-readable message, so callers match with errors.Is and the
// HTTP layer can show the message without leaking driver details.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrIDSpaceExhausted = errors.New("id space exhausted")
	ErrTooLarge         = errors.New("payload too large")
)

type AppError struct {
	Err     error  // sentinel kind
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Cause   error  // Optional: underlying driver error, never shown to clients
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// DuplicateKey reports that a record with the same key already exists.
// The service recovers from it by regenerating the identifier.
func DuplicateKey(resource, id string) *AppError {
	return &AppError{
		Err:     ErrDuplicateKey,
		Message: fmt.Sprintf("%s already exists with id %s", resource, id),
	}
}

// StoreUnavailable wraps a connectivity, timeout or driver failure.
func StoreUnavailable(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrStoreUnavailable,
		Message: fmt.Sprintf("store unavailable during %s", op),
		Cause:   cause,
	}
}

func IDSpaceExhausted(attempts int) *AppError {
	return &AppError{
		Err:     ErrIDSpaceExhausted,
		Message: fmt.Sprintf("no free identifier after %d attempts", attempts),
	}
}

func TooLarge(limit int64) *AppError {
	return &AppError{
		Err:     ErrTooLarge,
		Message: fmt.Sprintf("request body must be %d bytes or less", limit),
	}
}
