package apperror

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// Table-driven: each case checks that errors.Is() sees the right sentinel,
// including through fmt.Errorf %w wrapping added by callers.
func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("snippet", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("id", "snippet ID is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "DuplicateKey wraps ErrDuplicateKey",
			err:       DuplicateKey("snippet", "abc123"),
			target:    ErrDuplicateKey,
			wantMatch: true,
		},
		{
			name:      "StoreUnavailable wraps ErrStoreUnavailable",
			err:       StoreUnavailable("put", errors.New("connection refused")),
			target:    ErrStoreUnavailable,
			wantMatch: true,
		},
		{
			name:      "StoreUnavailable exposes its cause",
			err:       StoreUnavailable("get", context.DeadlineExceeded),
			target:    context.DeadlineExceeded,
			wantMatch: true,
		},
		{
			name:      "IDSpaceExhausted wraps ErrIDSpaceExhausted",
			err:       IDSpaceExhausted(5),
			target:    ErrIDSpaceExhausted,
			wantMatch: true,
		},
		{
			name:      "TooLarge wraps ErrTooLarge",
			err:       TooLarge(1024),
			target:    ErrTooLarge,
			wantMatch: true,
		},
		{
			name:      "wrapped NotFound still matches",
			err:       fmt.Errorf("getting snippet: %w", NotFound("snippet", "x")),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("snippet", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "DuplicateKey does NOT match ErrStoreUnavailable",
			err:       DuplicateKey("snippet", "abc123"),
			target:    ErrStoreUnavailable,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("snippet", "abc123"),
			wantMessage: "snippet not found with id abc123",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("code", "code is required"),
			wantMessage: "code is required",
		},
		{
			name:        "DuplicateKey message includes resource and id",
			err:         DuplicateKey("snippet", "abc123"),
			wantMessage: "snippet already exists with id abc123",
		},
		{
			name:        "StoreUnavailable appends the cause",
			err:         StoreUnavailable("put", errors.New("disk I/O error")),
			wantMessage: "store unavailable during put: disk I/O error",
		},
		{
			name:        "IDSpaceExhausted reports attempts",
			err:         IDSpaceExhausted(3),
			wantMessage: "no free identifier after 3 attempts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("creating snippet: %w", ValidationFailed("code", "code is required"))

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As() did not find *AppError in the chain")
	}
	if appErr.Field != "code" {
		t.Errorf("Field = %q, want %q", appErr.Field, "code")
	}
	if appErr.Message != "code is required" {
		t.Errorf("Message = %q, want %q", appErr.Message, "code is required")
	}
}
