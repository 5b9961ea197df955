// Package repository declares the storage contracts the service depends on.
// Implementations live in sub-packages (sqlite, redis).
package repository

import (
	"context"

	"github.com/sakif/notecode/internal/model"
)

// SnippetRepository is durable keyed storage for snippets.
//
// Put must be atomic: if two writers race on the same ID exactly one succeeds
// and the other gets apperror.ErrDuplicateKey. Uniqueness comes from the
// backend's own constraint, not from a lock in the caller.
//
// Errors:
//   - Put: apperror.ErrDuplicateKey, apperror.ErrStoreUnavailable
//   - Get: apperror.ErrNotFound, apperror.ErrStoreUnavailable
type SnippetRepository interface {
	Put(ctx context.Context, snippet *model.Snippet) error
	Get(ctx context.Context, id string) (*model.Snippet, error)
}

// Store is a SnippetRepository with an explicit lifecycle.
// It is opened at startup and closed on shutdown by the server.
type Store interface {
	SnippetRepository
	Ping(ctx context.Context) error
	Close() error
}
