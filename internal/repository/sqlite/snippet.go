package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/notecode/internal/apperror"
	"github.com/sakif/notecode/internal/model"
	"github.com/sakif/notecode/internal/repository"
)

// Compile-time check that *DB implements repository.Store.
var _ repository.Store = (*DB)(nil)

// Put inserts a new snippet. The caller assigns ID and CreatedAt.
//
// A single INSERT is atomic: either the row is committed or nothing is
// visible to later reads. A primary key violation is reported as
// apperror.ErrDuplicateKey so the service can pick a fresh ID; every other
// failure (including the per-call timeout) is apperror.ErrStoreUnavailable.
func (db *DB) Put(ctx context.Context, snippet *model.Snippet) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO snippets (id, code, language, theme, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.Code,
		snippet.Language,
		snippet.Theme,
		snippet.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.DuplicateKey("snippet", snippet.ID)
		}
		return apperror.StoreUnavailable("put",
			errors.Wrapf(err, "sqlite: inserting snippet %s", snippet.ID))
	}

	return nil
}

// Get retrieves a single snippet by exact ID match.
// sql.ErrNoRows is translated to apperror.NotFound so the handler can return 404.
func (db *DB) Get(ctx context.Context, id string) (*model.Snippet, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var (
		snippet   model.Snippet
		createdAt string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, code, language, theme, created_at
		 FROM snippets
		 WHERE id = ?`,
		id,
	).Scan(
		&snippet.ID,
		&snippet.Code,
		&snippet.Language,
		&snippet.Theme,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, apperror.StoreUnavailable("get",
			errors.Wrapf(err, "sqlite: getting snippet %s", id))
	}

	snippet.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, apperror.StoreUnavailable("get",
			errors.Wrapf(err, "sqlite: parsing created_at of snippet %s", id))
	}

	return &snippet, nil
}

// isUniqueViolation reports whether err is SQLite's PRIMARY KEY or UNIQUE
// constraint failure. modernc.org/sqlite returns extended result codes.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlitedrv.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
