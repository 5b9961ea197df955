// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go translation
// of the SQLite C code. No C compiler needed, works everywhere Go works.
//
// The snippets table is keyed by id TEXT PRIMARY KEY. That constraint is the
// only thing guaranteeing id uniqueness: two concurrent inserts of the same id
// can't both commit, and the loser is reported as apperror.ErrDuplicateKey.
package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DefaultQueryTimeout bounds every store call when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn         *sql.DB
	queryTimeout time.Duration
}

// New opens the database at dbPath, applies pragmas and runs migrations.
//
// dbPath examples:
//   - "data/notecode.db"  → file-based database (persistent)
//   - ":memory:"          → in-memory database (tests; lost on close)
//
// A queryTimeout <= 0 falls back to DefaultQueryTimeout.
func New(dbPath string, queryTimeout time.Duration) (*DB, error) {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}

	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "sqlite: opening database")
	}

	// Every connection to ":memory:" is a separate, empty database, so the pool
	// must never hand out a second one. SQLite serialises writers anyway.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// sql.Open doesn't connect; Ping surfaces a bad path or permissions now.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "sqlite: pinging database")
	}

	db := &DB{conn: conn, queryTimeout: queryTimeout}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "sqlite: running migrations")
	}

	return db, nil
}

// connPragmas run on every new connection the pool opens. A PRAGMA executed
// through *sql.DB only reaches whichever pooled connection ran it, so these
// go in the DSN where the driver applies them per connection.
//
//   - busy_timeout: concurrent writers wait up to 5s for the lock instead of
//     failing with SQLITE_BUSY.
//   - journal_mode(WAL): readers proceed while a write is in progress.
var connPragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
}

// dsn appends connPragmas to dbPath as modernc _pragma query parameters.
func dsn(dbPath string) string {
	var b strings.Builder
	b.WriteString(dbPath)
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	for _, p := range connPragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// Ping checks the database is reachable. Used by the readiness probe.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()
	return db.conn.PingContext(ctx)
}

// Close closes the database connection pool.
//
//	db, err := sqlite.New("data/notecode.db", 0)
//	if err != nil { ... }
//	defer db.Close()
func (db *DB) Close() error {
	return db.conn.Close()
}

// withTimeout derives the per-call deadline every store operation runs under.
func (db *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, db.queryTimeout)
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS is safe to re-run.
//
// created_at is stored as TEXT in RFC 3339 with nanoseconds (always UTC) so
// the value read back is exactly the value written.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id         TEXT PRIMARY KEY,
			code       TEXT NOT NULL DEFAULT '',
			language   TEXT NOT NULL DEFAULT '',
			theme      TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
	`)
	if err != nil {
		return errors.Wrap(err, "creating snippets table")
	}
	return nil
}
