package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// dbFileName is the SQLite file created inside the cache directory.
const dbFileName = "sitemd.db"

// Store provides SQLite-backed storage for the crawl frontier and the
// page store. It manages the connection pool and owns the schema.
//
// Design decision: one database file per cache directory rather than
// separate files for frontier and pages. Resumability needs the two
// tables to commit together, and a single file keeps the cache a single
// copyable artifact.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended: batch commits
	// during a crawl interleave with cursor reads during export.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the crawl store inside dir.
// If CreateIfNotExists is false and no database exists, an error is
// returned; this is how `export` refuses to run against an empty cache.
//
// The returned Store must be released with Close on every exit path;
// there is no finalizer fallback.
func Open(dir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("crawl cache not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check cache path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; the crawl loop is the only
	// writer so one connection avoids lock contention entirely.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the path of the underlying database file.
func (s *Store) Path() string {
	return s.dbPath
}

// createTables creates the schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Frontier: every discovered canonical URL and its crawl state.
	CREATE TABLE IF NOT EXISTS frontier (
		url TEXT PRIMARY KEY,
		visited INTEGER NOT NULL DEFAULT 0,
		retry_count INTEGER NOT NULL DEFAULT 0,
		discovered_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- The unvisited-batch query runs once per loop iteration; the
	-- partial state scan must stay sub-linear in frontier size.
	CREATE INDEX IF NOT EXISTS idx_frontier_visited ON frontier(visited);

	-- Pages: converted content keyed by canonical URL.
	-- content IS NULL marks a failed or skipped fetch.
	CREATE TABLE IF NOT EXISTS pages (
		url TEXT PRIMARY KEY,
		content TEXT,
		metadata TEXT NOT NULL
	);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// timestampFormats contains the timestamp formats SQLite may return.
// The order matters: more specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts multiple formats because SQLite returns
// timestamps differently depending on configuration. Returns zero time
// when nothing matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
