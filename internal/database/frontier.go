package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sitemd/sitemd/internal/model"
)

// Enqueue inserts URLs into the frontier, ignoring any that are already
// present. The insert is idempotent: re-enqueuing a known URL never
// duplicates it and never reverts its visited flag. All inserts commit in
// one transaction. Returns the number of newly inserted entries.
func (s *Store) Enqueue(ctx context.Context, urls []string) (int, error) {
	if len(urls) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin enqueue transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO frontier (url) VALUES (?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare enqueue: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, u := range urls {
		res, err := stmt.ExecContext(ctx, u)
		if err != nil {
			return 0, fmt.Errorf("failed to enqueue %q: %w", u, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit enqueue: %w", err)
	}
	return inserted, nil
}

// DequeueBatch returns up to limit unvisited entries in FIFO discovery
// order. Entries are NOT marked visited here: the caller marks them after
// processing, so a crash mid-batch leaves them safely re-dequeueable.
func (s *Store) DequeueBatch(ctx context.Context, limit int) ([]model.FrontierEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT url, visited, retry_count, discovered_at FROM frontier WHERE visited = 0 ORDER BY rowid LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue batch: %w", err)
	}
	defer rows.Close()

	var entries []model.FrontierEntry
	for rows.Next() {
		var entry model.FrontierEntry
		var visited int
		var discovered string
		if err := rows.Scan(&entry.URL, &visited, &entry.RetryCount, &discovered); err != nil {
			return nil, fmt.Errorf("failed to scan frontier entry: %w", err)
		}
		entry.Visited = visited != 0
		entry.DiscoveredAt = parseTimestamp(discovered)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// MarkVisited marks the given URLs visited in one transaction.
func (s *Store) MarkVisited(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin mark-visited transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, "UPDATE frontier SET visited = 1 WHERE url = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare mark-visited: %w", err)
	}
	defer stmt.Close()

	for _, u := range urls {
		if _, err := stmt.ExecContext(ctx, u); err != nil {
			return fmt.Errorf("failed to mark %q visited: %w", u, err)
		}
	}

	return tx.Commit()
}

// MarkFailed records a failed attempt: the retry count increments and the
// entry is marked visited so the current run terminates. A later run may
// re-open it through RequeueFailed while the count stays under the
// ceiling.
func (s *Store) MarkFailed(ctx context.Context, url string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE frontier SET retry_count = retry_count + 1, visited = 1 WHERE url = ?",
		url,
	)
	if err != nil {
		return fmt.Errorf("failed to mark %q failed: %w", url, err)
	}
	return nil
}

// RequeueFailed re-opens frontier entries whose stored page has null
// content and whose retry count is still under the ceiling. Entries at or
// over the ceiling stay frozen: visited remains set and the page record
// keeps its null content permanently. Returns the number of re-opened
// entries.
func (s *Store) RequeueFailed(ctx context.Context, ceiling int) (int, error) {
	res, err := s.db.ExecContext(ctx, `
	UPDATE frontier SET visited = 0
	WHERE visited = 1
	  AND retry_count < ?
	  AND url IN (SELECT url FROM pages WHERE content IS NULL)
	`, ceiling)
	if err != nil {
		return 0, fmt.Errorf("failed to requeue failed pages: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count requeued pages: %w", err)
	}
	return int(n), nil
}

// CountUnvisited returns the number of queued entries. Zero is the run's
// termination condition.
func (s *Store) CountUnvisited(ctx context.Context) (int, error) {
	return s.countRows(ctx, "SELECT COUNT(*) FROM frontier WHERE visited = 0")
}

// CountVisited returns the number of processed entries.
func (s *Store) CountVisited(ctx context.Context) (int, error) {
	return s.countRows(ctx, "SELECT COUNT(*) FROM frontier WHERE visited = 1")
}

// CountFrontier returns the total number of discovered entries.
func (s *Store) CountFrontier(ctx context.Context) (int, error) {
	return s.countRows(ctx, "SELECT COUNT(*) FROM frontier")
}

func (s *Store) countRows(ctx context.Context, query string) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count frontier: %w", err)
	}
	return count, nil
}

// FrontierEntry returns a single entry, or nil when the URL is unknown.
func (s *Store) FrontierEntry(ctx context.Context, url string) (*model.FrontierEntry, error) {
	var entry model.FrontierEntry
	var visited int
	var discovered string

	err := s.db.QueryRowContext(ctx,
		"SELECT url, visited, retry_count, discovered_at FROM frontier WHERE url = ?",
		url,
	).Scan(&entry.URL, &visited, &entry.RetryCount, &discovered)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get frontier entry: %w", err)
	}

	entry.Visited = visited != 0
	entry.DiscoveredAt = parseTimestamp(discovered)
	return &entry, nil
}
