package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sitemd/sitemd/internal/model"
)

// UpsertPages inserts or updates page records in one transaction.
// Records are never deleted: a failed attempt overwrites a previous
// failure, and a successful retry overwrites the null-content record.
func (s *Store) UpsertPages(ctx context.Context, records []model.PageRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin upsert transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO pages (url, content, metadata)
	VALUES (?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		content = excluded.content,
		metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		metadata, err := rec.Metadata.MarshalText()
		if err != nil {
			return fmt.Errorf("failed to serialize metadata for %q: %w", rec.URL, err)
		}

		var content sql.NullString
		if rec.Content != nil {
			content = sql.NullString{String: *rec.Content, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, rec.URL, content, metadata); err != nil {
			return fmt.Errorf("failed to upsert page %q: %w", rec.URL, err)
		}
	}

	return tx.Commit()
}

// SelectPageBatch returns up to limit page records with URLs greater than
// afterURL, ordered by URL. This keyset cursor is the only read path the
// exporter uses: iterating with any batch size yields the same sequence,
// and no query ever materializes the whole table.
func (s *Store) SelectPageBatch(ctx context.Context, afterURL string, limit int) ([]model.PageRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT url, content, metadata FROM pages WHERE url > ? ORDER BY url LIMIT ?",
		afterURL, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to select page batch: %w", err)
	}
	defer rows.Close()

	var records []model.PageRecord
	for rows.Next() {
		var rec model.PageRecord
		var content sql.NullString
		var metadata string
		if err := rows.Scan(&rec.URL, &content, &metadata); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		if content.Valid {
			rec.Content = &content.String
		}
		rec.Metadata = model.ParseMetadata(metadata)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetPage returns a single page record, or nil when the URL is unknown.
func (s *Store) GetPage(ctx context.Context, url string) (*model.PageRecord, error) {
	var rec model.PageRecord
	var content sql.NullString
	var metadata string

	err := s.db.QueryRowContext(ctx,
		"SELECT url, content, metadata FROM pages WHERE url = ?",
		url,
	).Scan(&rec.URL, &content, &metadata)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	if content.Valid {
		rec.Content = &content.String
	}
	rec.Metadata = model.ParseMetadata(metadata)
	return &rec, nil
}

// CountPages returns the total number of stored page records.
func (s *Store) CountPages(ctx context.Context) (int, error) {
	return s.countRows(ctx, "SELECT COUNT(*) FROM pages")
}

// CountFailedPages returns the number of records with null content.
// These are the crawl-layer retry candidates.
func (s *Store) CountFailedPages(ctx context.Context) (int, error) {
	return s.countRows(ctx, "SELECT COUNT(*) FROM pages WHERE content IS NULL")
}
