package export

import (
	"context"
	"log/slog"

	"github.com/sitemd/sitemd/internal/database"
	"github.com/sitemd/sitemd/internal/model"
)

// Streamer exports pages from an open store. It never materializes the
// whole page table: each mode pulls batches through the store's keyset
// cursor and streams them out.
type Streamer struct {
	store      *database.Store
	title      string
	baseURL    string
	minify     bool
	minifyJSON bool
	batchSize  int
	logger     *slog.Logger
}

// Option configures a Streamer.
type Option func(*Streamer)

// WithMinify strips blank lines, comments, and horizontal rules from the
// compiled Markdown, leaving fenced code blocks untouched.
func WithMinify(on bool) Option {
	return func(s *Streamer) {
		s.minify = on
	}
}

// WithMinifyJSON emits compact JSON instead of indented.
func WithMinifyJSON(on bool) Option {
	return func(s *Streamer) {
		s.minifyJSON = on
	}
}

// WithBatchSize sets the cursor page size.
func WithBatchSize(n int) Option {
	return func(s *Streamer) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithBaseURL sets the URL prefix stripped from page URLs when deriving
// per-page file paths. Typically the first seed.
func WithBaseURL(base string) Option {
	return func(s *Streamer) {
		s.baseURL = base
	}
}

// WithExportLogger sets the logger. Defaults to slog.Default().
func WithExportLogger(logger *slog.Logger) Option {
	return func(s *Streamer) {
		s.logger = logger
	}
}

// New creates a Streamer. Title heads the compiled Markdown document.
func New(store *database.Store, title string, opts ...Option) *Streamer {
	s := &Streamer{
		store:     store,
		title:     title,
		batchSize: 100,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// forEachPage drives the keyset cursor over the page store, calling fn
// for every record in URL order.
func (s *Streamer) forEachPage(ctx context.Context, fn func(model.PageRecord) error) error {
	cursor := ""
	for {
		batch, err := s.store.SelectPageBatch(ctx, cursor, s.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		for _, rec := range batch {
			if err := fn(rec); err != nil {
				return err
			}
		}
		cursor = batch[len(batch)-1].URL
	}
}
