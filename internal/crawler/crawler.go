package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sitemd/sitemd/internal/database"
	"github.com/sitemd/sitemd/internal/model"
	"github.com/sitemd/sitemd/internal/policy"
	"github.com/sitemd/sitemd/internal/throttle"
)

// Crawler drives the crawl loop: dequeue a batch from the frontier,
// process each URL under the rate governor, then commit the batch's
// pages, discovered links, and visited marks together. A crash loses at
// most the current batch, never part of one.
type Crawler struct {
	store        *database.Store
	processor    *Processor
	governor     *throttle.Governor
	retryCeiling int
	batchSize    int
	observer     func(model.Progress)
	logger       *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithBatchSize sets the number of frontier entries per batch.
func WithBatchSize(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithRetryCeiling sets the crawl-layer attempt ceiling per URL.
func WithRetryCeiling(n int) Option {
	return func(c *Crawler) {
		c.retryCeiling = n
	}
}

// WithObserver sets a callback invoked after every committed batch.
// The crawler itself never writes to the console.
func WithObserver(fn func(model.Progress)) Option {
	return func(c *Crawler) {
		c.observer = fn
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler over an open store.
func New(store *database.Store, processor *Processor, governor *throttle.Governor, opts ...Option) *Crawler {
	c := &Crawler{
		store:        store,
		processor:    processor,
		governor:     governor,
		retryCeiling: 3,
		batchSize:    200,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Run crawls until the frontier has no unvisited entries. Seeds are
// canonicalized and enqueued first, then previously failed pages under
// the retry ceiling are re-opened, so an interrupted or failed run
// resumes from the same cache. The summary covers this run's work plus
// the cache-wide totals.
func (c *Crawler) Run(ctx context.Context, seeds []string) (*model.CrawlSummary, error) {
	started := time.Now()

	canonical := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		u, err := policy.Normalize(seed)
		if err != nil {
			return nil, fmt.Errorf("invalid seed %q: %w", seed, err)
		}
		canonical = append(canonical, u)
	}

	summary := &model.CrawlSummary{
		Seeds:     canonical,
		StartedAt: started,
	}

	if _, err := c.store.Enqueue(ctx, canonical); err != nil {
		return nil, fmt.Errorf("failed to enqueue seeds: %w", err)
	}

	requeued, err := c.store.RequeueFailed(ctx, c.retryCeiling)
	if err != nil {
		return nil, fmt.Errorf("failed to requeue previous failures: %w", err)
	}
	summary.Requeued = requeued
	if requeued > 0 {
		c.logger.Debug("re-opened previously failed pages", "count", requeued)
	}

	for {
		if err := ctx.Err(); err != nil {
			return c.finish(summary, started), err
		}

		entries, err := c.store.DequeueBatch(ctx, c.batchSize)
		if err != nil {
			return c.finish(summary, started), fmt.Errorf("failed to dequeue batch: %w", err)
		}
		if len(entries) == 0 {
			break
		}

		if err := c.processBatch(ctx, entries, summary); err != nil {
			return c.finish(summary, started), err
		}

		if c.observer != nil {
			c.observer(c.progress(ctx))
		}
	}

	return c.finish(summary, started), nil
}

// processBatch fetches every entry in the batch and commits the results:
// page records first, then discovered links, then the visited and failed
// marks. Pages land before marks so a crash cannot mark a URL done
// without its record.
func (c *Crawler) processBatch(ctx context.Context, entries []model.FrontierEntry, summary *model.CrawlSummary) error {
	records := make([]model.PageRecord, 0, len(entries))
	var discovered []string
	var visited []string
	var failed []string

	for _, entry := range entries {
		if err := c.governor.Wait(ctx); err != nil {
			return err
		}

		result := c.processor.Process(ctx, entry.URL)
		records = append(records, model.PageRecord{
			URL:      result.URL,
			Content:  result.Content,
			Metadata: result.Metadata,
		})
		discovered = append(discovered, result.Links...)

		switch {
		case result.OK():
			summary.Succeeded++
			visited = append(visited, entry.URL)
		case result.Metadata.ErrorKind == model.ErrorKindNonHTML,
			result.Metadata.ErrorKind == model.ErrorKindNonSuccessStatus:
			summary.Skipped++
			failed = append(failed, entry.URL)
		default:
			failed = append(failed, entry.URL)
		}
	}

	if err := c.store.UpsertPages(ctx, records); err != nil {
		return fmt.Errorf("failed to store pages: %w", err)
	}

	newlyDiscovered, err := c.store.Enqueue(ctx, discovered)
	if err != nil {
		return fmt.Errorf("failed to enqueue discovered links: %w", err)
	}
	if newlyDiscovered > 0 {
		c.logger.Debug("discovered new pages", "count", newlyDiscovered)
	}

	if err := c.store.MarkVisited(ctx, visited); err != nil {
		return fmt.Errorf("failed to mark pages visited: %w", err)
	}
	for _, u := range failed {
		if err := c.store.MarkFailed(ctx, u); err != nil {
			return fmt.Errorf("failed to record failure: %w", err)
		}
	}

	return nil
}

// progress builds an observer snapshot from the store counts. Count
// errors degrade to zeros; progress display never aborts a crawl.
func (c *Crawler) progress(ctx context.Context) model.Progress {
	visited, _ := c.store.CountVisited(ctx)
	unvisited, _ := c.store.CountUnvisited(ctx)
	failed, _ := c.store.CountFailedPages(ctx)
	return model.Progress{Visited: visited, Unvisited: unvisited, Failed: failed}
}

// finish fills the cache-wide totals into the summary.
func (c *Crawler) finish(summary *model.CrawlSummary, started time.Time) *model.CrawlSummary {
	ctx := context.Background()
	summary.Duration = time.Since(started)
	summary.Discovered, _ = c.store.CountFrontier(ctx)
	summary.Visited, _ = c.store.CountVisited(ctx)
	summary.Failed, _ = c.store.CountFailedPages(ctx)
	return summary
}
