// Package policy decides which URLs enter the crawl and in what form.
//
// It provides canonicalization (the deduplication key for the frontier and
// the page store), scope and include/exclude filtering with typed rejection
// reasons, and the path helpers used by the per-page exporter.
package policy
