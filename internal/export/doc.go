// Package export writes the crawled pages out as compiled Markdown,
// compiled JSON, and per-page Markdown files.
//
// Every export mode reads the page store through the same keyset cursor,
// so memory use stays bounded by the batch size and the output is
// identical for any batch size. Pages without content (failures and
// skips) are held in the cache for retrying but never exported.
package export
