package model

// CrawlResult is the outcome of processing a single URL.
// Every outcome is classified: a failed fetch produces a result with nil
// Content and a populated ErrorKind, never an error escaping the processor.
// Persistence is the caller's responsibility; the processor has no side
// effects beyond this value.
type CrawlResult struct {
	// URL is the canonical URL that was processed.
	URL string

	// Content is the converted Markdown, nil on failure or skip.
	Content *string

	// Metadata describes the fetch and conversion outcome.
	Metadata PageMetadata

	// Links are the canonical in-scope URLs discovered on the page,
	// deduplicated and sorted.
	Links []string
}

// OK reports whether the page yielded content.
func (r *CrawlResult) OK() bool {
	return r.Content != nil
}
