package model

import "time"

// FrontierEntry is a known URL and its crawl state.
//
// Invariants: URL is always canonical and unique within the frontier;
// Visited only transitions false to true within a run. A failed entry is
// re-opened on a later run only while RetryCount is under the configured
// ceiling, after which it is frozen permanently.
type FrontierEntry struct {
	// URL is the canonical URL.
	URL string

	// Visited reports whether a classified result exists for this URL.
	Visited bool

	// RetryCount is the number of failed crawl attempts across runs.
	RetryCount int

	// DiscoveredAt is when the URL first entered the frontier.
	// Dequeue order is FIFO by discovery.
	DiscoveredAt time.Time
}
