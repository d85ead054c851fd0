package model

import "time"

// CrawlSummary aggregates the outcome of a crawl run for reporting.
type CrawlSummary struct {
	// Seeds are the canonical seed URLs the run started from.
	Seeds []string `json:"seeds"`

	// StartedAt and Duration bound the run.
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	// Discovered is the total number of frontier entries at run end.
	Discovered int `json:"discovered"`

	// Visited is the number of entries processed across all runs.
	Visited int `json:"visited"`

	// Succeeded is the number of pages with converted content.
	Succeeded int `json:"succeeded"`

	// Skipped is the number of classified skips (non-HTML, non-200).
	Skipped int `json:"skipped"`

	// Failed is the number of pages with null content after this run.
	Failed int `json:"failed"`

	// Requeued is the number of previously failed pages re-opened at
	// run start under the retry ceiling.
	Requeued int `json:"requeued"`
}

// Progress is a point-in-time snapshot reported to the observer callback
// after every committed batch. The core performs no console output itself;
// the CLI renders these however it likes.
type Progress struct {
	// Visited is the number of processed frontier entries.
	Visited int

	// Unvisited is the number of entries still queued.
	Unvisited int

	// Failed is the number of failed pages so far in this run.
	Failed int
}
