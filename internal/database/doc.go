// Package database persists crawl state in SQLite.
//
// It holds the two shared mutable tables of a crawl run: the frontier
// (discovered URLs with visited/retry state) and the page store (converted
// content plus metadata, keyed by canonical URL). Every mutation commits
// per batch so an externally killed process leaves the cache consistent
// and resumable.
package database
