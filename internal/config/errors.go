package config

import "errors"

// Configuration validation errors.
// These are package-level sentinels so callers can match them with
// errors.Is while still getting a human-readable message.
var (
	// ErrNoSeed is returned when no seed URL is specified.
	ErrNoSeed = errors.New("no seed URL specified: provide at least one --url")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRateLimit is returned when the rate limit is negative.
	// Use 0 to disable the rolling-window limit.
	ErrInvalidRateLimit = errors.New("invalid rate limit: must be non-negative")

	// ErrInvalidDelay is returned when the request delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidRetryCeiling is returned when the retry ceiling is negative.
	// Use 0 to disable crawl-layer retries entirely.
	ErrInvalidRetryCeiling = errors.New("invalid retry ceiling: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would make the crawl loop spin without progress.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to keep the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrCacheDirRequired is returned when an export has no cache to read.
	ErrCacheDirRequired = errors.New("no cache directory specified: provide --cache-dir")

	// ErrNoExport is returned when every export mode is disabled.
	// A crawl whose output can never be read is a configuration mistake.
	ErrNoExport = errors.New("all exports disabled: enable markdown, json, or per-page files")
)
