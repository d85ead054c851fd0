package policy

import "errors"

// Rejection reasons returned by Canonicalize.
// These are sentinel errors so callers can distinguish reasons with
// errors.Is; rejected URLs are never enqueued and never stored as pages.
var (
	// ErrInvalidURL is returned when the raw URL cannot be parsed at all.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrRelativeURL is returned for a relative URL with no base to
	// resolve against (seeds must be absolute).
	ErrRelativeURL = errors.New("relative URL without base")

	// ErrUnsupportedScheme is returned for non-http(s) schemes such as
	// mailto:, javascript:, and tel:.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")

	// ErrOutOfScope is returned when the URL falls outside the scope
	// host or path prefix.
	ErrOutOfScope = errors.New("URL out of crawl scope")

	// ErrExcluded is returned when the URL matches an exclude pattern.
	ErrExcluded = errors.New("URL matches exclude pattern")

	// ErrNotIncluded is returned when include patterns are configured
	// and the URL matches none of them.
	ErrNotIncluded = errors.New("URL matches no include pattern")
)
