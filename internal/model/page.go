package model

import (
	"encoding/json"
	"time"
)

// MetadataVersion is the current version of the PageMetadata schema.
// It is stored with every record so that future schema changes can
// migrate or reinterpret old rows instead of guessing their shape.
const MetadataVersion = 1

// ErrorKind classifies why a page has no content.
// The classification drives retry decisions: only network failures are
// retried at the transport layer, and only pages with null content are
// candidates for crawl-layer requeuing.
type ErrorKind string

// Error classifications recorded in PageMetadata.
const (
	// ErrorKindNone means the page was converted successfully.
	ErrorKindNone ErrorKind = ""

	// ErrorKindNetwork covers connection errors, timeouts, and retry
	// exhaustion at the transport layer.
	ErrorKindNetwork ErrorKind = "network"

	// ErrorKindNonHTML means the response content type was not text/html.
	// The body is never downloaded for these responses.
	ErrorKindNonHTML ErrorKind = "non_html"

	// ErrorKindNonSuccessStatus means the response status was not 200.
	ErrorKindNonSuccessStatus ErrorKind = "non_200"

	// ErrorKindParse means the HTML document could not be parsed.
	ErrorKindParse ErrorKind = "parse"

	// ErrorKindConversion means both the primary and the fallback
	// Markdown converters failed on the parsed document.
	ErrorKindConversion ErrorKind = "conversion"

	// ErrorKindEmptyContent means conversion produced no text at all.
	ErrorKindEmptyContent ErrorKind = "empty_content"
)

// PageMetadata is the structured metadata stored alongside page content.
//
// Design decision: a fixed, versioned struct rather than a free-form map.
// Untyped metadata blobs make every reader guess at keys and types; the
// version field lets the schema evolve without breaking old caches.
type PageMetadata struct {
	// Version is the metadata schema version (MetadataVersion).
	Version int `json:"version"`

	// Title is the page title from the <title> tag, empty on failure.
	Title string `json:"title,omitempty"`

	// StatusCode is the HTTP response status, 0 when no response arrived.
	StatusCode int `json:"status_code,omitempty"`

	// ContentType is the response MIME type as reported by the server.
	ContentType string `json:"content_type,omitempty"`

	// RetrievedAt is when the fetch attempt completed.
	RetrievedAt time.Time `json:"retrieved_at"`

	// ErrorKind classifies the failure when content is null.
	ErrorKind ErrorKind `json:"error_kind,omitempty"`

	// ErrorMessage carries failure details for debugging.
	ErrorMessage string `json:"error_message,omitempty"`
}

// MarshalText serializes metadata to its stored JSON form.
func (m PageMetadata) MarshalText() (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseMetadata deserializes the stored JSON form. Malformed blobs yield
// a zero metadata value rather than an error so that a single corrupt row
// cannot abort an export.
func ParseMetadata(s string) PageMetadata {
	var m PageMetadata
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return PageMetadata{}
	}
	return m
}

// PageRecord is a persisted page keyed by canonical URL.
// Content is nil for pages that failed or were skipped; such records are
// kept (never deleted) so later runs can retry them.
type PageRecord struct {
	// URL is the canonical URL of the page.
	URL string `json:"url"`

	// Content is the converted Markdown, nil on failure or skip.
	Content *string `json:"content"`

	// Metadata describes the fetch outcome.
	Metadata PageMetadata `json:"metadata"`
}

// HasContent reports whether the record holds converted Markdown.
func (r PageRecord) HasContent() bool {
	return r.Content != nil
}
