package policy

import (
	"path"
	"regexp"
	"strings"
)

// unsafeSegmentChars matches characters that are invalid or risky in
// filesystem path segments across platforms.
var unsafeSegmentChars = regexp.MustCompile(`[\\:*?"<>|\x00-\x1f]`)

// SafeSegment sanitizes a single path segment for filesystem use.
// Invalid characters become underscores; "." and ".." collapse to
// underscores so a hostile URL cannot traverse out of the output tree.
func SafeSegment(segment string) string {
	cleaned := unsafeSegmentChars.ReplaceAllString(segment, "_")
	cleaned = strings.Trim(cleaned, " ")
	if cleaned == "." || cleaned == ".." {
		return strings.Repeat("_", len(cleaned))
	}
	return cleaned
}

// RelativePath derives a filesystem-safe relative path for a page URL.
// The scheme is stripped, the base URL prefix is removed when provided,
// every segment is sanitized, and the result gets a .md suffix
// ("index.md" for directory-style URLs).
func RelativePath(pageURL, base string) string {
	trimmed := pageURL
	if base != "" {
		trimmed = strings.TrimPrefix(trimmed, base)
	}
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")

	// Query strings become part of the filename rather than being
	// dropped, since distinct queries are distinct pages.
	trimmed = strings.ReplaceAll(trimmed, "?", "_")

	segments := strings.Split(trimmed, "/")
	cleaned := make([]string, 0, len(segments)+1)
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		cleaned = append(cleaned, SafeSegment(seg))
	}

	if strings.HasSuffix(trimmed, "/") || len(cleaned) == 0 {
		cleaned = append(cleaned, "index.md")
	} else {
		cleaned[len(cleaned)-1] += ".md"
	}

	return path.Join(cleaned...)
}
