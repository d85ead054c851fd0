package policy

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Policy filters and canonicalizes URLs for one crawl run.
//
// The include/exclude pattern lists are compiled once at construction into
// single alternation regexps, so per-URL evaluation is a single match
// regardless of how many patterns are configured.
type Policy struct {
	// scopeHost and scopePath define the crawl scope. An empty scopeHost
	// disables the scope test.
	scopeHost string
	scopePath string

	// include and exclude are the precompiled pattern matchers.
	// Nil means the corresponding filter is inactive.
	include *regexp.Regexp
	exclude *regexp.Regexp
}

// New creates a Policy scoped to the given base URL.
// scope may be empty, in which case any http(s) host is accepted.
// Patterns are matched as literal substrings of the canonical URL.
func New(scope string, includePatterns, excludePatterns []string) (*Policy, error) {
	p := &Policy{}

	if scope != "" {
		canonical, err := Normalize(scope)
		if err != nil {
			return nil, fmt.Errorf("invalid scope URL %q: %w", scope, err)
		}
		u, err := url.Parse(canonical)
		if err != nil {
			return nil, fmt.Errorf("invalid scope URL %q: %w", scope, err)
		}
		p.scopeHost = u.Host
		p.scopePath = strings.TrimSuffix(u.Path, "/")
	}

	p.include = compilePatterns(includePatterns)
	p.exclude = compilePatterns(excludePatterns)
	return p, nil
}

// compilePatterns joins literal patterns into one alternation regexp.
// Returns nil for an empty list (filter inactive).
func compilePatterns(patterns []string) *regexp.Regexp {
	quoted := make([]string, 0, len(patterns))
	for _, pat := range patterns {
		if pat == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(pat))
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(strings.Join(quoted, "|"))
}

// Normalize converts an absolute URL to canonical form without applying
// scope or pattern filters: lowercase scheme and host, default port
// stripped, fragment dropped, empty path rewritten to "/". The query is
// preserved. Normalize is a fixed point: normalizing a canonical URL
// returns it unchanged.
func Normalize(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return normalizeURL(u)
}

func normalizeURL(u *url.URL) (string, error) {
	if !u.IsAbs() {
		return "", fmt.Errorf("%w: %q", ErrRelativeURL, u.String())
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)

	// Strip default ports so http://a.com:80/ and http://a.com/ collapse
	// to the same key.
	if (scheme == "http" && strings.HasSuffix(u.Host, ":80")) ||
		(scheme == "https" && strings.HasSuffix(u.Host, ":443")) {
		u.Host = u.Host[:strings.LastIndex(u.Host, ":")]
	}

	u.Fragment = ""

	// Empty path and "/" are the same resource. Trailing slashes on
	// non-empty paths are preserved as-is; servers routinely distinguish
	// /docs from /docs/ and collapsing them would merge distinct pages.
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String(), nil
}

// Canonicalize resolves raw against base (which may be nil for absolute
// URLs such as seeds), normalizes it, and applies the scope and pattern
// filters in order. It returns the canonical URL or a typed rejection.
func (p *Policy) Canonicalize(raw string, base *url.URL) (string, error) {
	raw = strings.TrimSpace(raw)
	ref, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	// Reject non-http(s) schemes before resolution; resolving a
	// mailto: or javascript: reference against a base is meaningless.
	if ref.Scheme != "" {
		scheme := strings.ToLower(ref.Scheme)
		if scheme != "http" && scheme != "https" {
			return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, ref.Scheme)
		}
	}

	if base != nil {
		ref = base.ResolveReference(ref)
	}

	canonical, err := normalizeURL(ref)
	if err != nil {
		return "", err
	}

	if err := p.checkScope(ref); err != nil {
		return "", err
	}

	// Exclude wins over include: a URL matching both is rejected.
	if p.exclude != nil && p.exclude.MatchString(canonical) {
		return "", fmt.Errorf("%w: %q", ErrExcluded, canonical)
	}
	if p.include != nil && !p.include.MatchString(canonical) {
		return "", fmt.Errorf("%w: %q", ErrNotIncluded, canonical)
	}

	return canonical, nil
}

// checkScope tests host equality and path-segment prefix containment.
// The comparison is on parsed components, not raw string prefixes:
// scope /docs accepts /docs and /docs/x but rejects /docs-extra/x.
func (p *Policy) checkScope(u *url.URL) error {
	if p.scopeHost == "" {
		return nil
	}
	if !strings.EqualFold(u.Host, p.scopeHost) {
		return fmt.Errorf("%w: host %q", ErrOutOfScope, u.Host)
	}
	if p.scopePath == "" {
		return nil
	}

	path := u.Path
	if path == p.scopePath || strings.HasPrefix(path, p.scopePath+"/") {
		return nil
	}
	return fmt.Errorf("%w: path %q outside %q", ErrOutOfScope, path, p.scopePath)
}
