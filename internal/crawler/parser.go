package crawler

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/sitemd/sitemd/internal/policy"
)

// scanDocument walks a parsed document once, extracting the page title
// and every in-scope link. Hrefs go through the policy: relative URLs
// resolve against base, and anything out of scope, excluded, or on a
// non-http scheme is silently dropped. The returned links are
// deduplicated and sorted.
func scanDocument(doc *html.Node, pol *policy.Policy, base *url.URL) (string, []string) {
	var title string
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "a":
				if href := getAttr(n, "href"); href != "" {
					if canonical, err := pol.Canonicalize(href, base); err == nil {
						seen[canonical] = true
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	links := make([]string, 0, len(seen))
	for link := range seen {
		links = append(links, link)
	}
	sort.Strings(links)

	return title, links
}

// selector is a parsed content filter: an element id (#main), a class
// name (.sidebar), or a tag name (nav).
type selector struct {
	id    string
	class string
	tag   string
}

// parseSelectors converts raw filter strings into selectors. Empty
// strings are dropped.
func parseSelectors(raw []string) []selector {
	selectors := make([]selector, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		switch {
		case s == "":
		case strings.HasPrefix(s, "#"):
			selectors = append(selectors, selector{id: s[1:]})
		case strings.HasPrefix(s, "."):
			selectors = append(selectors, selector{class: s[1:]})
		default:
			selectors = append(selectors, selector{tag: strings.ToLower(s)})
		}
	}
	return selectors
}

// matches reports whether an element node matches the selector.
func (s selector) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch {
	case s.id != "":
		return getAttr(n, "id") == s.id
	case s.class != "":
		for _, class := range strings.Fields(getAttr(n, "class")) {
			if class == s.class {
				return true
			}
		}
		return false
	default:
		return n.Data == s.tag
	}
}

func matchesAny(n *html.Node, selectors []selector) bool {
	for _, s := range selectors {
		if s.matches(n) {
			return true
		}
	}
	return false
}

// pruneDocument edits the parsed document in place for conversion.
// Include selectors, when present, rebuild the body from matching
// subtrees in document order; exclude selectors then remove their
// matches; script, style, and noscript elements always go. The same
// document that served link discovery is pruned here, so the body is
// parsed exactly once per page.
func pruneDocument(doc *html.Node, include, exclude []selector) {
	if len(include) > 0 {
		if body := findElement(doc, "body"); body != nil {
			keep := collectMatches(body, include)
			for c := body.FirstChild; c != nil; {
				next := c.NextSibling
				body.RemoveChild(c)
				c = next
			}
			for _, n := range keep {
				body.AppendChild(n)
			}
		}
	}

	removeMatching(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		switch n.Data {
		case "script", "style", "noscript":
			return true
		}
		return matchesAny(n, exclude)
	})
}

// collectMatches gathers subtrees matching any selector in document
// order, detached from their parents. Descendants of a match are not
// inspected, so nested matches are kept once through their ancestor.
func collectMatches(root *html.Node, selectors []selector) []*html.Node {
	var matches []*html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			if matchesAny(c, selectors) {
				n.RemoveChild(c)
				matches = append(matches, c)
			} else {
				walk(c)
			}
			c = next
		}
	}
	walk(root)

	return matches
}

// removeMatching deletes every node satisfying the predicate, subtree
// included.
func removeMatching(n *html.Node, shouldRemove func(*html.Node) bool) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if shouldRemove(c) {
			n.RemoveChild(c)
		} else {
			removeMatching(c, shouldRemove)
		}
		c = next
	}
}

// findElement returns the first element with the given tag name.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
