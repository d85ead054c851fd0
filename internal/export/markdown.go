package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sitemd/sitemd/internal/model"
)

// WriteMarkdown writes the compiled Markdown document to path. Pages
// concatenate in URL order under a single document title; each page's
// headers shift one level down so the document stays semantically valid,
// and a metadata comment plus a horizontal rule frame every page unless
// minify is on.
func (s *Streamer) WriteMarkdown(ctx context.Context, path string) error {
	parts := []string{fmt.Sprintf("# %s\n", s.title)}

	err := s.forEachPage(ctx, func(rec model.PageRecord) error {
		if !rec.HasContent() {
			return nil
		}

		adjusted := shiftHeaders(*rec.Content, 1)

		if s.minify {
			parts = append(parts, "\n"+adjusted)
			return nil
		}

		parts = append(parts, "\n"+metadataComment(rec)+"\n\n"+adjusted+"\n---")
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to compile markdown: %w", err)
	}

	content := collapseNewlines(strings.Join(parts, ""))
	if s.minify {
		content = minifyMarkdown(content)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write markdown export: %w", err)
	}

	s.logger.Debug("wrote compiled markdown", "path", path, "bytes", len(content))
	return nil
}

// shiftHeaders moves every ATX header down by increment levels, capped
// at ###### . Shifted headers gain surrounding blank lines so they stay
// detached after concatenation; the cleanup pass collapses any excess.
func shiftHeaders(content string, increment int) string {
	var out strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "#") {
			hashes := 0
			for hashes < len(line) && line[hashes] == '#' {
				hashes++
			}
			shifted := hashes + increment
			if shifted > 6 {
				shifted = 6
			}
			line = "\n" + strings.Repeat("#", shifted) + line[hashes:] + "\n"
		}
		out.WriteString(line)
		out.WriteString("\n")
	}
	return out.String()
}

// metadataComment renders a page's metadata as an HTML comment so the
// compiled document carries provenance without affecting rendering.
// Zero-valued fields are omitted.
func metadataComment(rec model.PageRecord) string {
	var b strings.Builder
	b.WriteString("<!--\n")
	fmt.Fprintf(&b, "URL: %s\n", rec.URL)
	if rec.Metadata.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", rec.Metadata.Title)
	}
	if rec.Metadata.StatusCode != 0 {
		fmt.Fprintf(&b, "Status: %d\n", rec.Metadata.StatusCode)
	}
	if rec.Metadata.ContentType != "" {
		fmt.Fprintf(&b, "Content-Type: %s\n", rec.Metadata.ContentType)
	}
	if !rec.Metadata.RetrievedAt.IsZero() {
		fmt.Fprintf(&b, "Retrieved: %s\n", rec.Metadata.RetrievedAt.Format("2006-01-02 15:04:05"))
	}
	b.WriteString("-->")
	return b.String()
}

// collapseNewlines reduces runs of three or more newlines to exactly
// two.
func collapseNewlines(content string) string {
	for strings.Contains(content, "\n\n\n") {
		content = strings.ReplaceAll(content, "\n\n\n", "\n\n")
	}
	return content
}
