package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/sitemd/sitemd/internal/model"
	"github.com/sitemd/sitemd/internal/policy"
)

// fileWriters bounds the concurrent per-page writes. Disk writes are
// cheap; a small limit keeps file-handle use predictable.
const fileWriters = 8

// WriteFiles writes one Markdown file per page under outputDir/files/,
// mirroring the site's URL structure. Directory-like URLs become
// index.md inside their directory; everything else gets a .md suffix.
// Writes fan out across a bounded errgroup while the cursor keeps
// feeding pages.
func (s *Streamer) WriteFiles(ctx context.Context, outputDir string) error {
	root := filepath.Join(outputDir, "files")
	if err := os.MkdirAll(root, 0750); err != nil {
		return fmt.Errorf("failed to create files directory: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fileWriters)

	err := s.forEachPage(ctx, func(rec model.PageRecord) error {
		if !rec.HasContent() {
			return nil
		}

		content := *rec.Content
		if s.minify {
			content = minifyMarkdown(content)
		}
		path := filepath.Join(root, filepath.FromSlash(policy.RelativePath(rec.URL, s.baseURL)))

		g.Go(func() error {
			if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
				return fmt.Errorf("failed to create directory for %q: %w", rec.URL, err)
			}
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				return fmt.Errorf("failed to write %q: %w", path, err)
			}
			s.logger.Debug("wrote page file", "url", rec.URL, "path", path)
			return nil
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to export page files: %w", err)
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return nil
}
