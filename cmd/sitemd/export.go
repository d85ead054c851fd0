package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sitemd/sitemd/internal/config"
	"github.com/sitemd/sitemd/internal/database"
	"github.com/sitemd/sitemd/internal/log"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export from an existing crawl cache without crawling",
		Long: `Export compiles Markdown and JSON from a previously populated crawl
cache. No network requests are made; the cache must already exist.

Use this to re-export with different options (minified, per-page files)
without re-crawling the site.

Examples:
  # Re-export the compiled document, minified
  sitemd export --cache-dir ~/.cache/sitemd/example.com --minify

  # Per-page files only
  sitemd export --cache-dir ~/.cache/sitemd/example.com \
    --export-files --no-markdown --no-json`,
		RunE: runExportCmd,
	}

	cmd.Flags().String("cache-dir", "", "Crawl cache directory to export from (required)")
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir, "Output directory for exports")
	cmd.Flags().String("base-url", "", "Base URL for per-page file paths and link resolution")
	cmd.Flags().String("title", "", "Compiled document title (default: base URL's host)")
	cmd.Flags().Bool("minify", false, "Minify the compiled Markdown")
	cmd.Flags().Bool("minify-json", false, "Emit compact JSON")
	cmd.Flags().Bool("export-files", false, "Also write one Markdown file per page")
	cmd.Flags().Bool("no-markdown", false, "Skip the compiled Markdown export")
	cmd.Flags().Bool("no-json", false, "Skip the compiled JSON export")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, _ []string) error {
	cfg, baseURL, err := buildExportConfig(cmd)
	if err != nil {
		return err
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	store, err := database.Open(cfg.CacheDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open crawl cache: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	count, err := store.CountPages(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("crawl cache %s holds no pages", cfg.CacheDir)
	}
	logger.Debug("exporting from cache", "path", store.Path(), "pages", count)

	return exportStore(ctx, cfg, store, baseURL, logger)
}

// buildExportConfig creates a Config from the export command's flags.
func buildExportConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.CacheDir, err = flags.GetString("cache-dir"); err != nil {
		return nil, "", err
	}
	if cfg.OutputDir, err = flags.GetString("output"); err != nil {
		return nil, "", err
	}
	if cfg.Title, err = flags.GetString("title"); err != nil {
		return nil, "", err
	}
	if cfg.Minify, err = flags.GetBool("minify"); err != nil {
		return nil, "", err
	}
	if cfg.MinifyJSON, err = flags.GetBool("minify-json"); err != nil {
		return nil, "", err
	}
	if cfg.ExportFiles, err = flags.GetBool("export-files"); err != nil {
		return nil, "", err
	}
	if cfg.NoMarkdown, err = flags.GetBool("no-markdown"); err != nil {
		return nil, "", err
	}
	if cfg.NoJSON, err = flags.GetBool("no-json"); err != nil {
		return nil, "", err
	}
	baseURL, err := flags.GetString("base-url")
	if err != nil {
		return nil, "", err
	}

	if cfg.CacheDir == "" {
		return nil, "", config.ErrCacheDirRequired
	}
	if cfg.NoMarkdown && cfg.NoJSON && !cfg.ExportFiles {
		return nil, "", config.ErrNoExport
	}

	return cfg, baseURL, nil
}
