package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sitemd/sitemd/internal/config"
	"github.com/sitemd/sitemd/internal/crawler"
	"github.com/sitemd/sitemd/internal/database"
	"github.com/sitemd/sitemd/internal/export"
	"github.com/sitemd/sitemd/internal/log"
	"github.com/sitemd/sitemd/internal/model"
	"github.com/sitemd/sitemd/internal/policy"
	"github.com/sitemd/sitemd/internal/report"
	"github.com/sitemd/sitemd/internal/throttle"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl a site and export it as Markdown",
		Long: `Crawl fetches every page reachable from the seed URLs within scope,
converts each to Markdown, and exports the result.

The scope is the first seed's host and path prefix: a seed of
https://example.com/docs/ crawls /docs/ and below, nothing else.

Crawl state persists in the cache directory. Re-running the same crawl
resumes from the cache: visited pages are not refetched, and failed
pages are retried until the retry ceiling.

Examples:
  # Crawl a documentation site
  sitemd crawl --url https://example.com/docs/

  # Be polite: at most 30 requests per minute, 500ms apart
  sitemd crawl --url https://example.com/docs/ --rate-limit 30 --delay 500ms

  # Keep only the article body, drop navigation
  sitemd crawl --url https://example.com/docs/ \
    --include-filter "#content" --exclude-filter nav --exclude-filter .sidebar

  # Per-page files plus a minified compiled document
  sitemd crawl --url https://example.com/docs/ --export-files --minify

Configuration file (.sitemd) example:
  seeds:
    - https://example.com/docs/
  rateLimit: 60
  excludePatterns:
    - /archive/
  excludeFilters:
    - nav
    - .sidebar`,
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringArrayP("url", "u", nil, "Seed URL (repeatable; the first defines the scope)")
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir, "Output directory for exports")
	cmd.Flags().String("cache-dir", "", "Crawl cache directory (default: XDG cache dir per host)")
	cmd.Flags().Int("rate-limit", 0, "Maximum requests per minute (0 = unlimited)")
	cmd.Flags().Duration("delay", 0, "Minimum delay between requests")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Per-request timeout")
	cmd.Flags().String("proxy", "", "HTTP/HTTPS proxy URL")
	cmd.Flags().StringArray("include-pattern", nil, "Only crawl URLs containing this substring (repeatable)")
	cmd.Flags().StringArray("exclude-pattern", nil, "Skip URLs containing this substring (repeatable)")
	cmd.Flags().StringArray("include-filter", nil, "Content selector to keep (#id, .class, or tag; repeatable)")
	cmd.Flags().StringArray("exclude-filter", nil, "Content selector to drop (repeatable)")
	cmd.Flags().Int("retry-ceiling", config.DefaultRetryCeiling, "Attempts per URL across runs before it is frozen")
	cmd.Flags().Int("batch-size", config.DefaultBatchSize, "Frontier entries per crawl batch")
	cmd.Flags().Bool("minify", false, "Minify the compiled Markdown")
	cmd.Flags().Bool("minify-json", false, "Emit compact JSON")
	cmd.Flags().Bool("export-files", false, "Also write one Markdown file per page")
	cmd.Flags().Bool("no-markdown", false, "Skip the compiled Markdown export")
	cmd.Flags().Bool("no-json", false, "Skip the compiled JSON export")
	cmd.Flags().String("summary", "", "Write a Markdown crawl summary to this path")
	cmd.Flags().String("title", "", "Compiled document title (default: first seed's host)")
	cmd.Flags().StringP("config", "c", "", "Configuration file path (default: .sitemd in current or home directory)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent, "User-Agent header")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildCrawlConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("received shutdown signal, finishing current batch...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildCrawlConfig creates a Config from cobra flags plus the optional
// configuration file. Flag values win; the file fills the gaps.
func buildCrawlConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.Seeds, err = flags.GetStringArray("url"); err != nil {
		return nil, err
	}
	if cfg.OutputDir, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.CacheDir, err = flags.GetString("cache-dir"); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = flags.GetInt("rate-limit"); err != nil {
		return nil, err
	}
	if cfg.Delay, err = flags.GetDuration("delay"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.Proxy, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.IncludePatterns, err = flags.GetStringArray("include-pattern"); err != nil {
		return nil, err
	}
	if cfg.ExcludePatterns, err = flags.GetStringArray("exclude-pattern"); err != nil {
		return nil, err
	}
	if cfg.IncludeFilters, err = flags.GetStringArray("include-filter"); err != nil {
		return nil, err
	}
	if cfg.ExcludeFilters, err = flags.GetStringArray("exclude-filter"); err != nil {
		return nil, err
	}
	if cfg.RetryCeiling, err = flags.GetInt("retry-ceiling"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch-size"); err != nil {
		return nil, err
	}
	if cfg.Minify, err = flags.GetBool("minify"); err != nil {
		return nil, err
	}
	if cfg.MinifyJSON, err = flags.GetBool("minify-json"); err != nil {
		return nil, err
	}
	if cfg.ExportFiles, err = flags.GetBool("export-files"); err != nil {
		return nil, err
	}
	if cfg.NoMarkdown, err = flags.GetBool("no-markdown"); err != nil {
		return nil, err
	}
	if cfg.NoJSON, err = flags.GetBool("no-json"); err != nil {
		return nil, err
	}
	if cfg.SummaryFile, err = flags.GetString("summary"); err != nil {
		return nil, err
	}
	if cfg.Title, err = flags.GetString("title"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}

	if err := applyConfigFile(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyConfigFile merges the optional YAML file into the config.
// An explicitly specified file must exist; the default search may come
// up empty without complaint.
func applyConfigFile(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	cf, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	cf.ApplyTo(cfg)
	return nil
}

// runCrawl crawls, exports, and reports.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	seedURL, err := url.Parse(cfg.Seeds[0])
	if err != nil {
		return fmt.Errorf("invalid seed %q: %w", cfg.Seeds[0], err)
	}

	store, err := database.Open(cacheDir(cfg, seedURL), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open crawl cache: %w", err)
	}
	defer store.Close()
	logger.Debug("crawl cache opened", "path", store.Path())

	pol, err := policy.New(cfg.Seeds[0], cfg.IncludePatterns, cfg.ExcludePatterns)
	if err != nil {
		return fmt.Errorf("invalid scope: %w", err)
	}

	client, err := crawler.NewHTTPClient(cfg)
	if err != nil {
		return err
	}

	processor := crawler.NewProcessor(client, pol, cfg.UserAgent, cfg.MaxBodySize,
		crawler.WithFilters(cfg.IncludeFilters, cfg.ExcludeFilters),
		crawler.WithProcessorLogger(logger),
	)
	governor := throttle.New(cfg.Delay, cfg.RateLimit, time.Minute)

	c := crawler.New(store, processor, governor,
		crawler.WithBatchSize(cfg.BatchSize),
		crawler.WithRetryCeiling(cfg.RetryCeiling),
		crawler.WithLogger(logger),
		crawler.WithObserver(func(p model.Progress) {
			fmt.Fprintf(os.Stderr, "\rcrawled %d pages, %d queued, %d failed ",
				p.Visited, p.Unvisited, p.Failed)
		}),
	)

	summary, runErr := c.Run(ctx, cfg.Seeds)
	fmt.Fprintln(os.Stderr)
	if runErr != nil && summary == nil {
		return runErr
	}
	if runErr != nil {
		// Partial run: export what the cache holds, then surface the error.
		logger.Warn("crawl interrupted, exporting partial results", "error", runErr)
	}

	if err := exportStore(ctx, cfg, store, summary.Seeds[0], logger); err != nil {
		return err
	}
	if err := writeSummary(cfg, summary); err != nil {
		return err
	}

	return runErr
}

// cacheDir resolves the crawl cache directory: the configured one, or a
// per-host directory under the XDG cache home.
func cacheDir(cfg *config.Config, seed *url.URL) string {
	if cfg.CacheDir != "" {
		return cfg.CacheDir
	}
	return filepath.Join(config.XDGCacheDir(), seed.Hostname())
}

// exportStore runs the configured export modes against an open store.
func exportStore(ctx context.Context, cfg *config.Config, store *database.Store, baseURL string, logger *slog.Logger) error {
	title := cfg.Title
	if title == "" && baseURL != "" {
		if u, err := url.Parse(baseURL); err == nil && u.Hostname() != "" {
			title = u.Hostname()
		} else {
			title = baseURL
		}
	}
	if title == "" {
		title = "Site Export"
	}

	streamer := export.New(store, title,
		export.WithMinify(cfg.Minify),
		export.WithMinifyJSON(cfg.MinifyJSON),
		export.WithBaseURL(baseURL),
		export.WithBatchSize(config.DefaultExportBatchSize),
		export.WithExportLogger(logger),
	)

	if !cfg.NoMarkdown {
		path := filepath.Join(cfg.OutputDir, "output.md")
		if err := streamer.WriteMarkdown(ctx, path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	if !cfg.NoJSON {
		path := filepath.Join(cfg.OutputDir, "output.json")
		if err := streamer.WriteJSON(ctx, path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	if cfg.ExportFiles {
		if err := streamer.WriteFiles(ctx, cfg.OutputDir); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", filepath.Join(cfg.OutputDir, "files")+string(os.PathSeparator))
	}

	return nil
}

// writeSummary renders the crawl summary: Markdown to the configured
// file, or plain text to stdout.
func writeSummary(cfg *config.Config, summary *model.CrawlSummary) error {
	if summary == nil {
		return nil
	}

	if cfg.SummaryFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.SummaryFile), 0750); err != nil {
			return fmt.Errorf("failed to create summary directory: %w", err)
		}
		f, err := os.Create(cfg.SummaryFile) //nolint:gosec // Output path comes from configuration
		if err != nil {
			return fmt.Errorf("failed to create summary file: %w", err)
		}
		defer f.Close()
		if _, err := report.NewMarkdownWriter(f).Write(summary); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		return nil
	}

	_, err := report.NewSimpleWriter(os.Stdout).Write(summary)
	return err
}
