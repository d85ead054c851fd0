package main

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sitemd/sitemd/internal/config"
	"github.com/sitemd/sitemd/internal/model"
)

// mustParseURL parses a URL or fails the test.
func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", raw, err)
	}
	return u
}

// testSummaryFixture returns a populated summary for rendering tests.
func testSummaryFixture() *model.CrawlSummary {
	return &model.CrawlSummary{
		Seeds:      []string{"https://example.com/docs/"},
		StartedAt:  time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC),
		Duration:   45 * time.Second,
		Discovered: 12,
		Visited:    12,
		Succeeded:  10,
		Skipped:    1,
		Failed:     1,
	}
}

// TestNewCrawlCmd tests the crawl command creation.
func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "crawl" {
			t.Errorf("expected use 'crawl', got %q", cmd.Use)
		}
	})

	t.Run("has url flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("url")
		if flag == nil {
			t.Fatal("expected url flag")
		}
		if flag.Shorthand != "u" {
			t.Errorf("expected shorthand 'u', got %q", flag.Shorthand)
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.DefValue != config.DefaultOutputDir {
			t.Errorf("expected default %q, got %q", config.DefaultOutputDir, flag.DefValue)
		}
	})

	t.Run("has retry-ceiling flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("retry-ceiling")
		if flag == nil {
			t.Fatal("expected retry-ceiling flag")
		}
		if flag.DefValue != "3" {
			t.Errorf("expected default '3', got %q", flag.DefValue)
		}
	})

	t.Run("has filter flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"include-pattern", "exclude-pattern", "include-filter", "exclude-filter"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("has export flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"minify", "minify-json", "export-files", "no-markdown", "no-json", "summary"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})
}

// TestBuildCrawlConfig tests flag-to-config translation.
func TestBuildCrawlConfig(t *testing.T) {
	t.Run("flags populate config", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cmd := NewCrawlCmd()
		cmd.SetArgs([]string{})
		if err := cmd.ParseFlags([]string{
			"--url", "https://example.com/docs/",
			"--url", "https://example.com/blog/",
			"--rate-limit", "30",
			"--delay", "500ms",
			"--exclude-pattern", "/archive/",
			"--include-filter", "#content",
			"--minify",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg, err := buildCrawlConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Seeds) != 2 {
			t.Fatalf("expected 2 seeds, got %d", len(cfg.Seeds))
		}
		if cfg.Seeds[0] != "https://example.com/docs/" {
			t.Errorf("unexpected first seed %q", cfg.Seeds[0])
		}
		if cfg.RateLimit != 30 {
			t.Errorf("expected rate limit 30, got %d", cfg.RateLimit)
		}
		if cfg.Delay != 500*time.Millisecond {
			t.Errorf("expected delay 500ms, got %v", cfg.Delay)
		}
		if len(cfg.ExcludePatterns) != 1 || cfg.ExcludePatterns[0] != "/archive/" {
			t.Errorf("unexpected exclude patterns %v", cfg.ExcludePatterns)
		}
		if len(cfg.IncludeFilters) != 1 || cfg.IncludeFilters[0] != "#content" {
			t.Errorf("unexpected include filters %v", cfg.IncludeFilters)
		}
		if !cfg.Minify {
			t.Error("expected minify to be set")
		}
	})

	t.Run("config file fills unset fields", func(t *testing.T) {
		dir := t.TempDir()
		content := `seeds:
  - https://example.com/docs/
rateLimit: 60
delay: 2s
excludeFilters:
  - nav
`
		if err := os.WriteFile(filepath.Join(dir, ".sitemd"), []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}
		t.Chdir(dir)

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--rate-limit", "10"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg, err := buildCrawlConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Seeds) != 1 || cfg.Seeds[0] != "https://example.com/docs/" {
			t.Errorf("expected seed from config file, got %v", cfg.Seeds)
		}
		if cfg.RateLimit != 10 {
			t.Errorf("expected flag to win over file, got rate limit %d", cfg.RateLimit)
		}
		if cfg.Delay != 2*time.Second {
			t.Errorf("expected delay 2s from file, got %v", cfg.Delay)
		}
		if len(cfg.ExcludeFilters) != 1 || cfg.ExcludeFilters[0] != "nav" {
			t.Errorf("unexpected exclude filters %v", cfg.ExcludeFilters)
		}
	})

	t.Run("explicit missing config file is an error", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{
			"--url", "https://example.com/",
			"--config", "/nonexistent/.sitemd",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := buildCrawlConfig(cmd); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})
}

// TestCacheDir tests cache directory resolution.
func TestCacheDir(t *testing.T) {
	t.Parallel()

	t.Run("explicit directory wins", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.CacheDir = "/tmp/custom-cache"

		got := cacheDir(cfg, mustParseURL(t, "https://example.com/docs/"))
		if got != "/tmp/custom-cache" {
			t.Errorf("expected explicit cache dir, got %q", got)
		}
	})

	t.Run("defaults to per-host directory", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()

		got := cacheDir(cfg, mustParseURL(t, "https://example.com/docs/"))
		if filepath.Base(got) != "example.com" {
			t.Errorf("expected per-host directory, got %q", got)
		}
	})
}

// TestWriteSummary tests summary rendering destinations.
func TestWriteSummary(t *testing.T) {
	t.Parallel()

	t.Run("nil summary is a no-op", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		if err := writeSummary(cfg, nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("writes markdown summary file", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.SummaryFile = filepath.Join(t.TempDir(), "reports", "summary.md")

		summary := testSummaryFixture()
		if err := writeSummary(cfg, summary); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(cfg.SummaryFile)
		if err != nil {
			t.Fatalf("failed to read summary file: %v", err)
		}
		if len(data) == 0 {
			t.Error("expected non-empty summary file")
		}
	})
}

// TestApplyConfigFileErrors tests the invalid-file path.
func TestApplyConfigFileErrors(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".sitemd")
		if err := os.WriteFile(path, []byte("seeds: [unclosed"), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}
		t.Chdir(dir)

		cfg := config.NewConfig()
		if err := applyConfigFile(cfg); err == nil {
			t.Error("expected error for malformed config file")
		}
	})
}

// TestConfigValidationWiring tests that runCrawlCmd surfaces validation errors.
func TestConfigValidationWiring(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"crawl"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error without seed URLs")
	}
	if !errors.Is(err, config.ErrNoSeed) {
		t.Errorf("expected ErrNoSeed, got %v", err)
	}
}
