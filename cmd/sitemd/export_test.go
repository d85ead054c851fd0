package main

import (
	"errors"
	"testing"

	"github.com/sitemd/sitemd/internal/config"
)

// TestNewExportCmd tests the export command creation.
func TestNewExportCmd(t *testing.T) {
	t.Parallel()

	cmd := NewExportCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "export" {
			t.Errorf("expected use 'export', got %q", cmd.Use)
		}
	})

	t.Run("has cache-dir flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("cache-dir") == nil {
			t.Error("expected cache-dir flag")
		}
	})

	t.Run("has export mode flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"minify", "minify-json", "export-files", "no-markdown", "no-json", "base-url", "title"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})
}

// TestBuildExportConfig tests the export command's validation.
func TestBuildExportConfig(t *testing.T) {
	t.Parallel()

	t.Run("requires cache directory", func(t *testing.T) {
		t.Parallel()
		cmd := NewExportCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, _, err := buildExportConfig(cmd)
		if !errors.Is(err, config.ErrCacheDirRequired) {
			t.Errorf("expected ErrCacheDirRequired, got %v", err)
		}
	})

	t.Run("rejects all exports disabled", func(t *testing.T) {
		t.Parallel()
		cmd := NewExportCmd()
		if err := cmd.ParseFlags([]string{
			"--cache-dir", "/tmp/cache",
			"--no-markdown", "--no-json",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, _, err := buildExportConfig(cmd)
		if !errors.Is(err, config.ErrNoExport) {
			t.Errorf("expected ErrNoExport, got %v", err)
		}
	})

	t.Run("accepts export-files alone", func(t *testing.T) {
		t.Parallel()
		cmd := NewExportCmd()
		if err := cmd.ParseFlags([]string{
			"--cache-dir", "/tmp/cache",
			"--no-markdown", "--no-json", "--export-files",
			"--base-url", "https://example.com/docs/",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg, baseURL, err := buildExportConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cfg.ExportFiles {
			t.Error("expected export-files to be set")
		}
		if baseURL != "https://example.com/docs/" {
			t.Errorf("unexpected base URL %q", baseURL)
		}
	})
}

// TestRunExportCmd_MissingCache tests that export refuses an absent cache.
func TestRunExportCmd_MissingCache(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"export", "--cache-dir", t.TempDir()})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for empty cache directory")
	}
}
