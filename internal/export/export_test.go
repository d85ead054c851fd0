package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sitemd/sitemd/internal/database"
	"github.com/sitemd/sitemd/internal/model"
)

func setupStore(t *testing.T, records []model.PageRecord) *database.Store {
	t.Helper()

	store, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.UpsertPages(context.Background(), records); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return store
}

func page(url, content string) model.PageRecord {
	return model.PageRecord{
		URL:     url,
		Content: &content,
		Metadata: model.PageMetadata{
			Version:     model.MetadataVersion,
			Title:       "Page",
			StatusCode:  200,
			ContentType: "text/html",
		},
	}
}

func failedPage(url string) model.PageRecord {
	return model.PageRecord{
		URL: url,
		Metadata: model.PageMetadata{
			Version:   model.MetadataVersion,
			ErrorKind: model.ErrorKindNetwork,
		},
	}
}

// TestWriteMarkdown tests the compiled Markdown document.
func TestWriteMarkdown(t *testing.T) {
	t.Parallel()

	t.Run("concatenates pages with shifted headers", func(t *testing.T) {
		t.Parallel()

		store := setupStore(t, []model.PageRecord{
			page("https://example.com/a", "# Alpha\n\ntext a\n"),
			page("https://example.com/b", "## Beta\n\ntext b\n"),
			failedPage("https://example.com/broken"),
		})

		path := filepath.Join(t.TempDir(), "out.md")
		s := New(store, "Example Site")
		if err := s.WriteMarkdown(context.Background(), path); err != nil {
			t.Fatalf("WriteMarkdown failed: %v", err)
		}

		content := readFile(t, path)

		if !strings.HasPrefix(content, "# Example Site\n") {
			t.Errorf("document missing title header: %q", content[:40])
		}
		if !strings.Contains(content, "## Alpha") {
			t.Error("h1 was not shifted to h2")
		}
		if !strings.Contains(content, "### Beta") {
			t.Error("h2 was not shifted to h3")
		}
		if !strings.Contains(content, "URL: https://example.com/a") {
			t.Error("metadata comment missing")
		}
		if !strings.Contains(content, "\n---") {
			t.Error("page separator missing")
		}
		if strings.Contains(content, "broken") {
			t.Error("null-content page leaked into the export")
		}
		if strings.Contains(content, "\n\n\n") {
			t.Error("cleanup left a triple newline")
		}
	})

	t.Run("header shift caps at six", func(t *testing.T) {
		t.Parallel()

		store := setupStore(t, []model.PageRecord{
			page("https://example.com/deep", "###### Already Deep\n"),
		})

		path := filepath.Join(t.TempDir(), "out.md")
		if err := New(store, "T").WriteMarkdown(context.Background(), path); err != nil {
			t.Fatalf("WriteMarkdown failed: %v", err)
		}

		content := readFile(t, path)
		if strings.Contains(content, "#######") {
			t.Errorf("header shifted past h6: %q", content)
		}
		if !strings.Contains(content, "###### Already Deep") {
			t.Errorf("capped header missing: %q", content)
		}
	})

	t.Run("same output for any batch size", func(t *testing.T) {
		t.Parallel()

		records := make([]model.PageRecord, 0, 10)
		for i := 0; i < 10; i++ {
			url := fmt.Sprintf("https://example.com/p%02d", i)
			records = append(records, page(url, fmt.Sprintf("# Page %d\n\nbody %d\n", i, i)))
		}

		store := setupStore(t, records)
		dir := t.TempDir()

		single := filepath.Join(dir, "single.md")
		if err := New(store, "T", WithBatchSize(1)).WriteMarkdown(context.Background(), single); err != nil {
			t.Fatalf("WriteMarkdown (batch 1) failed: %v", err)
		}
		bulk := filepath.Join(dir, "bulk.md")
		if err := New(store, "T", WithBatchSize(100)).WriteMarkdown(context.Background(), bulk); err != nil {
			t.Fatalf("WriteMarkdown (batch 100) failed: %v", err)
		}

		if readFile(t, single) != readFile(t, bulk) {
			t.Error("batch size changed the compiled output")
		}
	})
}

// TestMinifyMarkdown tests the fence-aware minifier.
func TestMinifyMarkdown(t *testing.T) {
	t.Parallel()

	t.Run("strips noise outside fences", func(t *testing.T) {
		t.Parallel()

		input := "# Title\n\n<!-- a comment -->\ntext   \n\n---\n\nmore\n"
		got := minifyMarkdown(input)
		want := "# Title\ntext\nmore\n"

		if got != want {
			t.Errorf("minify = %q, want %q", got, want)
		}
	})

	t.Run("fence contents stay byte-identical", func(t *testing.T) {
		t.Parallel()

		fence := "```go\n\nvar x = 1   \n<!-- not a comment here -->\n\n---\n\n```"
		input := "before\n\n" + fence + "\n\nafter\n"
		got := minifyMarkdown(input)

		if !strings.Contains(got, fence) {
			t.Errorf("fence was altered:\n%s", got)
		}
		if strings.Contains(got, "before\n\n") {
			t.Error("blank line outside fence survived")
		}
	})

	t.Run("tilde fences are respected", func(t *testing.T) {
		t.Parallel()

		fence := "~~~\n\nraw   \n\n~~~"
		got := minifyMarkdown("x\n\n" + fence + "\n")

		if !strings.Contains(got, fence) {
			t.Errorf("tilde fence was altered:\n%s", got)
		}
	})

	t.Run("hard line break survives", func(t *testing.T) {
		t.Parallel()

		got := minifyMarkdown("line one  \nline two\n")
		if !strings.Contains(got, "line one  \n") {
			t.Errorf("two-space break was stripped: %q", got)
		}
	})

	t.Run("multi-line comment is removed", func(t *testing.T) {
		t.Parallel()

		got := minifyMarkdown("a\n<!--\nURL: x\nStatus: 200\n-->\nb\n")
		want := "a\nb\n"
		if got != want {
			t.Errorf("minify = %q, want %q", got, want)
		}
	})
}

// TestWriteJSON tests the compiled JSON export.
func TestWriteJSON(t *testing.T) {
	t.Parallel()

	t.Run("exports content pages and skips failures", func(t *testing.T) {
		t.Parallel()

		store := setupStore(t, []model.PageRecord{
			page("https://example.com/a", "# A\n"),
			failedPage("https://example.com/broken"),
			page("https://example.com/b", "# B\n"),
		})

		path := filepath.Join(t.TempDir(), "out.json")
		if err := New(store, "T").WriteJSON(context.Background(), path); err != nil {
			t.Fatalf("WriteJSON failed: %v", err)
		}

		var entries []jsonEntry
		if err := json.Unmarshal([]byte(readFile(t, path)), &entries); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if len(entries) != 2 {
			t.Fatalf("entries = %d, want 2", len(entries))
		}
		if entries[0].URL != "https://example.com/a" || entries[1].URL != "https://example.com/b" {
			t.Errorf("unexpected order: %v, %v", entries[0].URL, entries[1].URL)
		}
		if entries[0].Metadata.StatusCode != 200 {
			t.Errorf("metadata lost: %+v", entries[0].Metadata)
		}
	})

	t.Run("minified and indented forms decode identically", func(t *testing.T) {
		t.Parallel()

		records := []model.PageRecord{page("https://example.com/only", "text\n")}
		dir := t.TempDir()

		indented := filepath.Join(dir, "indented.json")
		if err := New(setupStore(t, records), "T").WriteJSON(context.Background(), indented); err != nil {
			t.Fatalf("WriteJSON failed: %v", err)
		}
		compact := filepath.Join(dir, "compact.json")
		if err := New(setupStore(t, records), "T", WithMinifyJSON(true)).WriteJSON(context.Background(), compact); err != nil {
			t.Fatalf("WriteJSON (minified) failed: %v", err)
		}

		var a, b []jsonEntry
		if err := json.Unmarshal([]byte(readFile(t, indented)), &a); err != nil {
			t.Fatalf("indented output invalid: %v", err)
		}
		if err := json.Unmarshal([]byte(readFile(t, compact)), &b); err != nil {
			t.Fatalf("compact output invalid: %v", err)
		}
		if len(a) != 1 || len(b) != 1 || a[0] != b[0] {
			t.Errorf("forms differ: %+v vs %+v", a, b)
		}

		if strings.Contains(readFile(t, compact), "\n    ") {
			t.Error("compact output contains indentation")
		}
	})

	t.Run("empty store yields an empty array", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.json")
		if err := New(setupStore(t, nil), "T").WriteJSON(context.Background(), path); err != nil {
			t.Fatalf("WriteJSON failed: %v", err)
		}

		var entries []jsonEntry
		if err := json.Unmarshal([]byte(readFile(t, path)), &entries); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("entries = %d, want 0", len(entries))
		}
	})
}

// TestWriteFiles tests the per-page file export.
func TestWriteFiles(t *testing.T) {
	t.Parallel()

	store := setupStore(t, []model.PageRecord{
		page("https://example.com/docs/", "# Docs Home\n"),
		page("https://example.com/docs/guide", "# Guide\n"),
		page("https://example.com/docs/api/auth", "# Auth\n"),
		failedPage("https://example.com/docs/broken"),
	})

	out := t.TempDir()
	s := New(store, "T", WithBaseURL("https://example.com/docs/"))
	if err := s.WriteFiles(context.Background(), out); err != nil {
		t.Fatalf("WriteFiles failed: %v", err)
	}

	wantFiles := []string{
		filepath.Join(out, "files", "index.md"),
		filepath.Join(out, "files", "guide.md"),
		filepath.Join(out, "files", "api", "auth.md"),
	}
	for _, path := range wantFiles {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file %s: %v", path, err)
		}
	}

	if content := readFile(t, wantFiles[1]); !strings.Contains(content, "# Guide") {
		t.Errorf("guide.md content = %q", content)
	}

	// The failed page must not produce a file.
	if _, err := os.Stat(filepath.Join(out, "files", "broken.md")); !os.IsNotExist(err) {
		t.Error("null-content page produced a file")
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path) //nolint:gosec // Test-controlled path
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(b)
}
