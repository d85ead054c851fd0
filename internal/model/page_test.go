package model

import (
	"testing"
	"time"
)

// TestPageMetadataRoundTrip tests metadata serialization.
func TestPageMetadataRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("serializes and parses all fields", func(t *testing.T) {
		t.Parallel()

		meta := PageMetadata{
			Version:     MetadataVersion,
			Title:       "Example Page",
			StatusCode:  200,
			ContentType: "text/html; charset=utf-8",
			RetrievedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		}

		blob, err := meta.MarshalText()
		if err != nil {
			t.Fatalf("failed to marshal metadata: %v", err)
		}

		got := ParseMetadata(blob)
		if got.Version != MetadataVersion {
			t.Errorf("expected version %d, got %d", MetadataVersion, got.Version)
		}
		if got.Title != meta.Title {
			t.Errorf("expected title %q, got %q", meta.Title, got.Title)
		}
		if got.StatusCode != 200 {
			t.Errorf("expected status 200, got %d", got.StatusCode)
		}
		if !got.RetrievedAt.Equal(meta.RetrievedAt) {
			t.Errorf("expected retrieved_at %v, got %v", meta.RetrievedAt, got.RetrievedAt)
		}
	})

	t.Run("malformed blob yields zero metadata", func(t *testing.T) {
		t.Parallel()

		got := ParseMetadata("{not json")
		if got.Version != 0 || got.Title != "" {
			t.Errorf("expected zero metadata, got %+v", got)
		}
	})

	t.Run("error kinds survive serialization", func(t *testing.T) {
		t.Parallel()

		meta := PageMetadata{
			Version:      MetadataVersion,
			ErrorKind:    ErrorKindNonHTML,
			ErrorMessage: "content type application/pdf",
		}

		blob, err := meta.MarshalText()
		if err != nil {
			t.Fatalf("failed to marshal metadata: %v", err)
		}

		got := ParseMetadata(blob)
		if got.ErrorKind != ErrorKindNonHTML {
			t.Errorf("expected error kind %q, got %q", ErrorKindNonHTML, got.ErrorKind)
		}
	})
}

// TestPageRecordHasContent tests the null-content convention.
func TestPageRecordHasContent(t *testing.T) {
	t.Parallel()

	content := "# Title"
	withContent := PageRecord{URL: "https://example.com/", Content: &content}
	if !withContent.HasContent() {
		t.Error("expected record with content to report HasContent")
	}

	failed := PageRecord{URL: "https://example.com/missing"}
	if failed.HasContent() {
		t.Error("expected record without content to report !HasContent")
	}
}
