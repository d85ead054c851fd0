package export

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sitemd/sitemd/internal/model"
)

// jsonEntry is the shape of one exported page.
type jsonEntry struct {
	URL      string             `json:"url"`
	Content  string             `json:"content"`
	Metadata model.PageMetadata `json:"metadata"`
}

// WriteJSON writes the pages as a single JSON array to path. Entries
// stream out one at a time, so the document is never held in memory.
// Output is indented unless the streamer was built with WithMinifyJSON.
func (s *Streamer) WriteJSON(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path) //nolint:gosec // Output path comes from configuration
	if err != nil {
		return fmt.Errorf("failed to create json export: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString("["); err != nil {
		return fmt.Errorf("failed to write json export: %w", err)
	}

	first := true
	err = s.forEachPage(ctx, func(rec model.PageRecord) error {
		if !rec.HasContent() {
			return nil
		}

		entry := jsonEntry{
			URL:      rec.URL,
			Content:  collapseNewlines(*rec.Content),
			Metadata: rec.Metadata,
		}

		var encoded []byte
		var encErr error
		if s.minifyJSON {
			encoded, encErr = json.Marshal(entry)
		} else {
			encoded, encErr = json.MarshalIndent(entry, "    ", "    ")
		}
		if encErr != nil {
			return fmt.Errorf("failed to encode %q: %w", rec.URL, encErr)
		}

		sep := ","
		if first {
			sep = ""
			first = false
		}
		if s.minifyJSON {
			_, err := w.WriteString(sep + string(encoded))
			return err
		}
		_, err := w.WriteString(sep + "\n    " + string(encoded))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to compile json: %w", err)
	}

	closing := "]"
	if !s.minifyJSON && !first {
		closing = "\n]"
	}
	if _, err := w.WriteString(closing); err != nil {
		return fmt.Errorf("failed to write json export: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush json export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close json export: %w", err)
	}

	s.logger.Debug("wrote compiled json", "path", path)
	return nil
}
