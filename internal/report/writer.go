package report

import (
	"io"

	"github.com/sitemd/sitemd/internal/model"
)

// Writer defines the interface for summary output. Implementations
// render a crawl summary in one format; the destination is fixed at
// construction, so the same API writes to stdout, a file, or a buffer.
type Writer interface {
	// Write renders the summary to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(summary *model.CrawlSummary) (int, error)
}

// baseWriter provides the shared output destination.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
