package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sitemd/sitemd/internal/model"
)

// SimpleWriter outputs a human-readable text summary.
// Plain ASCII formatting works in every terminal and pipes cleanly.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the summary as plain text.
func (w *SimpleWriter) Write(summary *model.CrawlSummary) (int, error) {
	var sb strings.Builder

	sb.WriteString("Crawl Summary\n")
	sb.WriteString(strings.Repeat("=", 40) + "\n")
	for _, seed := range summary.Seeds {
		fmt.Fprintf(&sb, "Seed:       %s\n", seed)
	}
	fmt.Fprintf(&sb, "Started:    %s\n", summary.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Duration:   %s\n", summary.Duration.Round(time.Millisecond))
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	fmt.Fprintf(&sb, "Discovered: %d\n", summary.Discovered)
	fmt.Fprintf(&sb, "Visited:    %d\n", summary.Visited)
	fmt.Fprintf(&sb, "Succeeded:  %d\n", summary.Succeeded)
	fmt.Fprintf(&sb, "Skipped:    %d\n", summary.Skipped)
	fmt.Fprintf(&sb, "Failed:     %d\n", summary.Failed)
	if summary.Requeued > 0 {
		fmt.Fprintf(&sb, "Requeued:   %d\n", summary.Requeued)
	}

	return io.WriteString(w.output, sb.String())
}
