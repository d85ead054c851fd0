package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"

	"github.com/sitemd/sitemd/internal/model"
)

// MarkdownWriter outputs the summary as a GitHub-flavored Markdown
// document, suitable for saving next to the exports.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the summary as Markdown.
func (w *MarkdownWriter) Write(summary *model.CrawlSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seeds", "`" + strings.Join(summary.Seeds, "`, `") + "`"},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", summary.Duration.Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")

	md.H2("Pages")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"Discovered", strconv.Itoa(summary.Discovered)},
			{"Visited", strconv.Itoa(summary.Visited)},
			{"Succeeded", strconv.Itoa(summary.Succeeded)},
			{"Skipped", strconv.Itoa(summary.Skipped)},
			{"Failed", strconv.Itoa(summary.Failed)},
			{"Requeued", strconv.Itoa(summary.Requeued)},
		},
	})

	if summary.Failed > 0 {
		md.PlainText("")
		md.Warning("Some pages have no content yet. Re-run the crawl to retry them under the retry ceiling.")
	}

	return len(md.String()), md.Build()
}
