// Package report renders crawl summaries. SimpleWriter produces plain
// text for the terminal; MarkdownWriter produces a GitHub-flavored
// Markdown document for saving alongside the exports.
package report
