// Package main provides the entry point for the sitemd CLI.
//
// sitemd crawls a website and converts it to Markdown. Crawl state lives
// in a SQLite cache, so interrupted runs resume where they stopped.
//
// Usage:
//
//	sitemd crawl --url https://example.com/docs/
//	sitemd export --cache-dir ~/.cache/sitemd/example.com
//
// See --help for all available options.
package main

// main is the entry point for sitemd.
func main() {
	Execute()
}
