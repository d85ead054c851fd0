package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitemd.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitemd",
		Short: "Crawl a website and convert it to Markdown",
		Long: `sitemd crawls a site from seed URLs, converts every HTML page to
Markdown, and exports the result as one compiled document, a JSON file,
and/or per-page files.

Crawl state persists in a SQLite cache: an interrupted run resumes where
it stopped, and failed pages are retried on the next run.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
