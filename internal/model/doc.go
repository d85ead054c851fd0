// Package model defines the data types shared across the crawl pipeline:
// frontier entries, page records with versioned metadata, per-page crawl
// results, and the run summary.
//
// The package has no dependencies beyond the standard library so that every
// other package can import it without cycles.
package model
