// Package config provides configuration structures and utilities for sitemd.
// It defines crawl, rate-limit, and export options, the YAML configuration
// file loader, and validation.
package config
