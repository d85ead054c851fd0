package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "sitemd"

	// DefaultTimeout is the per-request timeout. Ordinary sites answer well
	// within 30 seconds; slower responses are treated as failures and go
	// through the retry policy.
	DefaultTimeout = 30 * time.Second

	// DefaultRetryCeiling is the number of crawl-layer attempts a failing
	// URL gets before it is frozen. The transport retries within a single
	// attempt; this ceiling bounds attempts across runs.
	DefaultRetryCeiling = 3

	// DefaultBatchSize is the number of frontier entries processed between
	// database checkpoints. Each batch commits as a unit, so this bounds
	// re-fetched work after a crash.
	DefaultBatchSize = 200

	// DefaultExportBatchSize is the page-store cursor size used during
	// export. It bounds export memory independently of site size.
	DefaultExportBatchSize = 100

	// DefaultUserAgent identifies sitemd in HTTP requests.
	DefaultUserAgent = "sitemd/1.0 (+https://github.com/sitemd/sitemd)"

	// DefaultMaxBodySize limits the response body size to read.
	// 5MB covers any reasonable HTML page.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultOutputDir is where compiled exports are written.
	DefaultOutputDir = "output"
)

// Config holds all configuration options for a sitemd run.
// It is populated from CLI flags plus an optional YAML file, validated once
// up front, and passed through the application by dependency injection.
// A single flat struct keeps flag binding and validation in one place.
type Config struct {
	// Seeds are the URLs the crawl starts from. The first seed defines the
	// crawl scope: its host, and its path as a path-segment prefix.
	Seeds []string

	// OutputDir is the directory for compiled exports and per-page files.
	OutputDir string

	// CacheDir is the directory holding the SQLite crawl cache.
	// Empty means the XDG cache directory for the first seed's host.
	CacheDir string

	// RateLimit is the maximum number of requests in any rolling
	// one-minute window. Zero disables the limit.
	RateLimit int

	// Delay is the minimum pause between consecutive requests.
	// Zero disables the fixed delay. Delay and RateLimit compose: the
	// governor waits for whichever releases later.
	Delay time.Duration

	// Timeout is the per-request timeout covering connection and body read.
	Timeout time.Duration

	// Proxy is an optional HTTP/HTTPS proxy URL. An unparsable value is a
	// configuration error, reported before any request is made.
	Proxy string

	// IncludePatterns restricts the crawl to URLs containing one of these
	// literal substrings. Empty means all in-scope URLs.
	IncludePatterns []string

	// ExcludePatterns rejects URLs containing one of these literal
	// substrings. A URL matching both an include and an exclude pattern is
	// rejected.
	ExcludePatterns []string

	// IncludeFilters are content selectors (#id, .class, or tag). When set,
	// only matching elements are converted to Markdown.
	IncludeFilters []string

	// ExcludeFilters are content selectors whose matches are removed before
	// conversion. Applied after IncludeFilters.
	ExcludeFilters []string

	// RetryCeiling is the crawl-layer attempt ceiling per URL. Once a URL
	// has failed this many times it is never requeued.
	RetryCeiling int

	// BatchSize is the number of frontier entries per crawl batch.
	BatchSize int

	// Minify strips blank lines, comments, and horizontal rules from the
	// compiled Markdown, leaving fenced code blocks untouched.
	Minify bool

	// MinifyJSON emits compact JSON instead of indented. Independent of
	// Minify so the two exports can be tuned separately.
	MinifyJSON bool

	// ExportFiles additionally writes one Markdown file per page under
	// OutputDir/files/, mirroring the site's URL structure.
	ExportFiles bool

	// NoMarkdown skips the compiled Markdown export.
	NoMarkdown bool

	// NoJSON skips the compiled JSON export.
	NoJSON bool

	// SummaryFile is an optional path for a Markdown crawl summary.
	// Empty prints a plain-text summary to stdout instead.
	SummaryFile string

	// Title is the document title for the compiled Markdown export.
	// Empty derives the title from the first seed's host.
	Title string

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Larger bodies are truncated. Zero uses DefaultMaxBodySize.
	MaxBodySize int64

	// Verbose enables slog.LevelDebug output. When false, only warnings
	// and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the YAML configuration file. If empty,
	// the tool searches for .sitemd in the current directory and then in
	// the user's home directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values. Fields a run must
// provide, such as Seeds, stay empty.
func NewConfig() *Config {
	return &Config{
		OutputDir:    DefaultOutputDir,
		Timeout:      DefaultTimeout,
		RetryCeiling: DefaultRetryCeiling,
		BatchSize:    DefaultBatchSize,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
	}
}

// XDGCacheDir returns the XDG cache directory for sitemd.
// On Linux: ~/.cache/sitemd
// On macOS: ~/Library/Caches/sitemd
// On Windows: %LOCALAPPDATA%\sitemd\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitemd.
// On Linux: ~/.config/sitemd
// On macOS: ~/Library/Application Support/sitemd
// On Windows: %APPDATA%\sitemd
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first sentinel error
// found. It runs once after flag parsing, before any store is opened or
// request is made.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeed
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.RateLimit < 0 {
		return ErrInvalidRateLimit
	}

	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	if c.RetryCeiling < 0 {
		return ErrInvalidRetryCeiling
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.NoMarkdown && c.NoJSON && !c.ExportFiles {
		return ErrNoExport
	}

	return nil
}
