package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".sitemd"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Duration wraps time.Duration so YAML values can use the familiar
// "500ms" / "2s" forms instead of raw nanosecond integers.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// File represents the structure of the .sitemd configuration file.
// Every field is optional; values set on the command line win over the
// file. Filter and pattern lists are the fields most worth keeping in a
// file since they grow long and site-specific.
type File struct {
	// Seeds are seed URLs, equivalent to repeated --url flags.
	Seeds []string `yaml:"seeds,omitempty"`

	// Output is the export directory.
	Output string `yaml:"output,omitempty"`

	// Title is the compiled Markdown document title.
	Title string `yaml:"title,omitempty"`

	// RateLimit is the requests-per-minute ceiling.
	RateLimit int `yaml:"rateLimit,omitempty"`

	// Delay is the minimum pause between requests, e.g. "500ms" or "2s".
	Delay Duration `yaml:"delay,omitempty"`

	// Timeout is the per-request timeout.
	Timeout Duration `yaml:"timeout,omitempty"`

	// Proxy is an HTTP/HTTPS proxy URL.
	Proxy string `yaml:"proxy,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// IncludePatterns are URL substrings to restrict the crawl to.
	IncludePatterns []string `yaml:"includePatterns,omitempty"`

	// ExcludePatterns are URL substrings to reject.
	ExcludePatterns []string `yaml:"excludePatterns,omitempty"`

	// IncludeFilters are content selectors to keep during conversion.
	IncludeFilters []string `yaml:"includeFilters,omitempty"`

	// ExcludeFilters are content selectors to drop during conversion.
	ExcludeFilters []string `yaml:"excludeFilters,omitempty"`
}

// LoadConfigFile loads configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound; callers decide
// whether that matters based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// ApplyTo fills unset fields of cfg from the file. Command-line values,
// already present in cfg, are never overwritten.
func (cf *File) ApplyTo(cfg *Config) {
	if len(cfg.Seeds) == 0 {
		cfg.Seeds = cf.Seeds
	}
	if cfg.OutputDir == DefaultOutputDir && cf.Output != "" {
		cfg.OutputDir = cf.Output
	}
	if cfg.Title == "" {
		cfg.Title = cf.Title
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = cf.RateLimit
	}
	if cfg.Delay == 0 {
		cfg.Delay = time.Duration(cf.Delay)
	}
	if cfg.Timeout == DefaultTimeout && cf.Timeout != 0 {
		cfg.Timeout = time.Duration(cf.Timeout)
	}
	if cfg.Proxy == "" {
		cfg.Proxy = cf.Proxy
	}
	if cfg.UserAgent == DefaultUserAgent && cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	if len(cfg.IncludePatterns) == 0 {
		cfg.IncludePatterns = cf.IncludePatterns
	}
	if len(cfg.ExcludePatterns) == 0 {
		cfg.ExcludePatterns = cf.ExcludePatterns
	}
	if len(cfg.IncludeFilters) == 0 {
		cfg.IncludeFilters = cf.IncludeFilters
	}
	if len(cfg.ExcludeFilters) == 0 {
		cfg.ExcludeFilters = cf.ExcludeFilters
	}
}

// FindConfigFile searches for the configuration file in order:
// an explicit path, .sitemd in the current directory, then .sitemd in the
// user's home directory. Returns an empty string when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
