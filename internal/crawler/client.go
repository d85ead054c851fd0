package crawler

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sitemd/sitemd/internal/config"
)

// NewHTTPClient builds the HTTP client used for all fetches. The proxy
// URL, when set, is validated here so a typo fails the run before the
// first request rather than on every fetch. The transport carries the
// retry policy for transient failures.
func NewHTTPClient(cfg *config.Config) (*http.Client, error) {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", cfg.Proxy, err)
		}
		if proxyURL.Scheme == "" || proxyURL.Host == "" {
			return nil, fmt.Errorf("invalid proxy URL %q: missing scheme or host", cfg.Proxy)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Transport: newRetryTransport(transport),
		Timeout:   cfg.Timeout,
	}, nil
}
