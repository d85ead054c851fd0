package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"golang.org/x/net/html"

	"github.com/sitemd/sitemd/internal/model"
	"github.com/sitemd/sitemd/internal/policy"
)

// Processor fetches a single URL and turns it into a CrawlResult.
// It never returns an unclassified failure: every outcome, including
// network errors, carries an ErrorKind in the result metadata, and
// persistence is left entirely to the caller.
type Processor struct {
	client      *http.Client
	pol         *policy.Policy
	userAgent   string
	maxBodySize int64
	include     []selector
	exclude     []selector
	parse       func(io.Reader) (*html.Node, error)
	logger      *slog.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithFilters sets the content selectors applied before conversion.
// Include selectors keep only matching elements; exclude selectors
// remove theirs.
func WithFilters(include, exclude []string) ProcessorOption {
	return func(p *Processor) {
		p.include = parseSelectors(include)
		p.exclude = parseSelectors(exclude)
	}
}

// WithParseFunc replaces the HTML parse function. Tests use this to
// observe that each body is parsed exactly once.
func WithParseFunc(fn func(io.Reader) (*html.Node, error)) ProcessorOption {
	return func(p *Processor) {
		p.parse = fn
	}
}

// WithProcessorLogger sets the logger. Defaults to slog.Default().
func WithProcessorLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = logger
	}
}

// NewProcessor creates a Processor. The client should come from
// NewHTTPClient so fetches go through the retry transport.
func NewProcessor(client *http.Client, pol *policy.Policy, userAgent string, maxBodySize int64, opts ...ProcessorOption) *Processor {
	p := &Processor{
		client:      client,
		pol:         pol,
		userAgent:   userAgent,
		maxBodySize: maxBodySize,
		parse:       html.Parse,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Process fetches one canonical URL. The response body streams into a
// single parse; the resulting document serves link discovery first and
// is then pruned in place for Markdown conversion, so no page is parsed
// twice. Non-200 responses and non-HTML content types are classified
// before the body is read.
func (p *Processor) Process(ctx context.Context, pageURL string) *model.CrawlResult {
	result := &model.CrawlResult{
		URL: pageURL,
		Metadata: model.PageMetadata{
			Version:     model.MetadataVersion,
			RetrievedAt: time.Now().UTC(),
		},
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return p.fail(result, model.ErrorKindNetwork, fmt.Sprintf("invalid URL: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return p.fail(result, model.ErrorKindNetwork, fmt.Sprintf("invalid request: %v", err))
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := p.client.Do(req)
	if err != nil {
		return p.fail(result, model.ErrorKindNetwork, err.Error())
	}
	defer resp.Body.Close()

	result.Metadata.StatusCode = resp.StatusCode
	result.Metadata.ContentType = resp.Header.Get("Content-Type")

	if resp.StatusCode != http.StatusOK {
		return p.fail(result, model.ErrorKindNonSuccessStatus,
			fmt.Sprintf("status %d", resp.StatusCode))
	}

	if !strings.Contains(result.Metadata.ContentType, "text/html") {
		return p.fail(result, model.ErrorKindNonHTML,
			fmt.Sprintf("content type %q", result.Metadata.ContentType))
	}

	doc, err := p.parse(io.LimitReader(resp.Body, p.maxBodySize))
	if err != nil {
		return p.fail(result, model.ErrorKindParse, err.Error())
	}

	title, links := scanDocument(doc, p.pol, base)
	result.Metadata.Title = title
	result.Links = links

	pruneDocument(doc, p.include, p.exclude)

	markdown, err := p.convert(doc, base)
	if err != nil {
		return p.fail(result, model.ErrorKindConversion, err.Error())
	}

	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return p.fail(result, model.ErrorKindEmptyContent, "conversion produced no text")
	}

	result.Content = &markdown
	return result
}

// convert turns the pruned document into Markdown. ConvertNode works
// directly on the tree; if it fails, the document is rendered back to
// HTML and converted from the string form instead.
func (p *Processor) convert(doc *html.Node, base *url.URL) (string, error) {
	markdown, err := htmltomarkdown.ConvertNode(doc, converter.WithDomain(base.Host))
	if err == nil {
		return string(markdown), nil
	}
	p.logger.Debug("node conversion failed, falling back to string form",
		"url", base.String(), "error", err)

	var rendered strings.Builder
	if renderErr := html.Render(&rendered, doc); renderErr != nil {
		return "", fmt.Errorf("node conversion failed (%v) and render failed: %w", err, renderErr)
	}

	fallback, err := htmltomarkdown.ConvertString(rendered.String(), converter.WithDomain(base.Host))
	if err != nil {
		return "", fmt.Errorf("conversion failed: %w", err)
	}
	return fallback, nil
}

func (p *Processor) fail(result *model.CrawlResult, kind model.ErrorKind, message string) *model.CrawlResult {
	result.Metadata.ErrorKind = kind
	result.Metadata.ErrorMessage = message
	p.logger.Debug("page not converted",
		"url", result.URL, "kind", string(kind), "detail", message)
	return result
}
