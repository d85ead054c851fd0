// Package crawler fetches pages, converts them to Markdown, and drives
// the crawl loop over the persistent frontier.
//
// # Architecture
//
//   - Processor: fetches and classifies one URL, parsing the body into a
//     single HTML document that serves both link discovery and Markdown
//     conversion
//   - retryTransport: an http.RoundTripper that retries idempotent GETs
//     on connection errors and transient status codes
//   - Crawler: the batch loop over the frontier store, paced by the rate
//     governor
//
// The crawl is single-worker: ordering stays deterministic, the rate
// governor is the only pacing mechanism, and the SQLite store keeps its
// single-writer discipline.
//
// # Usage
//
//	proc, err := crawler.NewProcessor(client, pol, cfg.UserAgent, cfg.MaxBodySize)
//	c := crawler.New(store, proc, governor, pol, logger)
//	summary, err := c.Run(ctx, cfg.Seeds)
package crawler
