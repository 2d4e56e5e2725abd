// Package crawler downloads configured news listing pages and extracts
// structured news items from them.
//
// # Architecture
//
// The package is built around the Fetcher type, which fans out over the
// configured sources, and ParseListing, which walks one page with the
// source's CSS selectors. Sources are independent: a page that fails to
// download or parse costs its own items and nothing else.
//
// # Components
//
//   - Fetcher: concurrent multi-source downloader with UA rotation,
//     politeness pauses and charset-aware decoding
//   - ParseListing: selector-driven item extraction with relative-link
//     resolution
//
// # Politeness
//
// Each successful fetch is followed by a short randomized pause, the
// concurrent fan-out is limited, and response bodies are size-capped.
// Listing pages are fetched once per run; nothing is re-visited.
//
// # Usage
//
//	fetcher := crawler.NewFetcher(cfg)
//	items, err := fetcher.Fetch(ctx)
//	if err != nil {
//		// only context cancellation ends up here
//	}
package crawler
