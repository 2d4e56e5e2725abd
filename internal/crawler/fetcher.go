package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/sync/errgroup"

	"github.com/li-k-z/news-crawler/internal/config"
	"github.com/li-k-z/news-crawler/internal/dump"
	"github.com/li-k-z/news-crawler/internal/model"
)

// defaultUserAgents are rotated per request. Listing pages served to
// unknown agents are sometimes stripped of the very containers the
// selectors target, so requests present as a desktop Chrome.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
}

// Fetcher downloads the configured listing pages and extracts news
// items from them. Sources are fetched concurrently but merged in
// configuration order, so the final item order is deterministic for a
// given set of page contents.
type Fetcher struct {
	// sources are the listing pages to fetch, in configuration order.
	sources []config.Source

	// maxArticles caps both the per-source parse and the merged result.
	maxArticles int

	// client performs the HTTP requests. The zero configuration honors
	// proxy settings from the process environment.
	client *http.Client

	// userAgents are candidate User-Agent values, picked at random per
	// request.
	userAgents []string

	// minDelay and maxDelay bound the politeness pause after each
	// successful fetch. maxDelay of zero disables the pause.
	minDelay time.Duration
	maxDelay time.Duration

	// concurrency limits how many sources are fetched at once.
	concurrency int

	// maxBodySize limits how much of a listing page is read.
	maxBodySize int64

	// sink receives a copy of each fetched page for offline selector
	// debugging.
	sink dump.Sink

	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithUserAgents replaces the rotated User-Agent values.
func WithUserAgents(agents []string) Option {
	return func(f *Fetcher) {
		if len(agents) > 0 {
			f.userAgents = agents
		}
	}
}

// WithDelayRange bounds the politeness pause after each successful
// fetch. Passing zero for max disables the pause.
func WithDelayRange(minDelay, maxDelay time.Duration) Option {
	return func(f *Fetcher) {
		f.minDelay = minDelay
		f.maxDelay = maxDelay
	}
}

// WithConcurrency limits how many sources are fetched at once.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithMaxBodySize limits how much of a listing page is read.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithSink directs fetched page copies to the given debug sink.
func WithSink(s dump.Sink) Option {
	return func(f *Fetcher) {
		f.sink = s
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// NewFetcher builds a Fetcher over the configured sources.
func NewFetcher(cfg *config.Config, opts ...Option) *Fetcher {
	f := &Fetcher{
		sources:     cfg.Sources,
		maxArticles: cfg.MaxArticles,
		client:      &http.Client{Timeout: config.DefaultFetchTimeout},
		userAgents:  defaultUserAgents,
		minDelay:    1 * time.Second,
		maxDelay:    2 * time.Second,
		concurrency: 4,
		maxBodySize: 10 * 1024 * 1024, // 10MB
		sink:        dump.Discard{},
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch downloads every configured source and returns the merged,
// deduplicated item list capped at maxArticles. A source that fails to
// download or parse is logged and contributes nothing; only context
// cancellation aborts the whole fetch. An empty result with a nil
// error means no source yielded items.
func (f *Fetcher) Fetch(ctx context.Context) ([]model.Item, error) {
	results := make([][]model.Item, len(f.sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, src := range f.sources {
		g.Go(func() error {
			items, err := f.fetchSource(gctx, src)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				f.logger.Warn("failed to fetch news source", "source", src.Name, "error", err)
				return nil
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.Item
	for _, items := range results {
		all = append(all, items...)
	}

	all = model.DedupItems(all)
	all = model.CapItems(all, f.maxArticles)
	f.logger.Info("news fetch finished", "sources", len(f.sources), "items", len(all))
	return all, nil
}

// fetchSource downloads and parses one listing page.
func (f *Fetcher) fetchSource(ctx context.Context, src config.Source) ([]model.Item, error) {
	f.logger.Info("fetching news source", "source", src.Name, "url", src.URL)

	body, err := f.getPage(ctx, src.URL)
	if err != nil {
		return nil, err
	}
	f.dumpListing(src.Name, body)

	items, err := ParseListing(bytes.NewReader(body), src, f.maxArticles)
	if err != nil {
		return nil, err
	}

	f.logger.Info("parsed news source", "source", src.Name, "items", len(items))
	return items, nil
}

// getPage downloads a listing page, decoding it to UTF-8 based on its
// declared or sniffed charset. Any status of 400 or above is an error.
// After a successful read the politeness pause runs, so concurrent
// fetches still pace themselves per source.
func (f *Fetcher) getPage(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgents[rand.IntN(len(f.userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, pageURL)
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to detect page encoding: %w", err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read page body: %w", err)
	}

	f.politeDelay(ctx)
	return body, nil
}

// politeDelay pauses for a random duration within the configured
// range, or returns immediately when the pause is disabled or the
// context ends first.
func (f *Fetcher) politeDelay(ctx context.Context) {
	if f.maxDelay <= 0 {
		return
	}
	d := f.minDelay
	if f.maxDelay > f.minDelay {
		d += time.Duration(rand.Int64N(int64(f.maxDelay - f.minDelay)))
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// dumpListing writes the fetched page to the debug sink so selector
// mismatches can be diagnosed against the exact bytes received.
func (f *Fetcher) dumpListing(name string, body []byte) {
	file := "listing_" + strings.ReplaceAll(name, " ", "_") + ".html"
	if err := f.sink.Dump(file, body); err != nil {
		f.logger.Warn("failed to dump listing page", "source", name, "error", err)
	}
}
