package crawler

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/li-k-z/news-crawler/internal/config"
	"github.com/li-k-z/news-crawler/internal/model"
)

// ParseListing extracts news items from a listing page using the
// source's CSS selectors. Only the first maxItems matched container
// elements are considered; a container that lacks a usable title or
// link is skipped and still consumes its slot. Relative links are
// resolved against the source's BaseURL (or URL when BaseURL is
// empty); items without a time element get an empty publish time, and
// items without a source element fall back to the source name.
func ParseListing(r io.Reader, src config.Source, maxItems int) ([]model.Item, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	base := src.BaseURL
	if base == "" {
		base = src.URL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", base, err)
	}

	items := make([]model.Item, 0, maxItems)
	doc.Find(src.Selectors.Item).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if maxItems > 0 && i >= maxItems {
			return false
		}

		title := strings.TrimSpace(sel.Find(src.Selectors.Title).First().Text())
		if title == "" {
			return true
		}

		href, ok := sel.Find(src.Selectors.Link).First().Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return true
		}

		item := model.Item{
			Title:  title,
			Link:   resolveLink(baseURL, href),
			Source: src.Name,
		}
		if src.Selectors.Time != "" {
			item.PublishTime = strings.TrimSpace(sel.Find(src.Selectors.Time).First().Text())
		}
		if src.Selectors.Source != "" {
			if name := strings.TrimSpace(sel.Find(src.Selectors.Source).First().Text()); name != "" {
				item.Source = name
			}
		}

		items = append(items, item)
		return true
	})

	return items, nil
}

// resolveLink completes a relative article link. Absolute http(s)
// links pass through untouched.
func resolveLink(base *url.URL, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
