package model

// Item is one normalized news entry extracted from a listing page.
// Items live in memory for the duration of a single generation run and
// are never persisted individually; the dated report is the only
// durable artifact.
type Item struct {
	// Title is the headline text as shown on the listing page.
	Title string `json:"title"`

	// Link is the absolute URL of the article. Relative links are
	// resolved against the source's base URL before an Item is built.
	Link string `json:"link"`

	// PublishTime is the site-provided publish time text, kept
	// verbatim and never parsed.
	PublishTime string `json:"publish_time"`

	// Source is the human-readable name of the originating site.
	Source string `json:"source"`
}

// ItemKey identifies an Item for deduplication. Two items are
// duplicates only when both title and link match exactly.
type ItemKey struct {
	Title string
	Link  string
}

// Key returns the deduplication identity of the item.
func (i Item) Key() ItemKey {
	return ItemKey{Title: i.Title, Link: i.Link}
}

// DedupItems removes duplicate items by (title, link), preserving
// first-seen order.
func DedupItems(items []Item) []Item {
	seen := make(map[ItemKey]struct{}, len(items))
	unique := make([]Item, 0, len(items))
	for _, item := range items {
		key := item.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}

// CapItems limits items to at most max entries.
// A non-positive max leaves the slice unchanged.
func CapItems(items []Item, max int) []Item {
	if max <= 0 || len(items) <= max {
		return items
	}
	return items[:max]
}
