package config

// Source describes one news site to fetch: its listing URL and the CSS
// selectors that locate each item's fields inside the listing page.
// Selectors need adjustment whenever a site changes its markup.
type Source struct {
	// Name is the human-readable source name. It doubles as the item
	// source when the page provides none, and names the source's debug
	// dump file.
	Name string `yaml:"name"`

	// URL is the listing page to fetch.
	URL string `yaml:"url"`

	// BaseURL resolves relative article links found on the listing
	// page. When empty, relative links are resolved against URL.
	BaseURL string `yaml:"baseURL,omitempty"`

	// Selectors locate the per-item fields in the listing page.
	Selectors Selectors `yaml:"selectors"`
}

// Selectors holds the CSS selectors for one source. Item, Title, and
// Link are required; Time and Source are optional and yield empty or
// defaulted fields when absent or unmatched.
type Selectors struct {
	// Item selects the repeated per-article container elements.
	Item string `yaml:"item"`

	// Title selects the headline element within an item.
	Title string `yaml:"title"`

	// Link selects the anchor element within an item; its href
	// attribute becomes the article link.
	Link string `yaml:"link"`

	// Time selects the publish time element within an item.
	Time string `yaml:"time,omitempty"`

	// Source selects the original outlet name within an item.
	Source string `yaml:"source,omitempty"`
}

// File represents the structure of the sources configuration file.
type File struct {
	// Sources is the ordered list of news sites to fetch each run.
	// Fetch results are concatenated in this order before dedup.
	Sources []Source `yaml:"sources"`
}

// DefaultSources returns the built-in source list used when no sources
// file is found. It mirrors the fields a scaffolded config starts with,
// so the binary is usable with zero configuration files.
func DefaultSources() []Source {
	return []Source{
		{
			Name:    "凤凰新闻",
			URL:     "https://news.ifeng.com/",
			BaseURL: "https://news.ifeng.com",
			Selectors: Selectors{
				Item:   ".news-stream-newsStream-news-item-infor",
				Title:  "h2",
				Link:   "a",
				Time:   ".time",
				Source: ".source",
			},
		},
	}
}

// complete reports whether the source carries every required field.
func (s Source) complete() bool {
	return s.Name != "" && s.URL != "" &&
		s.Selectors.Item != "" && s.Selectors.Title != "" && s.Selectors.Link != ""
}
