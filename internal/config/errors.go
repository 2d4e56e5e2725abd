package config

import "errors"

// Configuration errors. Validation errors are package-level sentinels
// so callers can use errors.Is for programmatic handling while the
// messages stay human-readable.
var (
	// ErrInvalidMaxArticles is returned when the article cap is not
	// positive. A cap of zero would make every run fail with an empty
	// item list.
	ErrInvalidMaxArticles = errors.New("invalid MAX_ARTICLES: must be positive")

	// ErrInvalidMaxTokens is returned when the completion budget is
	// not positive.
	ErrInvalidMaxTokens = errors.New("invalid API_MAX_TOKENS: must be positive")

	// ErrInvalidMaxRetries is returned when the retry count is
	// negative. Use 0 to disable retrying.
	ErrInvalidMaxRetries = errors.New("invalid API_MAX_RETRIES: must be non-negative")

	// ErrInvalidTemperature is returned when the sampling temperature
	// is outside the range accepted by chat-completion providers.
	ErrInvalidTemperature = errors.New("invalid API_TEMPERATURE: must be between 0 and 2")

	// ErrNoSources is returned when the source list is empty. This only
	// happens with an explicit sources file that defines no sources;
	// without a file the built-in default source applies.
	ErrNoSources = errors.New("no news sources configured: define at least one source")

	// ErrIncompleteSource is returned when a source is missing one of
	// the required fields (name, url, item/title/link selectors).
	ErrIncompleteSource = errors.New("incomplete news source: name, url, and item/title/link selectors are required")

	// ErrSourcesNotFound is returned when the sources file does not
	// exist. Callers decide whether that is fatal based on whether the
	// path was explicitly requested.
	ErrSourcesNotFound = errors.New("sources file not found")
)
