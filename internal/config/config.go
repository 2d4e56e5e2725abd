package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Where a default has a user-facing
// meaning (report directory, endpoint) it matches what the HTTP and
// file contracts promise.
const (
	// DefaultAPIURL is the summarization endpoint used when API_URL is
	// not set. The DeepSeek official v1 path avoids model-alias
	// mismatches seen with aggregator providers.
	DefaultAPIURL = "https://api.deepseek.com/v1/chat/completions"

	// DefaultMaxArticles caps how many deduplicated items a single
	// generation run keeps.
	DefaultMaxArticles = 10

	// DefaultTemperature is the sampling temperature for the
	// summarization request.
	DefaultTemperature = 0.7

	// DefaultMaxTokens is the completion budget for the summarization
	// request. 2000 tokens comfortably fits ten summaries plus the
	// highlights section.
	DefaultMaxTokens = 2000

	// DefaultMaxRetries is the number of additional attempts after the
	// first failed summarization call (2 retries = 3 total attempts).
	DefaultMaxRetries = 2

	// DefaultOutputDir is the directory dated reports are written to.
	DefaultOutputDir = "news_output"

	// DefaultStaticDir is the frontend directory served at the HTTP
	// root when it exists.
	DefaultStaticDir = "HTML"

	// DefaultServerAddr is the listen address of the HTTP server.
	DefaultServerAddr = ":8000"

	// DefaultFetchTimeout bounds a single listing-page request.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultRequestTimeout bounds a single summarization request.
	// Chat-completion backends routinely take tens of seconds for long
	// prompts, so this is generous.
	DefaultRequestTimeout = 30 * time.Second

	// AppName is the application name used for XDG directory paths.
	AppName = "news-crawler"
)

// Config holds all runtime options for news-crawler. It is populated
// from defaults, an optional .env file, process environment variables,
// and an optional YAML sources file, then passed through the
// application via dependency injection rather than global state.
type Config struct {
	// MaxArticles is the cap on deduplicated items kept per run.
	MaxArticles int

	// APIKey is the bearer credential for the summarization call.
	// When empty the Summarizer yields no AI summary and the report
	// falls back to locally synthesized content; it is not a startup
	// error.
	APIKey string

	// APIURL is the summarization endpoint or a provider base URL.
	// Loosely specified values are normalized to a chat-completion
	// endpoint before use.
	APIURL string

	// APIModel overrides the model name. When empty the model is
	// inferred from the endpoint host.
	APIModel string

	// Temperature is the sampling temperature sent with the request.
	Temperature float64

	// MaxTokens is the completion budget sent with the request.
	MaxTokens int

	// MaxRetries is the number of additional attempts after a failed
	// summarization call. Zero disables retrying.
	MaxRetries int

	// HTTPProxy and HTTPSProxy route the summarization call through an
	// outbound proxy. When unset, the process environment proxy
	// settings apply.
	HTTPProxy  string
	HTTPSProxy string

	// Referer and AppTitle populate the optional HTTP-Referer and
	// X-Title attribution headers some aggregator providers ask for.
	Referer  string
	AppTitle string

	// OutputDir is the directory dated reports are written to.
	OutputDir string

	// DebugDir is the directory debug artifacts (raw AI responses,
	// fetched listing pages) are written to. Defaults to the XDG cache
	// directory for the application.
	DebugDir string

	// StaticDir is the frontend directory served at the HTTP root.
	// When the directory does not exist the server responds with a
	// JSON hint instead.
	StaticDir string

	// ServerAddr is the listen address for the serve command.
	ServerAddr string

	// SourcesFile is the path to the YAML news-source configuration.
	// If empty, the loader searches the current directory and then the
	// user's home directory; when no file is found the built-in
	// default source applies.
	SourcesFile string

	// Sources is the list of news sources to fetch each run.
	Sources []Source

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool
}

// NewConfig creates a new Config with default values, including the
// built-in default news source. Callers typically overlay environment
// values via Load rather than using this directly.
func NewConfig() *Config {
	return &Config{
		MaxArticles: DefaultMaxArticles,
		APIURL:      DefaultAPIURL,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		MaxRetries:  DefaultMaxRetries,
		OutputDir:   DefaultOutputDir,
		DebugDir:    XDGCacheDir(),
		StaticDir:   DefaultStaticDir,
		ServerAddr:  DefaultServerAddr,
		Sources:     DefaultSources(),
	}
}

// XDGCacheDir returns the XDG cache directory for news-crawler.
// On Linux: ~/.cache/news-crawler
// On macOS: ~/Library/Caches/news-crawler
// On Windows: %LOCALAPPDATA%\news-crawler\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// XDGConfigDir returns the XDG config directory for news-crawler.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid. It returns a specific
// error describing the first violation found. A missing API key is
// deliberately not a validation error; the pipeline degrades to the
// fallback summary without it.
func (c *Config) Validate() error {
	if c.MaxArticles <= 0 {
		return ErrInvalidMaxArticles
	}

	if c.MaxTokens <= 0 {
		return ErrInvalidMaxTokens
	}

	if c.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return ErrInvalidTemperature
	}

	if len(c.Sources) == 0 {
		return ErrNoSources
	}

	for _, s := range c.Sources {
		if !s.complete() {
			return ErrIncompleteSource
		}
	}

	return nil
}
