package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/li-k-z/news-crawler/internal/config"
	"github.com/li-k-z/news-crawler/internal/dump"
	"github.com/li-k-z/news-crawler/internal/model"
)

// debugResponseFile is the sink name for the decoded provider
// response. Each successful HTTP exchange overwrites it.
const debugResponseFile = "api_response.json"

var (
	// ErrNoItems reports a summarization request without any items.
	ErrNoItems = errors.New("no items to summarize")

	// ErrMissingAPIKey reports that no API key is configured.
	ErrMissingAPIKey = errors.New("no API key configured")

	// ErrMissingEndpoint reports that normalization produced an empty
	// endpoint URL.
	ErrMissingEndpoint = errors.New("no summarization endpoint configured")
)

// chatRequest is the OpenAI-compatible completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls an OpenAI-compatible chat-completions endpoint to turn
// a batch of news items into a Markdown digest. A Client is safe for
// concurrent use; all mutable state lives in the request scope.
type Client struct {
	endpoint    string
	model       string
	apiKey      string
	temperature float64
	maxTokens   int
	maxRetries  int
	referer     string
	appTitle    string
	retryDelay  time.Duration
	httpClient  *http.Client
	sink        dump.Sink
	logger      *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryDelay sets the base delay between attempts. Attempt n waits
// n times this value before the next try.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithSink directs raw provider responses to the given debug sink.
func WithSink(s dump.Sink) ClientOption {
	return func(c *Client) {
		c.sink = s
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient builds a summarization client from the configuration. The
// endpoint is normalized once here; the model falls back to a
// per-provider default when the configuration leaves it empty.
func NewClient(cfg *config.Config, opts ...ClientOption) *Client {
	mdl := cfg.APIModel
	if mdl == "" {
		mdl = DefaultModel(cfg.APIURL)
	}

	c := &Client{
		endpoint:    NormalizeEndpoint(cfg.APIURL),
		model:       mdl,
		apiKey:      cfg.APIKey,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		maxRetries:  cfg.MaxRetries,
		referer:     cfg.Referer,
		appTitle:    cfg.AppTitle,
		retryDelay:  time.Second,
		httpClient: &http.Client{
			Timeout:   config.DefaultRequestTimeout,
			Transport: newTransport(cfg),
		},
		sink:   dump.Discard{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newTransport wires the configured proxy into the HTTP transport.
// Explicit configuration wins over process environment.
func newTransport(cfg *config.Config) *http.Transport {
	proxy := http.ProxyFromEnvironment
	if cfg.HTTPProxy != "" || cfg.HTTPSProxy != "" {
		proxy = func(req *http.Request) (*url.URL, error) {
			raw := cfg.HTTPSProxy
			if req.URL.Scheme == "http" {
				raw = cfg.HTTPProxy
			}
			if raw == "" {
				return nil, nil
			}
			return url.Parse(raw)
		}
	}
	return &http.Transport{Proxy: proxy}
}

// Endpoint returns the normalized chat-completions URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Model returns the model name requests are sent with.
func (c *Client) Model() string {
	return c.model
}

// Summarize sends the items to the configured endpoint and returns the
// generated Markdown text. Transport failures and HTTP error statuses
// are retried up to maxRetries times with a linearly growing delay; an
// HTTP-success response without extractable content is terminal for
// the whole call. Callers treat any error as "no AI summary available"
// and fall back to locally synthesized content.
func (c *Client) Summarize(ctx context.Context, items []model.Item) (string, error) {
	if len(items) == 0 {
		return "", ErrNoItems
	}
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	if c.endpoint == "" {
		return "", ErrMissingEndpoint
	}

	payload := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: BuildPrompt(items)}},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	attempts := c.maxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		c.logger.Info("requesting AI summary",
			"endpoint", c.endpoint,
			"model", c.model,
			"items", len(items),
			"attempt", attempt,
			"max_attempts", attempts)

		raw, err := c.post(ctx, body)
		if err != nil {
			lastErr = err
			c.logger.Warn("summarization attempt failed", "attempt", attempt, "error", err)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * c.retryDelay):
			}
			continue
		}

		c.dumpResponse(raw)

		content, err := ExtractContent(raw)
		if err != nil {
			c.logger.Warn("summarization response unusable", "error", err)
			return "", err
		}
		return content, nil
	}

	return "", fmt.Errorf("summarization failed after %d attempts: %w", attempts, lastErr)
}

// post performs one HTTP exchange and returns the response body. Any
// status of 400 or above counts as a failed attempt; the first 500
// bytes of the body are logged to aid provider-side diagnosis.
func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.appTitle != "" {
		req.Header.Set("X-Title", c.appTitle)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		snippet := raw
		if len(snippet) > 500 {
			snippet = snippet[:500]
		}
		c.logger.Warn("summarization API returned error status",
			"status", resp.StatusCode,
			"body", string(snippet))
		return nil, fmt.Errorf("unexpected status %d from summarization endpoint", resp.StatusCode)
	}
	return raw, nil
}

// dumpResponse writes the provider response to the debug sink,
// re-indented when it is valid JSON and verbatim otherwise. Dump
// failures are logged and swallowed; diagnostics never fail a run.
func (c *Client) dumpResponse(raw []byte) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if err := c.sink.Dump(debugResponseFile, raw); err != nil {
			c.logger.Warn("failed to dump API response", "error", err)
		}
		return
	}
	if err := dump.JSON(c.sink, debugResponseFile, decoded); err != nil {
		c.logger.Warn("failed to dump API response", "error", err)
	}
}
