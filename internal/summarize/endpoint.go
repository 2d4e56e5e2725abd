package summarize

import "strings"

// Known summarization providers, matched by endpoint host substring.
const (
	deepseekHost   = "api.deepseek.com"
	modelscopeHost = "api-inference.modelscope.cn"
	openrouterHost = "openrouter.ai"
)

// NormalizeEndpoint derives the chat-completion endpoint from a loosely
// specified base URL. Accepted forms:
//
//   - https://api.deepseek.com/v1/chat/completions (already complete)
//   - https://api.deepseek.com (bare official root)
//   - https://openrouter.ai/api/v1 (version root)
//   - https://api-inference.modelscope.cn/v1 (version root)
//
// Anything else passes through unchanged. The function is pure: same
// input, same output, no I/O.
func NormalizeEndpoint(raw string) string {
	url := strings.TrimRight(strings.TrimSpace(raw), "/")
	if url == "" {
		return ""
	}

	// Already a complete chat-completions path.
	if strings.HasSuffix(url, "/chat/completions") {
		return url
	}

	// Common v1 or api/v1 roots.
	if strings.HasSuffix(url, "/v1") || strings.HasSuffix(url, "/api/v1") {
		return url + "/chat/completions"
	}

	// Bare official DeepSeek root gets the full versioned path.
	if strings.Contains(url, deepseekHost) && !strings.HasSuffix(url, "/chat") {
		if strings.HasSuffix(url, deepseekHost) {
			return url + "/v1/chat/completions"
		}
	}

	return url
}

// DefaultModel infers a model name from the configured URL when no
// explicit model is set. Aggregator providers reject the official
// model alias, so each known host gets its own default.
func DefaultModel(rawURL string) string {
	url := strings.ToLower(strings.TrimSpace(rawURL))
	switch {
	case strings.Contains(url, modelscopeHost):
		return "deepseek-ai/DeepSeek-V3.1"
	case strings.Contains(url, openrouterHost):
		return "deepseek/deepseek-chat-v3.1:free"
	default:
		return "deepseek-chat"
	}
}
