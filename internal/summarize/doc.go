// Package summarize turns a batch of crawled news items into a
// Chinese-language Markdown digest by calling an OpenAI-compatible
// chat-completions endpoint.
//
// The package accepts loosely specified provider URLs (bare DeepSeek
// roots, OpenRouter and ModelScope version roots, or a complete path)
// and normalizes them deterministically. Responses are decoded through
// a fixed chain of shape variants so that official and aggregator
// providers both work without per-provider code paths. Transport and
// HTTP-status failures are retried with a linearly growing delay;
// responses that succeed at the HTTP layer but carry no usable text
// are terminal, because resending the same prompt cannot change them.
package summarize
