// Package main provides the entry point for the newscrawler CLI.
//
// newscrawler fetches headlines from configured news portals, summarizes
// them with an AI chat-completion backend, and writes a dated Markdown
// report. It runs either as a one-shot generator or as an HTTP server
// that exposes the pipeline to a frontend.
//
// Usage:
//
//	newscrawler generate
//	newscrawler serve
//
// See --help for all available options.
package main

// main is the entry point for newscrawler.
func main() {
	Execute()
}
