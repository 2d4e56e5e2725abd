// Package config provides configuration structures and utilities for
// news-crawler. It merges built-in defaults, an optional .env file,
// process environment variables, and an optional YAML sources file into
// a single validated Config passed through the application.
package config
