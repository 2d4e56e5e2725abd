// Package logging provides secure logging built on the standard slog
// package. The SecureHandler wrapper masks credential-carrying
// attributes (API keys, Authorization headers, proxy credentials)
// before records reach the underlying text or JSON handler, so secrets
// never land in log output even in verbose mode.
package logging
