// Package model defines the core data structures shared across the
// news-crawler pipeline.
//
// This package contains the following main types:
//   - Item: One normalized news entry extracted from a listing page
//   - ItemKey: The (title, link) identity used for deduplication
//
// Design decision: We separate models into their own package to avoid
// circular dependencies. Multiple packages (crawler, summarize, report)
// need to use these types, so centralizing them prevents import cycles.
//
// Items are serializable to JSON for debug dumps, but they are never
// persisted individually; the rendered daily report is the only durable
// artifact.
package model
