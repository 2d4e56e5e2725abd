// Package server exposes report generation and browsing over HTTP.
//
// The API lives under /api: health, news-list, news-detail,
// generate-news and generate-status. Generation is asynchronous:
// POST /api/generate-news returns immediately and pollers follow the
// run through /api/generate-status; a trigger while a run is active
// gets 409. When the configured static directory exists it is served
// on every path the API does not claim, so the bundled frontend and
// the API share one listener.
package server
