// Package report builds and persists the daily news report.
//
// The write side is split into pure rendering (Render, FallbackSummary)
// and filesystem persistence (Store.Save), so rendering stays
// deterministic and testable without I/O. The read side (Store.List,
// Store.Read, ExtractSummary) serves the HTTP report endpoints from the
// same dated flat files.
//
// Report bodies always end with the 今日热点总结 highlights section:
// the AI prompt requests it and the fallback synthesizer guarantees it,
// so summary extraction can rely on it being present.
package report
