// Package dump provides the debug-artifact sink used by the fetching
// and summarizing components. Artifacts (fetched listing pages, the
// last raw AI response) are written through the Sink interface so the
// producing code stays testable without filesystem access; Discard
// serves that purpose in tests.
package dump
