package dump

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Sink receives debug artifacts produced as side effects of fetching
// and summarizing: the raw listing HTML of each source and the last
// decoded AI response. Artifacts are an observability aid, not part of
// the business contract, so implementations must be safe to fail and
// callers must never propagate sink errors into the pipeline.
type Sink interface {
	// Dump writes one named artifact, overwriting any previous
	// artifact with the same name.
	Dump(name string, data []byte) error
}

// FileSink writes artifacts as files under a single directory.
type FileSink struct {
	// dir is the directory artifacts are written to. It is created on
	// first use.
	dir string
}

// NewFileSink creates a FileSink rooted at dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Dump writes the artifact to <dir>/<name>, creating the directory if
// needed. A previous artifact with the same name is overwritten.
func (s *FileSink) Dump(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0600)
}

// Discard is a Sink that drops every artifact. It keeps fetching and
// summarizing testable without filesystem access.
type Discard struct{}

// Dump implements Sink and does nothing.
func (Discard) Dump(string, []byte) error {
	return nil
}

// JSON encodes v as indented JSON and dumps it under the given name.
// Encoding failures are returned so the caller can log them.
func JSON(s Sink, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return s.Dump(name, data)
}
