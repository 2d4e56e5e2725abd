package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// ErrReportNotFound is returned when no persisted report exists for the
// requested date.
var ErrReportNotFound = errors.New("no report for that date")

// summaryTag marks a per-item AI summary line inside a report body.
const summaryTag = "【摘要】"

// filenamePattern matches persisted report filenames and captures the
// date components. The Chinese date filename is part of the file
// contract and must not change.
var filenamePattern = regexp.MustCompile(`^(\d{4})年(\d{2})月(\d{2})日每日新闻\.md$`)

// Entry describes one persisted report for listing purposes.
type Entry struct {
	// Date is the report date in ISO form (YYYY-MM-DD).
	Date string `json:"date"`

	// HasSummary reports whether the body carries per-item summaries
	// or a highlights section.
	HasSummary bool `json:"has_summary"`
}

// Store persists and reads dated reports as flat Markdown files under a
// single directory. One file per calendar date; a later run for the
// same date overwrites the previous file.
type Store struct {
	// dir is the report directory. It is created on first save.
	dir string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the report directory.
func (s *Store) Dir() string {
	return s.dir
}

// Filename returns the report filename for the given date.
func Filename(date time.Time) string {
	return date.Format("2006年01月02日") + "每日新闻.md"
}

// parseFilename extracts the ISO date from a report filename, or ""
// when the name does not match the report pattern.
func parseFilename(name string) string {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
}

// Save writes the rendered report for the given date, creating the
// report directory if needed and overwriting any previous file for
// that date. It returns the path of the written file.
func (s *Store) Save(content string, date time.Time) (string, error) {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return "", fmt.Errorf("create report directory %s: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, Filename(date))
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}

	return path, nil
}

// List enumerates persisted reports, newest date first. A missing
// report directory yields an empty list, not an error. Files whose
// names do not match the report pattern are skipped; a file that
// cannot be read is listed without the summary flag.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("read report directory %s: %w", s.dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		iso := parseFilename(de.Name())
		if iso == "" {
			continue
		}

		entry := Entry{Date: iso}
		if data, err := os.ReadFile(filepath.Join(s.dir, de.Name())); err == nil { //nolint:gosec // Paths originate from the report directory listing
			entry.HasSummary = bodyHasSummary(string(data))
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})

	return entries, nil
}

// Find returns the path of the persisted report for an ISO date, or
// ErrReportNotFound when none exists.
func (s *Store) Find(isoDate string) (string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrReportNotFound
		}
		return "", fmt.Errorf("read report directory %s: %w", s.dir, err)
	}

	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		if parseFilename(de.Name()) == isoDate {
			return filepath.Join(s.dir, de.Name()), nil
		}
	}

	return "", ErrReportNotFound
}

// Read returns the raw body of the persisted report for an ISO date.
func (s *Store) Read(isoDate string) (string, error) {
	path, err := s.Find(isoDate)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path) //nolint:gosec // Path is resolved from the report directory listing
	if err != nil {
		return "", fmt.Errorf("read report %s: %w", path, err)
	}

	return string(data), nil
}

// bodyHasSummary reports whether a report body carries per-item
// summaries or a highlights section.
func bodyHasSummary(body string) bool {
	return strings.Contains(body, summaryTag) || strings.Contains(body, HighlightsHeading)
}

// ExtractSummary derives a short summary from a report body: the
// highlights section body when present (first 600 runes), otherwise
// the first non-empty line that is not a top-level heading (first 200
// runes), otherwise the empty string.
func ExtractSummary(body string) string {
	segments := strings.Split(body, "\n## ")
	candidates := segments[1:]
	if strings.HasPrefix(segments[0], "## ") {
		candidates = append([]string{strings.TrimPrefix(segments[0], "## ")}, candidates...)
	}
	for _, seg := range candidates {
		if !strings.HasPrefix(seg, "今日热点总结") {
			continue
		}
		_, rest, found := strings.Cut(seg, "\n")
		if !found {
			continue
		}
		if text := strings.TrimSpace(rest); text != "" {
			return truncateRunes(text, 600)
		}
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "# ") {
			continue
		}
		return truncateRunes(line, 200)
	}

	return ""
}

// truncateRunes limits s to at most n runes.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
