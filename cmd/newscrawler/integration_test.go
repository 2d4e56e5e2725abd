package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/li-k-z/news-crawler/internal/report"
)

// Integration tests exercise the generate command end to end: a local
// listing server stands in for the news portals and a local chat
// completion server stands in for the AI backend. They capture stdout
// and pin environment variables, so none of them run in parallel.

// skipIfShort skips long-running integration tests in short mode.
func skipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

// writeSourcesFile writes a sources file pointing at the given listing
// URL and returns its path.
func writeSourcesFile(t *testing.T, listingURL string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sources.yml")
	content := fmt.Sprintf(`sources:
  - name: "测试新闻"
    url: "%s"
    selectors:
      item: ".news-item"
      title: "h2"
      link: "a"
      time: ".time"
      source: ".source"
`, listingURL)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write sources file: %v", err)
	}
	return path
}

// pinEnvironment fixes every environment variable the generate command
// reads so host configuration cannot leak into the test.
func pinEnvironment(t *testing.T, apiKey, apiURL, debugDir string) {
	t.Helper()

	t.Setenv("API_KEY", apiKey)
	t.Setenv("API_URL", apiURL)
	t.Setenv("API_MODEL", "")
	t.Setenv("API_MAX_RETRIES", "")
	t.Setenv("DEBUG_DIR", debugDir)
	t.Setenv("SOURCES_FILE", "")
	t.Setenv("OUTPUT_DIR", "")
	// The proxy settings must not redirect test traffic.
	t.Setenv("HTTP_PROXY", "")
	t.Setenv("HTTPS_PROXY", "")
	t.Setenv("http_proxy", "")
	t.Setenv("https_proxy", "")
}

// TestIntegrationGenerateCommand runs a full generation against local
// servers and checks the persisted report carries the AI summary.
func TestIntegrationGenerateCommand(t *testing.T) {
	skipIfShort(t)

	listing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(testListingHTML))
	}))
	defer listing.Close()

	const aiSummary = "1. 【标题】科技创新大会开幕\n【摘要】大会发布多项前沿成果，双会场同步直播。\n\n## 今日热点总结\n\n科技与城市建设并进。"

	var apiCalls atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls.Add(1)
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if auth := r.Header.Get("Authorization"); !strings.HasPrefix(auth, "Bearer ") {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": aiSummary}},
			},
		})
	}))
	defer api.Close()

	sourcesPath := writeSourcesFile(t, listing.URL+"/")
	debugDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "reports")
	pinEnvironment(t, "sk-test-key-0123456789abcdef", api.URL+"/v1/chat/completions", debugDir)

	root := NewRootCmd()
	root.SetArgs([]string{"generate", "-c", sourcesPath, "-o", outDir})

	output, err := captureStdout(t, root.Execute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if !strings.Contains(output, "Report generated in") {
		t.Errorf("expected completion message, got %q", output)
	}
	if !strings.Contains(output, "Report:") {
		t.Errorf("expected report path in output, got %q", output)
	}
	if got := apiCalls.Load(); got != 1 {
		t.Errorf("expected 1 API call, got %d", got)
	}

	store := report.NewStore(outDir)
	body, err := store.Read(time.Now().Format("2006-01-02"))
	if err != nil {
		t.Fatalf("failed to read generated report: %v", err)
	}
	if !strings.HasPrefix(body, "# 每日新闻（") {
		t.Error("expected dated report heading")
	}
	if !strings.Contains(body, "双会场同步直播") {
		t.Error("expected AI summary content in report")
	}
	if strings.Contains(body, "暂无AI摘要") {
		t.Error("expected no fallback notice when the AI responded")
	}

	// The debug sink must have recorded the exchanges.
	dumps, err := os.ReadDir(debugDir)
	if err != nil {
		t.Fatalf("failed to read debug directory: %v", err)
	}
	if len(dumps) == 0 {
		t.Error("expected debug dumps to be written")
	}
}

// TestIntegrationGenerateFallback runs a generation without an API key
// and checks the report falls back to the synthesized summary.
func TestIntegrationGenerateFallback(t *testing.T) {
	skipIfShort(t)

	listing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(testListingHTML))
	}))
	defer listing.Close()

	sourcesPath := writeSourcesFile(t, listing.URL+"/")
	outDir := filepath.Join(t.TempDir(), "reports")
	pinEnvironment(t, "", "", t.TempDir())

	root := NewRootCmd()
	root.SetArgs([]string{"generate", "-c", sourcesPath, "-o", outDir})

	output, err := captureStdout(t, root.Execute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(output, "Report:") {
		t.Errorf("expected report path in output, got %q", output)
	}

	store := report.NewStore(outDir)
	body, err := store.Read(time.Now().Format("2006-01-02"))
	if err != nil {
		t.Fatalf("failed to read generated report: %v", err)
	}
	if !strings.Contains(body, "暂无AI摘要") {
		t.Error("expected fallback notice without an API key")
	}
	if !strings.Contains(body, report.HighlightsHeading) {
		t.Error("expected highlights section in fallback report")
	}
}
