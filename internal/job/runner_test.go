package job

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/li-k-z/news-crawler/internal/model"
	"github.com/li-k-z/news-crawler/internal/report"
)

type fetchFunc func(ctx context.Context) ([]model.Item, error)

func (f fetchFunc) Fetch(ctx context.Context) ([]model.Item, error) {
	return f(ctx)
}

type summarizeFunc func(ctx context.Context, items []model.Item) (string, error)

func (f summarizeFunc) Summarize(ctx context.Context, items []model.Item) (string, error) {
	return f(ctx, items)
}

var testDate = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRunner(t *testing.T, fetcher Fetcher, summarizer Summarizer) (*Runner, *report.Store) {
	t.Helper()
	store := report.NewStore(t.TempDir())
	r := NewRunner(fetcher, summarizer, store,
		WithRunnerLogger(quietLogger()),
		WithClock(func() time.Time { return testDate }),
	)
	return r, store
}

func fixedItems() []model.Item {
	return []model.Item{
		{Title: "要闻一", Link: "https://example.com/1", PublishTime: "09:00", Source: "来源A"},
		{Title: "要闻二", Link: "https://example.com/2", PublishTime: "10:00", Source: "来源B"},
	}
}

func TestRunnerGeneratesReportWithAISummary(t *testing.T) {
	t.Parallel()

	body := "1. 【标题】要闻一\n   【摘要】整理后的内容\n\n## 今日热点总结\n今日要点归纳。"
	r, store := testRunner(t,
		fetchFunc(func(context.Context) ([]model.Item, error) { return fixedItems(), nil }),
		summarizeFunc(func(context.Context, []model.Item) (string, error) { return body, nil }),
	)

	snap, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Status != StatusCompleted || snap.Progress != ProgressDone {
		t.Fatalf("expected completed at %d, got %q at %d with error %q",
			ProgressDone, snap.Status, snap.Progress, snap.Error)
	}
	if snap.Message != "news report generated" {
		t.Errorf("expected completion message, got %q", snap.Message)
	}

	raw, err := os.ReadFile(filepath.Clean(filepath.Join(store.Dir(), report.Filename(testDate))))
	if err != nil {
		t.Fatalf("expected report file to exist: %v", err)
	}
	content := string(raw)
	if !strings.HasPrefix(content, "# 每日新闻（2026年03月01日）\n\n") {
		t.Errorf("expected dated heading, got %q", content[:min(len(content), 60)])
	}
	if !strings.Contains(content, "今日要点归纳。") {
		t.Error("expected AI body in the report")
	}
}

func TestRunnerFallsBackWhenSummarizerFails(t *testing.T) {
	t.Parallel()

	r, store := testRunner(t,
		fetchFunc(func(context.Context) ([]model.Item, error) { return fixedItems(), nil }),
		summarizeFunc(func(context.Context, []model.Item) (string, error) {
			return "", errors.New("api unreachable")
		}),
	)

	snap, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed despite summarizer failure, got %q (%q)", snap.Status, snap.Error)
	}

	raw, err := os.ReadFile(filepath.Clean(filepath.Join(store.Dir(), report.Filename(testDate))))
	if err != nil {
		t.Fatalf("expected report file to exist: %v", err)
	}
	content := string(raw)
	if !strings.Contains(content, "【摘要】该条新闻暂无AI摘要") {
		t.Error("expected fallback per-item notice")
	}
	if !strings.Contains(content, "## 今日热点总结") {
		t.Error("expected fallback highlights section")
	}
	if !strings.Contains(content, "要闻一") || !strings.Contains(content, "要闻二") {
		t.Error("expected item titles in the fallback report")
	}
}

func TestRunnerFallsBackWhenSummaryBlank(t *testing.T) {
	t.Parallel()

	r, store := testRunner(t,
		fetchFunc(func(context.Context) ([]model.Item, error) { return fixedItems(), nil }),
		summarizeFunc(func(context.Context, []model.Item) (string, error) { return "  \n ", nil }),
	)

	snap, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q", snap.Status)
	}

	raw, err := os.ReadFile(filepath.Clean(filepath.Join(store.Dir(), report.Filename(testDate))))
	if err != nil {
		t.Fatalf("expected report file to exist: %v", err)
	}
	if !strings.Contains(string(raw), "## 今日热点总结") {
		t.Error("expected fallback content for a blank summary")
	}
}

func TestRunnerFailsWithoutItems(t *testing.T) {
	t.Parallel()

	r, store := testRunner(t,
		fetchFunc(func(context.Context) ([]model.Item, error) { return nil, nil }),
		summarizeFunc(func(context.Context, []model.Item) (string, error) {
			t.Error("summarizer must not run without items")
			return "", nil
		}),
	)

	snap, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed, got %q", snap.Status)
	}
	if snap.Error != "no content produced" {
		t.Errorf("expected %q, got %q", "no content produced", snap.Error)
	}
	if snap.Message != "generation failed" {
		t.Errorf("expected %q, got %q", "generation failed", snap.Message)
	}

	entries, err := os.ReadDir(store.Dir())
	if err == nil && len(entries) > 0 {
		t.Errorf("expected no report file, found %d entries", len(entries))
	}
}

func TestRunnerFailsWhenFetchErrors(t *testing.T) {
	t.Parallel()

	r, _ := testRunner(t,
		fetchFunc(func(context.Context) ([]model.Item, error) {
			return nil, context.Canceled
		}),
		summarizeFunc(func(context.Context, []model.Item) (string, error) { return "", nil }),
	)

	snap, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed, got %q", snap.Status)
	}
	if !strings.Contains(snap.Error, "failed to fetch news") {
		t.Errorf("expected fetch failure detail, got %q", snap.Error)
	}
}

func TestRunnerFailsWhenSaveFails(t *testing.T) {
	t.Parallel()

	// Occupy the output path with a regular file so MkdirAll fails.
	base := t.TempDir()
	occupied := filepath.Join(base, "occupied")
	if err := os.WriteFile(occupied, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(
		fetchFunc(func(context.Context) ([]model.Item, error) { return fixedItems(), nil }),
		summarizeFunc(func(context.Context, []model.Item) (string, error) { return "body", nil }),
		report.NewStore(occupied),
		WithRunnerLogger(quietLogger()),
		WithClock(func() time.Time { return testDate }),
	)

	snap, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed, got %q", snap.Status)
	}
	if !strings.HasPrefix(snap.Error, "save failed: ") {
		t.Errorf("expected save failure detail, got %q", snap.Error)
	}
}

func TestRunnerRejectsConcurrentTrigger(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	r, _ := testRunner(t,
		fetchFunc(func(context.Context) ([]model.Item, error) {
			close(started)
			<-release
			return fixedItems(), nil
		}),
		summarizeFunc(func(context.Context, []model.Item) (string, error) { return "body", nil }),
	)

	if err := r.Trigger(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-started

	if err := r.Trigger(context.Background()); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	close(release)
	r.Wait()
	if snap := r.Status(); snap.Status != StatusCompleted {
		t.Errorf("expected first run to complete, got %q (%q)", snap.Status, snap.Error)
	}
}

func TestRunnerRecoversFromStagePanic(t *testing.T) {
	t.Parallel()

	var calls int
	r, _ := testRunner(t,
		fetchFunc(func(context.Context) ([]model.Item, error) {
			calls++
			if calls == 1 {
				panic("fetch stage exploded")
			}
			return fixedItems(), nil
		}),
		summarizeFunc(func(context.Context, []model.Item) (string, error) { return "body", nil }),
	)

	snap, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed after panic, got %q", snap.Status)
	}
	if !strings.Contains(snap.Error, "fetch stage exploded") {
		t.Errorf("expected panic detail, got %q", snap.Error)
	}

	snap, err = r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("expected runner to accept a new run after a panic: %v", err)
	}
	if snap.Status != StatusCompleted {
		t.Errorf("expected second run to complete, got %q (%q)", snap.Status, snap.Error)
	}
}
