package report

import (
	"strings"
	"testing"
	"time"

	"github.com/li-k-z/news-crawler/internal/model"
)

func TestRender(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)

	t.Run("prepends dated heading", func(t *testing.T) {
		t.Parallel()

		got := Render("正文内容", date)
		want := "# 每日新闻（2025年01月02日）\n\n正文内容"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("byte-stable for identical inputs", func(t *testing.T) {
		t.Parallel()

		first := Render("同样的内容", date)
		second := Render("同样的内容", date)
		if first != second {
			t.Errorf("expected identical output, got %q and %q", first, second)
		}
	})

	t.Run("zero-pads month and day", func(t *testing.T) {
		t.Parallel()

		got := Render("x", time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC))
		if !strings.HasPrefix(got, "# 每日新闻（2025年09月03日）") {
			t.Errorf("expected zero-padded date in heading, got %q", got)
		}
	})
}

func TestFallbackSummary(t *testing.T) {
	t.Parallel()

	items := []model.Item{
		{Title: "标题一", Link: "https://example.com/1", PublishTime: "10:00", Source: "来源A"},
		{Title: "标题二", Link: "https://example.com/2", PublishTime: "11:00", Source: "来源B"},
	}

	t.Run("keeps the report section shape", func(t *testing.T) {
		t.Parallel()

		got := FallbackSummary(items)

		for _, want := range []string{
			"1. 【标题】标题一 - 来源A - 10:00",
			"2. 【标题】标题二 - 来源B - 11:00",
			"【摘要】",
			"【原文链接】https://example.com/1",
			"【原文链接】https://example.com/2",
			HighlightsHeading,
		} {
			if !strings.Contains(got, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, got)
			}
		}
	})

	t.Run("highlights concatenate titles with the separator", func(t *testing.T) {
		t.Parallel()

		got := FallbackSummary(items)
		if !strings.Contains(got, "标题一；标题二") {
			t.Errorf("expected highlights to join titles, got:\n%s", got)
		}
	})

	t.Run("highlights use at most five titles", func(t *testing.T) {
		t.Parallel()

		var many []model.Item
		for _, title := range []string{"一", "二", "三", "四", "五", "六", "七"} {
			many = append(many, model.Item{Title: title, Link: "https://example.com/" + title})
		}

		got := FallbackSummary(many)
		if !strings.Contains(got, "一；二；三；四；五。") {
			t.Errorf("expected first five titles in highlights, got:\n%s", got)
		}
		if strings.Contains(got, "五；六") {
			t.Errorf("expected sixth title to be excluded from highlights, got:\n%s", got)
		}
	})

	t.Run("summary extraction always finds a highlights section", func(t *testing.T) {
		t.Parallel()

		body := Render(FallbackSummary(items), time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
		if got := ExtractSummary(body); got == "" {
			t.Errorf("expected a non-empty extracted summary, got none from:\n%s", body)
		}
	})
}
