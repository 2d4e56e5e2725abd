package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/markdown"

	"github.com/li-k-z/news-crawler/internal/model"
)

// HighlightsHeading is the section heading every report carries,
// whether its content came from the AI or the fallback synthesizer.
// The read side keys on it when extracting a short summary.
const HighlightsHeading = "## 今日热点总结"

// fallbackNotice replaces the AI summary in each item block of a
// fallback report.
const fallbackNotice = "该条新闻暂无AI摘要（API未生效/限额/网络异常），请点击链接查看详情。"

// maxTrendTitles is how many item titles the fallback highlights
// section concatenates.
const maxTrendTitles = 5

// Render prepends the dated report heading to body. It is pure and
// byte-stable: identical inputs always produce identical output.
func Render(body string, date time.Time) string {
	return fmt.Sprintf("# 每日新闻（%s）\n\n%s", date.Format("2006年01月02日"), body)
}

// FallbackSummary synthesizes a report body when no AI summary is
// available. The document keeps the same section shape as an AI
// report: one block per item with a placeholder notice in place of the
// summary, followed by the highlights section built from the first few
// item titles. Callers that parse reports for a highlights section
// always find one.
func FallbackSummary(items []model.Item) string {
	md := markdown.NewMarkdown(io.Discard)

	for i, item := range items {
		md.PlainText(fmt.Sprintf("%d. 【标题】%s - %s - %s",
			i+1, strings.TrimSpace(item.Title), strings.TrimSpace(item.Source), strings.TrimSpace(item.PublishTime)))
		md.PlainText("   【摘要】" + fallbackNotice)
		md.PlainText("   【原文链接】" + strings.TrimSpace(item.Link))
		md.PlainText("")
	}

	titles := make([]string, 0, maxTrendTitles)
	for _, item := range items {
		if len(titles) == maxTrendTitles {
			break
		}
		titles = append(titles, item.Title)
	}

	md.H2("今日热点总结")
	md.PlainText(fmt.Sprintf(
		"受限于外部摘要服务，本日自动总结未生效。根据标题初步归纳热点：%s。建议稍后重试或检查 API 配置与网络代理设置。",
		strings.Join(titles, "；")))

	return md.String()
}
