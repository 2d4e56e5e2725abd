package summarize

import (
	"fmt"
	"strings"

	"github.com/li-k-z/news-crawler/internal/model"
)

// promptInstructions is the fixed tail of every summarization prompt.
// The wording is part of the provider contract: the per-item layout it
// requests matches what report.Store later scans for when deciding
// whether a stored report carries an AI summary.
const promptInstructions = `请按照以下格式整理：
1. 每条新闻包含：
   - 【标题】- 来源 - 时间
   - 【摘要】（50字以内，提炼核心内容）
   - 【原文链接】<原文链接>

2. 最后添加"今日热点总结"（300字以内），总结当天的主要新闻热点和趋势。

要求：
- 摘要要客观中立，准确反映新闻内容
- 今日热点总结要具有概括性和洞察力
- 使用中文，语言简洁明了
`

// BuildPrompt renders the numbered item listing followed by the fixed
// formatting instructions. Item order is preserved so the generated
// summary numbers entries the same way the fallback renderer does.
func BuildPrompt(items []model.Item) string {
	var b strings.Builder
	b.WriteString("请你作为新闻编辑，对以下新闻进行整理和总结：\n\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d. 【标题】%s - %s - %s\n", i+1, item.Title, item.Source, item.PublishTime)
		fmt.Fprintf(&b, "   【原文链接】%s\n\n", item.Link)
	}
	b.WriteString(promptInstructions)
	return b.String()
}
