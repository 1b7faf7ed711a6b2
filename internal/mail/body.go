package mail

import (
	"fmt"
	"html"
	"strings"

	"github.com/jesica63/Googletrend-Tracker/internal/pipeline"
)

// BuildBody renders the matched decisions as the notification HTML. Every
// feed- or trend-derived string is escaped; feeds are untrusted input and
// must not be able to inject markup into the mail.
func BuildBody(matched []pipeline.Decision, sheetURL string) string {
	var b strings.Builder

	b.WriteString("<html><body>")
	b.WriteString("<h1>Google Trends 與 ETtoday 新聞比對成功通知</h1>")
	b.WriteString("<p>在本次執行中，以下熱門關鍵字成功在 ETtoday 新聞中找到對應內容，並已生成讀者可能好奇的問題：</p>")

	b.WriteString("<table border='1' style='border-collapse: collapse; width: 100%;'>")
	b.WriteString("<tr>" +
		"<th style='padding: 8px; text-align: left; width: 20%;'>關鍵字</th>" +
		"<th style='padding: 8px; text-align: left; width: 40%;'>相關新聞標題</th>" +
		"<th style='padding: 8px; text-align: left; width: 40%;'>讀者好奇的問題</th>" +
		"</tr>")

	for _, d := range matched {
		b.WriteString("<tr>")
		fmt.Fprintf(&b, "<td style='padding: 8px; vertical-align: top;'>%s</td>",
			html.EscapeString(d.Term.Phrase))
		fmt.Fprintf(&b, "<td style='padding: 8px; vertical-align: top;'><a href='%s'>%s</a></td>",
			html.EscapeString(d.Article.Link), html.EscapeString(d.Article.Title))
		fmt.Fprintf(&b, "<td style='padding: 8px; vertical-align: top;'>%s</td>", questionList(d.Questions))
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")

	b.WriteString("<hr><p><a href=\"" + html.EscapeString(sheetURL) + "\">點此查看完整的 Google Sheet 歷史日誌 (含所有欄位)</a></p>")
	b.WriteString("<p style='color: #888; font-size: 12px;'>這是一封自動化通知郵件，請勿回覆。</p>")
	b.WriteString("</body></html>")

	return b.String()
}

func questionList(questions [pipeline.QuestionCount]string) string {
	var b strings.Builder
	b.WriteString("<ul style='margin: 0; padding-left: 20px;'>")
	for _, q := range questions {
		if q == pipeline.Placeholder {
			continue
		}
		b.WriteString("<li>" + html.EscapeString(q) + "</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}
