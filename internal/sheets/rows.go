package sheets

import (
	"fmt"

	"github.com/jesica63/Googletrend-Tracker/internal/pipeline"
)

// Header is the fixed ten-column row schema shared by both worksheets.
var Header = []string{
	"關鍵字 (Title)",
	"預估搜尋量 (Traffic)",
	"發布時間 (Published)",
	"相關新聞標題 (Summary)",
	"相關新聞連結",
	"ETtoday相關新聞網址",
	"趨勢連結 (Link)",
	"好奇1",
	"好奇2",
	"好奇3",
}

// Display sentinels for optional trend-source fields.
const (
	noLink        = "無"
	noSourceLabel = "無來源"
	noSourceTitle = "無直接相關新聞報導"
)

// Row renders one decision into the ten-column schema, substituting the
// defined sentinels for missing optional fields.
func Row(d pipeline.Decision) []interface{} {
	term := d.Term

	sourceLabel := term.SourceLabel
	if sourceLabel == "" {
		sourceLabel = noSourceLabel
	}
	sourceTitle := term.SourceTitle
	if sourceTitle == "" {
		sourceTitle = noSourceTitle
	}
	sourceLink := term.SourceURL
	if sourceLink == "" {
		sourceLink = noLink
	}

	matchedLink := noLink
	if d.Matched() {
		matchedLink = d.Article.Link
	}

	return []interface{}{
		term.Phrase,
		term.Traffic,
		term.Published,
		fmt.Sprintf("[%s] %s", sourceLabel, sourceTitle),
		sourceLink,
		matchedLink,
		term.TrendLink,
		d.Questions[0],
		d.Questions[1],
		d.Questions[2],
	}
}

func headerRow() []interface{} {
	row := make([]interface{}, len(Header))
	for i, h := range Header {
		row[i] = h
	}
	return row
}
