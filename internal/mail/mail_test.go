package mail

import (
	"strings"
	"testing"

	"github.com/jesica63/Googletrend-Tracker/internal/feed"
	"github.com/jesica63/Googletrend-Tracker/internal/match"
	"github.com/jesica63/Googletrend-Tracker/internal/pipeline"
	"github.com/jesica63/Googletrend-Tracker/internal/retry"
	"github.com/jesica63/Googletrend-Tracker/internal/trends"
)

func matchedDecision(phrase, title, link string, questions [pipeline.QuestionCount]string) pipeline.Decision {
	return pipeline.Decision{
		Result: match.Result{
			Term:    trends.Term{Phrase: phrase},
			Article: &feed.Article{Title: title, Link: link},
			Tier:    120,
			Source:  match.SourceScored,
		},
		Questions: questions,
	}
}

func TestBuildBodyRendersEachMatch(t *testing.T) {
	matched := []pipeline.Decision{
		matchedDecision("颱風凱米", "凱米登陸 全台警戒", "https://news/1",
			[pipeline.QuestionCount]string{"何時登陸？", "哪裡停班？", "風雨多強？"}),
		matchedDecision("股市", "台股大漲", "https://news/2",
			[pipeline.QuestionCount]string{"為什麼漲？", "N/A", "N/A"}),
	}

	body := BuildBody(matched, "https://docs.google.com/spreadsheets/d/abc")

	for _, want := range []string{
		"颱風凱米", "凱米登陸 全台警戒", "https://news/1",
		"股市", "台股大漲", "https://news/2",
		"何時登陸？", "為什麼漲？",
		"https://docs.google.com/spreadsheets/d/abc",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestBuildBodyEscapesUntrustedText(t *testing.T) {
	matched := []pipeline.Decision{
		matchedDecision("<script>alert(1)</script>", "標題 <b>加粗</b>", "https://news/1?a=1&b=2",
			[pipeline.QuestionCount]string{"問題<img src=x>?", "N/A", "N/A"}),
	}

	body := BuildBody(matched, "https://sheet")

	if strings.Contains(body, "<script>") {
		t.Error("term phrase not escaped")
	}
	if strings.Contains(body, "<b>加粗</b>") {
		t.Error("article title not escaped")
	}
	if strings.Contains(body, "<img src=x>") {
		t.Error("question not escaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("escaped phrase missing from body")
	}
	if !strings.Contains(body, "https://news/1?a=1&amp;b=2") {
		t.Error("link not entity-escaped")
	}
}

func TestBuildBodySkipsPlaceholderQuestions(t *testing.T) {
	matched := []pipeline.Decision{
		matchedDecision("話題", "報導", "https://news/1",
			[pipeline.QuestionCount]string{"唯一的問題？", "N/A", "N/A"}),
	}

	body := BuildBody(matched, "https://sheet")
	if strings.Contains(body, "<li>N/A</li>") {
		t.Error("placeholder questions must not render as list items")
	}
	if got := strings.Count(body, "<li>"); got != 1 {
		t.Errorf("got %d list items, want 1", got)
	}
}

func TestBuildBodyNoMatches(t *testing.T) {
	body := BuildBody(nil, "https://sheet")
	if !strings.Contains(body, "<table") || !strings.Contains(body, "</html>") {
		t.Error("empty body should still be a complete document")
	}
	if strings.Contains(body, "<td") {
		t.Error("no rows expected without matches")
	}
}

func TestSplitRecipients(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single", "a@example.com", []string{"a@example.com"}},
		{"comma separated with spaces", " a@example.com , b@example.com ", []string{"a@example.com", "b@example.com"}},
		{"trailing comma", "a@example.com,", []string{"a@example.com"}},
		{"empty", "", nil},
		{"commas only", ", ,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitRecipients(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitRecipients(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("recipient %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMessageHeaders(t *testing.T) {
	n := NewNotifier("smtp.gmail.com", 465, "bot@example.com", "pw",
		"a@example.com,b@example.com", retry.Config{MaxAttempts: 1})

	msg := n.message("測試主旨", "<html><body>hi</body></html>")

	if !strings.HasPrefix(msg, "From: bot@example.com\r\n") {
		t.Error("From header missing")
	}
	if !strings.Contains(msg, "To: a@example.com, b@example.com\r\n") {
		t.Error("To header missing or wrong")
	}
	if strings.Contains(msg, "Subject: 測試主旨") {
		t.Error("CJK subject must be RFC 2047 encoded")
	}
	if !strings.Contains(msg, "Subject: =?UTF-8?q?") && !strings.Contains(msg, "Subject: =?utf-8?q?") {
		t.Error("encoded subject header missing")
	}
	if !strings.Contains(msg, "Content-Type: text/html; charset=\"UTF-8\"\r\n") {
		t.Error("content type header missing")
	}
	header, body, ok := strings.Cut(msg, "\r\n\r\n")
	if !ok {
		t.Fatal("header/body separator missing")
	}
	if body != "<html><body>hi</body></html>" {
		t.Errorf("body = %q", body)
	}
	if strings.Contains(header, "<html>") {
		t.Error("body leaked into the header block")
	}
}
