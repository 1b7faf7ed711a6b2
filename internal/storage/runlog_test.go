package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jesica63/Googletrend-Tracker/internal/feed"
	"github.com/jesica63/Googletrend-Tracker/internal/match"
	"github.com/jesica63/Googletrend-Tracker/internal/pipeline"
	"github.com/jesica63/Googletrend-Tracker/internal/trends"
)

func testDecisions() []pipeline.Decision {
	return []pipeline.Decision{
		{
			Result: match.Result{
				Term:    trends.Term{Phrase: "颱風凱米", Traffic: "500+", TrendLink: "https://trends/1"},
				Article: &feed.Article{Title: "凱米登陸", Link: "https://news/1"},
				Tier:    120,
				Source:  match.SourceScored,
			},
		},
		{
			Result: match.Result{
				Term:   trends.Term{Phrase: "冷門話題", Traffic: "N/A"},
				Source: match.SourceNone,
			},
		},
	}
}

func TestRunLogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run_log.json")
	runAt := time.Now()

	rl := NewRunLog(path, 24)
	if err := rl.Load(); err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	rl.Append(testDecisions(), runAt)
	if err := rl.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	again := NewRunLog(path, 24)
	if err := again.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Len() != 2 {
		t.Fatalf("reloaded %d records, want 2", again.Len())
	}

	if again.records[0].Keyword != "颱風凱米" {
		t.Errorf("keyword = %q", again.records[0].Keyword)
	}
	if again.records[0].MatchKind != string(match.SourceScored) {
		t.Errorf("match kind = %q", again.records[0].MatchKind)
	}
	if again.records[0].MatchedLink != "https://news/1" {
		t.Errorf("matched link = %q", again.records[0].MatchedLink)
	}
	if again.records[1].MatchKind != string(match.SourceNone) {
		t.Errorf("unmatched kind = %q", again.records[1].MatchKind)
	}
	if again.records[1].MatchedTitle != "" || again.records[1].MatchedLink != "" {
		t.Errorf("unmatched record carries article fields: %+v", again.records[1])
	}
}

func TestRunLogAppendsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run_log.json")

	first := NewRunLog(path, 24)
	first.Append(testDecisions(), time.Now().Add(-time.Hour))
	if err := first.Save(); err != nil {
		t.Fatal(err)
	}

	second := NewRunLog(path, 24)
	if err := second.Load(); err != nil {
		t.Fatal(err)
	}
	second.Append(testDecisions(), time.Now())
	if err := second.Save(); err != nil {
		t.Fatal(err)
	}

	final := NewRunLog(path, 24)
	if err := final.Load(); err != nil {
		t.Fatal(err)
	}
	if final.Len() != 4 {
		t.Errorf("got %d records after two runs, want 4", final.Len())
	}
}

func TestRunLogPrunesExpired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run_log.json")

	rl := NewRunLog(path, 24)
	rl.Append(testDecisions(), time.Now().Add(-48*time.Hour))
	rl.Append(testDecisions(), time.Now())
	if err := rl.Save(); err != nil {
		t.Fatal(err)
	}
	if rl.Len() != 2 {
		t.Errorf("Save kept %d records, want the 2 recent ones", rl.Len())
	}

	again := NewRunLog(path, 24)
	if err := again.Load(); err != nil {
		t.Fatal(err)
	}
	if again.Len() != 2 {
		t.Errorf("reloaded %d records, want 2", again.Len())
	}
}

func TestRunLogLoadDropsExpired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run_log.json")

	writer := NewRunLog(path, 1000)
	writer.Append(testDecisions(), time.Now().Add(-48*time.Hour))
	if err := writer.Save(); err != nil {
		t.Fatal(err)
	}

	reader := NewRunLog(path, 24)
	if err := reader.Load(); err != nil {
		t.Fatal(err)
	}
	if reader.Len() != 0 {
		t.Errorf("Load kept %d expired records, want 0", reader.Len())
	}
}

func TestRunLogEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run_log.json")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	rl := NewRunLog(path, 24)
	if err := rl.Load(); err != nil {
		t.Fatalf("Load on empty file: %v", err)
	}
	if rl.Len() != 0 {
		t.Errorf("empty file produced %d records", rl.Len())
	}
}

func TestRunLogCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run_log.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	rl := NewRunLog(path, 24)
	if err := rl.Load(); err == nil {
		t.Fatal("Load accepted a corrupt file")
	}
}
