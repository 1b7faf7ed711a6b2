// Package storage keeps a local JSON mirror of the history worksheet so a run
// stays auditable without spreadsheet access.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jesica63/Googletrend-Tracker/internal/match"
	"github.com/jesica63/Googletrend-Tracker/internal/pipeline"
)

// Record is one persisted decision.
type Record struct {
	RunAt        time.Time `json:"run_at"`
	Keyword      string    `json:"keyword"`
	Traffic      string    `json:"traffic"`
	MatchKind    string    `json:"match_kind"`
	Tier         int       `json:"tier"`
	MatchedTitle string    `json:"matched_title,omitempty"`
	MatchedLink  string    `json:"matched_link,omitempty"`
	TrendLink    string    `json:"trend_link,omitempty"`
}

// RunLog is an append-only JSON file of run records, pruned by TTL on save.
type RunLog struct {
	filePath string
	ttlHours int
	mu       sync.Mutex
	records  []Record
}

func NewRunLog(filePath string, ttlHours int) *RunLog {
	return &RunLog{filePath: filePath, ttlHours: ttlHours}
}

// Load reads the existing log. A missing file starts an empty log.
func (rl *RunLog) Load() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	data, err := os.ReadFile(rl.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read run log: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to unmarshal run log: %w", err)
	}

	cutoff := rl.cutoff()
	for _, r := range records {
		if r.RunAt.After(cutoff) {
			rl.records = append(rl.records, r)
		}
	}
	return nil
}

// Append adds this run's decisions.
func (rl *RunLog) Append(decisions []pipeline.Decision, runAt time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for _, d := range decisions {
		rec := Record{
			RunAt:     runAt,
			Keyword:   d.Term.Phrase,
			Traffic:   d.Term.Traffic,
			MatchKind: string(d.Source),
			Tier:      d.Tier,
			TrendLink: d.Term.TrendLink,
		}
		if d.Source != match.SourceNone {
			rec.MatchedTitle = d.Article.Title
			rec.MatchedLink = d.Article.Link
		}
		rl.records = append(rl.records, rec)
	}
}

// Save prunes expired records and writes the log back to disk.
func (rl *RunLog) Save() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.cutoff()
	kept := make([]Record, 0, len(rl.records))
	for _, r := range rl.records {
		if r.RunAt.After(cutoff) {
			kept = append(kept, r)
		}
	}
	rl.records = kept

	data, err := json.MarshalIndent(kept, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run log: %w", err)
	}
	if err := os.WriteFile(rl.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write run log: %w", err)
	}
	return nil
}

// Len reports how many records are currently held in memory.
func (rl *RunLog) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.records)
}

func (rl *RunLog) cutoff() time.Time {
	return time.Now().Add(-time.Duration(rl.ttlHours) * time.Hour)
}
