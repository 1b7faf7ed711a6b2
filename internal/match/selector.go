package match

import (
	"strings"

	"github.com/jesica63/Googletrend-Tracker/internal/config"
	"github.com/jesica63/Googletrend-Tracker/internal/feed"
	"github.com/jesica63/Googletrend-Tracker/internal/trends"
)

// Source tells how a match decision was produced.
type Source string

const (
	SourceScored Source = "scored"
	SourceDirect Source = "direct-source"
	SourceNone   Source = "none"
)

// Result is the decision for one term. A nil Article with tier 0 and
// SourceNone is the no-match sentinel.
type Result struct {
	Term    trends.Term
	Article *feed.Article
	Tier    int
	Source  Source
}

// Matched reports whether the decision carries an article.
func (r Result) Matched() bool { return r.Source != SourceNone }

// Selector applies best-match selection, the acceptance threshold and the
// direct-source fallback.
type Selector struct {
	scorer    *Scorer
	threshold int
	aliases   []string
}

func NewSelector(m config.MatcherConfig) *Selector {
	return &Selector{
		scorer:    NewScorer(m.Tiers),
		threshold: m.Threshold,
		aliases:   m.OutletAliases,
	}
}

// Select scans the corpus in stored order and keeps the first article seen at
// the maximum score, so reruns over an unchanged corpus are reproducible.
func (s *Selector) Select(term trends.Term, corpus feed.Corpus) Result {
	q := NewQuery(term)

	var best *feed.Article
	highest := 0
	for i := range corpus {
		if score := s.scorer.Score(q, corpus[i]); score > highest {
			highest = score
			best = &corpus[i]
		}
	}

	if best != nil && highest >= s.threshold {
		return Result{Term: term, Article: best, Tier: highest, Source: SourceScored}
	}

	// Direct-source fallback: the trend source already asserts the target
	// outlet, so trust its own link/title and bypass the threshold. Without a
	// link there is nothing to surface, so the entry stays unmatched.
	if term.SourceURL != "" && s.fromTargetOutlet(term.SourceLabel) {
		title := term.SourceTitle
		if title == "" {
			title = term.Phrase
		}
		return Result{
			Term:    term,
			Article: &feed.Article{Title: title, Link: term.SourceURL},
			Tier:    0,
			Source:  SourceDirect,
		}
	}

	return Result{Term: term, Tier: 0, Source: SourceNone}
}

// fromTargetOutlet checks the trend source's outlet label against the
// configured aliases, case-insensitive substring.
func (s *Selector) fromTargetOutlet(label string) bool {
	l := strings.ToLower(label)
	for _, alias := range s.aliases {
		if alias != "" && strings.Contains(l, strings.ToLower(alias)) {
			return true
		}
	}
	return false
}
