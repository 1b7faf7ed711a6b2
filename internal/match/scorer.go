package match

import (
	"strings"

	"github.com/jesica63/Googletrend-Tracker/internal/config"
	"github.com/jesica63/Googletrend-Tracker/internal/feed"
	"github.com/jesica63/Googletrend-Tracker/internal/trends"
)

// Query is the precomputed matching view of one trending term.
type Query struct {
	Phrase        string
	PrimaryTokens TokenSet
	UnionTokens   TokenSet
}

// NewQuery builds the token sets for a term: the trending phrase itself plus
// the related-news headline as lower-priority context widening recall.
func NewQuery(term trends.Term) Query {
	primary := Tokenize(term.Phrase)
	secondary := Tokenize(term.SourceTitle)
	return Query{
		Phrase:        term.Phrase,
		PrimaryTokens: primary,
		UnionTokens:   primary.Union(secondary),
	}
}

// TierRule is one relevance tier. Rules are evaluated in order and the first
// satisfied condition determines the score; conditions are not cumulative.
type TierRule struct {
	Name  string
	Score int
	Match func(q Query, a feed.Article) bool
}

// Rules builds the ordered tier table from the configured scores. The order
// itself is fixed policy: a verbatim phrase hit in the title is the least
// ambiguous signal and outranks every token-set rule, and summary evidence
// scores below title evidence of the same shape.
func Rules(t config.TierScores) []TierRule {
	return []TierRule{
		{"phrase-in-title", t.PhraseInTitle, func(q Query, a feed.Article) bool {
			return strings.Contains(a.Title, q.Phrase)
		}},
		{"tokens-in-title", t.TokensInTitle, func(q Query, a feed.Article) bool {
			return q.PrimaryTokens.allIn(a.Title)
		}},
		{"union-in-title", t.UnionInTitle, func(q Query, a feed.Article) bool {
			return q.UnionTokens.allIn(a.Title)
		}},
		{"phrase-in-summary", t.PhraseInSummary, func(q Query, a feed.Article) bool {
			return strings.Contains(a.Summary, q.Phrase)
		}},
		{"tokens-in-text", t.TokensInText, func(q Query, a feed.Article) bool {
			return q.PrimaryTokens.allIn(a.Title + a.Summary)
		}},
	}
}

// Scorer evaluates one article against one term's token sets. Pure and
// deterministic; all containment checks are case-sensitive substring tests
// with no normalization beyond what the sanitizer already applied.
type Scorer struct {
	rules []TierRule
}

func NewScorer(t config.TierScores) *Scorer {
	return &Scorer{rules: Rules(t)}
}

// Score returns the score of the first satisfied tier, or 0.
func (s *Scorer) Score(q Query, a feed.Article) int {
	for _, r := range s.rules {
		if r.Match(q, a) {
			return r.Score
		}
	}
	return 0
}
