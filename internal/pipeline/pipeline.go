// Package pipeline turns a frozen corpus and an ordered term list into
// ordered, enriched match decisions.
package pipeline

import (
	"log"
	"time"

	"github.com/jesica63/Googletrend-Tracker/internal/cache"
	"github.com/jesica63/Googletrend-Tracker/internal/config"
	"github.com/jesica63/Googletrend-Tracker/internal/feed"
	"github.com/jesica63/Googletrend-Tracker/internal/match"
	"github.com/jesica63/Googletrend-Tracker/internal/metrics"
	"github.com/jesica63/Googletrend-Tracker/internal/ratelimit"
	"github.com/jesica63/Googletrend-Tracker/internal/trends"
)

// QuestionCount is the fixed number of enrichment strings per decision.
const QuestionCount = 3

// Placeholder marks an enrichment slot with no generated question.
const Placeholder = "N/A"

// QuestionGenerator is the external enrichment collaborator. A failure is
// recovered with placeholders and never affects the match decision.
type QuestionGenerator interface {
	Questions(keyword, title string) ([]string, error)
}

// Decision is one term's match result plus its enrichment strings.
type Decision struct {
	match.Result
	Questions [QuestionCount]string
}

// Pipeline runs selection and enrichment over an immutable corpus, one term
// at a time in input order.
type Pipeline struct {
	selector *match.Selector
	gen      QuestionGenerator
	budget   *ratelimit.Budget
	cache    *cache.Cache
	cacheTTL time.Duration
}

func New(m config.MatcherConfig, gen QuestionGenerator, budget *ratelimit.Budget, c *cache.Cache) *Pipeline {
	return &Pipeline{
		selector: match.NewSelector(m),
		gen:      gen,
		budget:   budget,
		cache:    c,
		cacheTTL: time.Hour,
	}
}

// Process produces exactly one decision per term, preserving term order.
// The corpus is read-only throughout; no state crosses term boundaries.
func (p *Pipeline) Process(corpus feed.Corpus, terms []trends.Term) []Decision {
	startTime := time.Now()
	defer func() {
		metrics.Global.RecordProcessingTime(time.Since(startTime))
		metrics.Global.SetLastRun()
	}()

	decisions := make([]Decision, 0, len(terms))
	for _, term := range terms {
		metrics.Global.IncrementTermsProcessed()

		res := p.selector.Select(term, corpus)
		d := Decision{Result: res, Questions: placeholders()}

		switch res.Source {
		case match.SourceScored:
			metrics.Global.IncrementScoredMatches()
			log.Printf("Scored match (tier %d) for %q -> %s", res.Tier, term.Phrase, res.Article.Title)
		case match.SourceDirect:
			metrics.Global.IncrementDirectMatches()
			log.Printf("Direct-source match for %q -> %s", term.Phrase, res.Article.Title)
		}

		if res.Matched() {
			d.Questions = p.enrich(term.Phrase, res.Article.Title)
		}
		decisions = append(decisions, d)
	}

	return decisions
}

// enrich fetches the three curiosity questions, going through the in-process
// cache and the per-run budget first.
func (p *Pipeline) enrich(keyword, title string) [QuestionCount]string {
	qs := placeholders()
	if p.gen == nil {
		return qs
	}

	var key string
	if p.cache != nil {
		key = p.cache.GenerateKey(keyword, title)
		if cached, ok := p.cache.Get(key); ok {
			if v, ok := cached.([QuestionCount]string); ok {
				return v
			}
		}
	}

	if p.budget != nil && !p.budget.Allow() {
		return qs
	}

	generated, err := p.gen.Questions(keyword, title)
	if err != nil {
		log.Printf("Enrichment error for %q: %v", keyword, err)
		metrics.Global.IncrementEnrichmentFailures()
		return qs
	}

	for i := 0; i < QuestionCount && i < len(generated); i++ {
		if generated[i] != "" {
			qs[i] = generated[i]
		}
	}

	if p.cache != nil {
		p.cache.Set(key, qs, p.cacheTTL)
	}
	return qs
}

// Matched filters decisions that carry an article, preserving order. The
// notification step receives only this subset.
func Matched(decisions []Decision) []Decision {
	var out []Decision
	for _, d := range decisions {
		if d.Matched() {
			out = append(out, d)
		}
	}
	return out
}

func placeholders() [QuestionCount]string {
	return [QuestionCount]string{Placeholder, Placeholder, Placeholder}
}
