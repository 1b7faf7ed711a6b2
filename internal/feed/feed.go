// Package feed ingests the categorized news feeds into the run corpus.
package feed

import (
	"log"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/jesica63/Googletrend-Tracker/internal/config"
	"github.com/jesica63/Googletrend-Tracker/internal/metrics"
	"github.com/jesica63/Googletrend-Tracker/internal/sanitize"
)

// Article is one ingested news item. Immutable once added to the corpus.
type Article struct {
	Title   string
	Summary string
	Link    string
}

// Corpus is the frozen, encounter-ordered article snapshot of one run.
// Order matters: the selector breaks score ties by first encounter.
type Corpus []Article

// Ingester fetches the configured category feeds and assembles the corpus.
type Ingester struct {
	parser    *gofeed.Parser
	sources   []config.FeedSource
	blocklist []string
}

func NewIngester(sources []config.FeedSource, blocklist []string) *Ingester {
	return &Ingester{
		parser:    gofeed.NewParser(),
		sources:   sources,
		blocklist: blocklist,
	}
}

// FetchAll downloads and parses every configured feed in order. A failing
// category is logged and skipped; the remaining categories still contribute.
func (ing *Ingester) FetchAll() Corpus {
	var corpus Corpus
	successCount := 0

	for _, src := range ing.sources {
		parsed, err := ing.parser.ParseURL(src.URL)
		if err != nil {
			log.Printf("Error parsing feed [%s] %s: %v", src.Category, src.URL, err)
			metrics.Global.IncrementFeedErrors()
			continue
		}
		before := len(corpus)
		corpus = ing.appendItems(corpus, parsed.Items)
		successCount++
		log.Printf("Loaded %d articles from [%s]", len(corpus)-before, src.Category)
	}

	log.Printf("Processed news feeds: %d/%d ok, %d articles accepted",
		successCount, len(ing.sources), len(corpus))
	return corpus
}

// appendItems applies the per-entry rules: entries missing a title or link are
// skipped silently, summaries are sanitized, blocklisted titles are dropped
// before they can ever be matched.
func (ing *Ingester) appendItems(corpus Corpus, items []*gofeed.Item) Corpus {
	for _, item := range items {
		if item == nil || item.Title == "" || item.Link == "" {
			continue
		}
		if ing.blocked(item.Title) {
			log.Printf("Blocklist drop: %q", item.Title)
			metrics.Global.IncrementBlocklistDrops()
			continue
		}
		raw := item.Description
		if raw == "" {
			raw = item.Content
		}
		corpus = append(corpus, Article{
			Title:   item.Title,
			Summary: sanitize.Clean(raw),
			Link:    item.Link,
		})
		metrics.Global.IncrementArticlesAccepted()
	}
	return corpus
}

// blocked reports whether any blocklist term occurs in the raw title.
// Case-sensitive exact substring, per the configured policy.
func (ing *Ingester) blocked(title string) bool {
	for _, kw := range ing.blocklist {
		if kw != "" && strings.Contains(title, kw) {
			return true
		}
	}
	return false
}
