// Package trends fetches the Google Trends RSS feed and maps its ht:
// namespace extensions onto trending terms.
package trends

import (
	"log"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

// Term is one trending search entry. SourceTitle/SourceLabel/SourceURL come
// from the trend source's related-news metadata and may be empty; display
// sentinels are applied at the output boundary, not here.
type Term struct {
	Phrase      string // the trending search phrase itself
	Traffic     string // approximate search volume, e.g. "500+"
	Published   string // publication timestamp as reported by the feed
	SourceTitle string // related news headline asserted by the trend source
	SourceLabel string // outlet name asserted by the trend source
	SourceURL   string // related news link asserted by the trend source
	TrendLink   string // canonical trend detail link
}

// Fetcher downloads the trending-term feed.
type Fetcher struct {
	parser *gofeed.Parser
	url    string
}

func NewFetcher(url string) *Fetcher {
	return &Fetcher{parser: gofeed.NewParser(), url: url}
}

// Fetch returns the trending terms in feed order. Entries without a phrase
// are skipped silently.
func (f *Fetcher) Fetch() ([]Term, error) {
	parsed, err := f.parser.ParseURL(f.url)
	if err != nil {
		return nil, err
	}

	terms := TermsFromItems(parsed.Items)
	log.Printf("Loaded %d trending terms from %s", len(terms), f.url)
	return terms, nil
}

// TermsFromItems converts parsed feed items into terms, preserving order.
func TermsFromItems(items []*gofeed.Item) []Term {
	var terms []Term
	for _, item := range items {
		if item == nil || item.Title == "" {
			continue
		}
		terms = append(terms, termFromItem(item))
	}
	return terms
}

func termFromItem(item *gofeed.Item) Term {
	t := Term{
		Phrase:    item.Title,
		Traffic:   "N/A",
		Published: "N/A",
		TrendLink: item.Link,
	}
	if item.Published != "" {
		t.Published = item.Published
	}

	// Google Trends publishes its extras under the ht: namespace:
	// ht:approx_traffic plus an ht:news_item block with title/url/source.
	ht, ok := item.Extensions["ht"]
	if !ok {
		return t
	}
	if v := extValue(ht["approx_traffic"]); v != "" {
		t.Traffic = v
	}
	if news := ht["news_item"]; len(news) > 0 {
		children := news[0].Children
		t.SourceTitle = extValue(children["news_item_title"])
		t.SourceURL = extValue(children["news_item_url"])
		t.SourceLabel = extValue(children["news_item_source"])
	}
	return t
}

func extValue(exts []ext.Extension) string {
	if len(exts) == 0 {
		return ""
	}
	return strings.TrimSpace(exts[0].Value)
}
