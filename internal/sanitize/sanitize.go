// Package sanitize turns markup-bearing feed text into plain text.
package sanitize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Clean removes markup tags, decodes entities and collapses whitespace runs to
// single spaces. Feed summaries often carry <img>/<a> fragments and entities
// like &nbsp; that must not leak into matching or output.
func Clean(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		// net/html accepts arbitrary input, so this is effectively unreachable;
		// fall back to whitespace normalization only.
		return collapse(raw)
	}

	return collapse(doc.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
