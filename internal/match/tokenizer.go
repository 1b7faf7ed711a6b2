// Package match decides, per trending term, which corpus article (if any) is
// about that term: token-set construction, tiered scoring, best-match
// selection and the acceptance gate.
package match

import "strings"

// TokenSet is the whitespace-token set of a phrase, duplicates collapsed.
type TokenSet map[string]struct{}

// Tokenize splits a phrase on whitespace and discards empty tokens.
func Tokenize(phrase string) TokenSet {
	set := TokenSet{}
	for _, tok := range strings.Fields(phrase) {
		set[tok] = struct{}{}
	}
	return set
}

// Union returns a new set with the tokens of both sets.
func (s TokenSet) Union(other TokenSet) TokenSet {
	out := make(TokenSet, len(s)+len(other))
	for tok := range s {
		out[tok] = struct{}{}
	}
	for tok := range other {
		out[tok] = struct{}{}
	}
	return out
}

// allIn reports whether every token occurs somewhere in text as a substring.
// Case-sensitive and script-agnostic: tokens need not be delimiter-separated
// in the text, so CJK titles behave the same as spaced scripts.
func (s TokenSet) allIn(text string) bool {
	for tok := range s {
		if !strings.Contains(text, tok) {
			return false
		}
	}
	return true
}
