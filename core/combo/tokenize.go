// Package combo tokenizes listing fields and enumerates classified
// keyword combinations across them.
package combo

import (
	"sort"
	"strings"
)

// normalizeToken lower-cases a token and strips punctuation from both
// edges. Inner characters (hyphens, apostrophes) are preserved.
func normalizeToken(tok string) string {
	return strings.Trim(strings.ToLower(tok), ".,;:!?\"'()[]{}|/\\-+&")
}

// TokenizeField splits free text (title, subtitle) into normalized
// tokens, deduplicated in order of first appearance.
func TokenizeField(text string) []string {
	return dedupe(strings.Fields(text))
}

// TokenizeKeywordField splits a comma-separated keyword field into
// normalized tokens. Multi-word entries contribute one token per word.
func TokenizeKeywordField(text string) []string {
	var raw []string
	for entry := range strings.SplitSeq(text, ",") {
		raw = append(raw, strings.Fields(entry)...)
	}
	return dedupe(raw)
}

func dedupe(raw []string) []string {
	tokens := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		tok := normalizeToken(r)
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// CanonicalKey returns the dedup key for a set of keywords: the
// lower-cased tokens in sorted order joined by single spaces. "spanish
// learn" and "learn spanish" collapse to the same key.
func CanonicalKey(keywords []string) string {
	sorted := make([]string, len(keywords))
	for i, k := range keywords {
		sorted[i] = strings.ToLower(k)
	}
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

// CanonicalizeText normalizes listing text for existence checks:
// lower-cased with all whitespace runs collapsed to single spaces.
func CanonicalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
