// Package capability extracts structured capability signals from free
// listing text using a static pattern library.
package capability

import (
	"regexp"
	"strings"

	"github.com/listinglab/asoscan/schema"
)

// matchKind distinguishes literal substring patterns from regex patterns.
type matchKind int

const (
	literalMatch matchKind = iota
	regexMatch
)

// Pattern is one lexical rule: a literal substring or a compiled
// regular expression, tagged with a category and a criticality tier.
// Patterns are loaded once and never mutated at runtime.
type Pattern struct {
	kind        matchKind
	raw         string
	re          *regexp.Regexp
	Category    string
	Criticality schema.Criticality
}

// literal builds a substring containment pattern.
func literal(raw, category string, tier schema.Criticality) Pattern {
	return Pattern{kind: literalMatch, raw: raw, Category: category, Criticality: tier}
}

// rx builds a regular-expression pattern. The expression is compiled at
// package init; a bad expression is a programmer error.
func rx(expr, category string, tier schema.Criticality) Pattern {
	return Pattern{kind: regexMatch, raw: expr, re: regexp.MustCompile(expr), Category: category, Criticality: tier}
}

// Raw returns the raw form of the pattern for reporting.
func (p Pattern) Raw() string {
	return p.raw
}

// match attempts a single match against lower-cased text. Regex
// patterns return their first match only; a pattern firing twice in the
// text is still recorded once.
func (p Pattern) match(text string) (string, bool) {
	switch p.kind {
	case regexMatch:
		m := p.re.FindString(text)
		return m, m != ""
	default:
		if strings.Contains(text, p.raw) {
			return p.raw, true
		}
		return "", false
	}
}

// library holds the static pattern tables per capability class.
var library = map[schema.PatternClass][]Pattern{
	schema.FeatureClass: {
		rx(`\d+\+?\s*(languages|levels|lessons|workouts|recipes|courses|stations)`, "content_breadth", schema.HighTier),
		literal("bite-sized", "learning_format", schema.HighTier),
		literal("lessons", "learning_format", schema.DefaultTier),
		literal("offline mode", "offline", schema.CriticalTier),
		literal("works offline", "offline", schema.CriticalTier),
		literal("dark mode", "appearance", schema.DefaultTier),
		literal("widgets", "home_screen", schema.DefaultTier),
		rx(`sync(s|ed|ing)?\s+(across|between)`, "cross_device", schema.HighTier),
		literal("reminders", "habit_support", schema.DefaultTier),
		literal("streak", "habit_support", schema.DefaultTier),
		literal("personalized", "personalization", schema.HighTier),
		rx(`voice\s+(recognition|control|commands)`, "voice", schema.HighTier),
	},
	schema.BenefitClass: {
		literal("save time", "time_saving", schema.HighTier),
		literal("save money", "cost_saving", schema.HighTier),
		rx(`improves?\s+your`, "self_improvement", schema.DefaultTier),
		literal("boost productivity", "productivity", schema.HighTier),
		literal("stay organized", "organization", schema.DefaultTier),
		literal("sleep better", "wellness", schema.HighTier),
		literal("reduce stress", "wellness", schema.HighTier),
		literal("get fit", "fitness", schema.DefaultTier),
		rx(`reach\s+your\s+goals?`, "motivation", schema.DefaultTier),
	},
	schema.TrustClass: {
		literal("trusted by millions", "social_proof", schema.CriticalTier),
		rx(`\d+\s*(million|m\+)\s*(users|downloads|learners)`, "social_proof", schema.CriticalTier),
		literal("no ads", "ad_free", schema.HighTier),
		literal("ad-free", "ad_free", schema.HighTier),
		literal("editor's choice", "endorsement", schema.CriticalTier),
		literal("award-winning", "endorsement", schema.HighTier),
		rx(`privacy\s*(first|focused|friendly)`, "privacy", schema.HighTier),
		literal("no account required", "privacy", schema.DefaultTier),
		rx(`(bank-level|end-to-end)\s+encrypt`, "security", schema.CriticalTier),
		rx(`[45]\.\d\s*star`, "ratings", schema.HighTier),
	},
}

// Patterns returns the pattern table for one capability class.
func Patterns(class schema.PatternClass) []Pattern {
	return library[class]
}
