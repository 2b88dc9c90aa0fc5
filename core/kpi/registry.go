// Package kpi defines the scoring KPIs, their weighted families, and
// the engine that aggregates them into family and overall scores.
package kpi

import (
	"strings"

	"github.com/listinglab/asoscan/core/capability"
	"github.com/listinglab/asoscan/core/combo"
	"github.com/listinglab/asoscan/schema"
)

// App Store field limits driving the character-ratio KPIs.
const (
	titleCharLimit    = 30
	subtitleCharLimit = 30
	keywordCharLimit  = 100
)

// Input carries everything a KPI evaluation can read. KPIs are pure
// functions of it.
type Input struct {
	Bundle       *schema.ListingBundle
	BrandAliases map[string]struct{}
	Stopwords    map[string]struct{}
}

// NewInput builds a KPI input from a bundle and the configured alias
// and stopword lists.
func NewInput(bundle *schema.ListingBundle, aliases, stopwords []string) *Input {
	in := &Input{
		Bundle:       bundle,
		BrandAliases: make(map[string]struct{}, len(aliases)),
		Stopwords:    make(map[string]struct{}, len(stopwords)),
	}
	for _, a := range aliases {
		in.BrandAliases[strings.ToLower(a)] = struct{}{}
	}
	for _, s := range stopwords {
		in.Stopwords[strings.ToLower(s)] = struct{}{}
	}
	return in
}

// Def is one scoring KPI. Each KPI owns its normalization rule: Eval
// returns the raw metric and its normalized 0-100 value.
type Def struct {
	ID         string
	Label      string
	BaseWeight float64
	Eval       func(in *Input) (raw, normalized float64)
}

// FamilyDef groups related KPIs under one weighted family. The family
// weight itself lives in the formula registry; member base weights are
// declared here.
type FamilyDef struct {
	ID      string
	Label   string
	Members []Def
}

// OverrideScope selects which audits an override applies to. Empty
// fields are wildcards.
type OverrideScope struct {
	Vertical string
	Market   string
	ClientID string
}

// Matches reports whether the scope applies to the given context.
func (s OverrideScope) Matches(auditCtx *schema.AuditContext) bool {
	if auditCtx == nil {
		return s == OverrideScope{}
	}
	if s.Vertical != "" && !strings.EqualFold(s.Vertical, auditCtx.Vertical) {
		return false
	}
	if s.Market != "" && !strings.EqualFold(s.Market, auditCtx.Market) {
		return false
	}
	if s.ClientID != "" && s.ClientID != auditCtx.ClientID {
		return false
	}
	return true
}

// Override multiplies one KPI's base weight when its scope matches.
type Override struct {
	Scope      OverrideScope
	KpiID      string
	Multiplier float64
}

// DefaultOverrides returns the built-in per-vertical weight overrides.
func DefaultOverrides() []Override {
	return []Override{
		{Scope: OverrideScope{Vertical: "games"}, KpiID: "lead_hook", Multiplier: 1.5},
		{Scope: OverrideScope{Vertical: "games"}, KpiID: "social_proof", Multiplier: 1.25},
		{Scope: OverrideScope{Vertical: "education"}, KpiID: "keyword_coverage", Multiplier: 1.25},
		{Scope: OverrideScope{Vertical: "finance"}, KpiID: "brand_presence_title", Multiplier: 1.5},
	}
}

// Registry returns the full KPI family registry. Family ids must match
// the keys of the formula registry's family weight map.
func Registry() []FamilyDef {
	return []FamilyDef{
		{
			ID:    "clarity_structure",
			Label: "Clarity & Structure",
			Members: []Def{
				{ID: "title_length", Label: "Title length utilization", BaseWeight: 0.30, Eval: evalTitleLength},
				{ID: "subtitle_length", Label: "Subtitle length utilization", BaseWeight: 0.25, Eval: evalSubtitleLength},
				{ID: "title_word_count", Label: "Title word count", BaseWeight: 0.25, Eval: evalTitleWordCount},
				{ID: "sentence_length", Label: "Description sentence length", BaseWeight: 0.20, Eval: evalSentenceLength},
			},
		},
		{
			ID:    "keyword_architecture",
			Label: "Keyword Architecture",
			Members: []Def{
				{ID: "keyword_field_utilization", Label: "Keyword field utilization", BaseWeight: 0.30, Eval: evalKeywordFieldUtilization},
				{ID: "duplicate_token_penalty", Label: "Cross-field duplicate tokens", BaseWeight: 0.30, Eval: evalDuplicateTokens},
				{ID: "keyword_coverage", Label: "Distinct keyword coverage", BaseWeight: 0.25, Eval: evalKeywordCoverage},
				{ID: "separator_hygiene", Label: "Keyword field separator hygiene", BaseWeight: 0.15, Eval: evalSeparatorHygiene},
			},
		},
		{
			ID:    "hook_strength",
			Label: "Hook Strength",
			Members: []Def{
				{ID: "lead_hook", Label: "Description lead hook", BaseWeight: 0.40, Eval: evalLeadHook},
				{ID: "call_to_action", Label: "Call to action presence", BaseWeight: 0.25, Eval: evalCallToAction},
				{ID: "social_proof", Label: "Social proof signals", BaseWeight: 0.35, Eval: evalSocialProof},
			},
		},
		{
			ID:    "brand_generic_balance",
			Label: "Brand vs Generic Balance",
			Members: []Def{
				{ID: "brand_presence_title", Label: "Brand presence in title", BaseWeight: 0.50, Eval: evalBrandPresenceTitle},
				{ID: "generic_ratio", Label: "Generic keyword ratio", BaseWeight: 0.50, Eval: evalGenericRatio},
			},
		},
	}
}

// --- KPI evaluation rules. Each rule documents its own normalization. ---

// evalTitleLength scores the character-count ratio against the 30-char
// title limit.
func evalTitleLength(in *Input) (float64, float64) {
	return charRatio(in.Bundle.Title, titleCharLimit)
}

// evalSubtitleLength scores the character-count ratio against the
// 30-char subtitle limit.
func evalSubtitleLength(in *Input) (float64, float64) {
	return charRatio(in.Bundle.Subtitle, subtitleCharLimit)
}

// charRatio normalizes used characters against a field limit. Text
// over the limit gets truncated at store review time, so overlong
// fields are penalized rather than capped.
func charRatio(text string, limit int) (float64, float64) {
	n := float64(len(strings.TrimSpace(text)))
	if n == 0 {
		return 0, 0
	}
	if n > float64(limit) {
		return n, 40
	}
	return n, schema.ClampScore(n / float64(limit) * 100)
}

// evalTitleWordCount is a step function: 2-4 words reads as a clear
// title, a single word underuses the field, 5+ reads as stuffing.
func evalTitleWordCount(in *Input) (float64, float64) {
	words := len(strings.Fields(in.Bundle.Title))
	raw := float64(words)
	switch {
	case words >= 2 && words <= 4:
		return raw, 100
	case words == 5:
		return raw, 70
	case words == 1:
		return raw, 50
	default:
		return raw, 40
	}
}

// evalSentenceLength scores average words per sentence in the
// description as a readability proxy (step function).
func evalSentenceLength(in *Input) (float64, float64) {
	text := strings.TrimSpace(in.Bundle.Description)
	if text == "" {
		return 0, 0
	}
	sentences := 0
	words := len(strings.Fields(text))
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}
	avg := float64(words) / float64(sentences)
	switch {
	case avg <= 12:
		return avg, 100
	case avg <= 18:
		return avg, 80
	case avg <= 25:
		return avg, 60
	default:
		return avg, 40
	}
}

// evalKeywordFieldUtilization scores used characters against the
// 100-char keyword field.
func evalKeywordFieldUtilization(in *Input) (float64, float64) {
	return charRatio(in.Bundle.KeywordField, keywordCharLimit)
}

// evalDuplicateTokens penalizes tokens repeated across title, subtitle
// and keyword field: duplicated tokens waste indexable characters.
// Each duplicate costs 15 points.
func evalDuplicateTokens(in *Input) (float64, float64) {
	counts := make(map[string]int)
	for _, tok := range combo.TokenizeField(in.Bundle.Title) {
		counts[tok]++
	}
	for _, tok := range combo.TokenizeField(in.Bundle.Subtitle) {
		counts[tok]++
	}
	for _, tok := range combo.TokenizeKeywordField(in.Bundle.KeywordField) {
		counts[tok]++
	}
	dupes := 0
	for _, n := range counts {
		if n > 1 {
			dupes += n - 1
		}
	}
	return float64(dupes), schema.ClampScore(100 - float64(dupes)*15)
}

// evalKeywordCoverage scores distinct non-stopword tokens across all
// indexable fields against a coverage target of 25.
func evalKeywordCoverage(in *Input) (float64, float64) {
	const coverageTarget = 25
	distinct := make(map[string]struct{})
	collect := func(tokens []string) {
		for _, tok := range tokens {
			if _, stop := in.Stopwords[tok]; stop {
				continue
			}
			distinct[tok] = struct{}{}
		}
	}
	collect(combo.TokenizeField(in.Bundle.Title))
	collect(combo.TokenizeField(in.Bundle.Subtitle))
	collect(combo.TokenizeKeywordField(in.Bundle.KeywordField))

	n := float64(len(distinct))
	return n, schema.ClampScore(n / coverageTarget * 100)
}

// evalSeparatorHygiene deducts 20 points per wasted character pattern
// in the keyword field: spaces after commas and trailing separators
// both burn indexable characters.
func evalSeparatorHygiene(in *Input) (float64, float64) {
	field := in.Bundle.KeywordField
	if strings.TrimSpace(field) == "" {
		return 0, 0
	}
	violations := strings.Count(field, ", ")
	trimmed := strings.TrimSpace(field)
	if strings.HasSuffix(trimmed, ",") {
		violations++
	}
	return float64(violations), schema.ClampScore(100 - float64(violations)*20)
}

// evalLeadHook counts feature and benefit detections in the first 200
// characters of the description: the lead is what readers see before
// the fold. 0 hits 30, 1 hit 70, 2+ hits 100.
func evalLeadHook(in *Input) (float64, float64) {
	lead := in.Bundle.Description
	if len(lead) > 200 {
		lead = lead[:200]
	}
	m := capability.Extract(lead, schema.ExtractionEnabled)
	hits := float64(m.Features.Count + m.Benefits.Count)
	switch {
	case hits >= 2:
		return hits, 100
	case hits == 1:
		return hits, 70
	default:
		return hits, 30
	}
}

// evalCallToAction is a threshold step: a CTA in the description
// scores 100, anything else 30. Empty descriptions score 0.
func evalCallToAction(in *Input) (float64, float64) {
	text := strings.ToLower(in.Bundle.Description)
	if strings.TrimSpace(text) == "" {
		return 0, 0
	}
	ctas := []string{"download", "get started", "try it", "join", "start your", "sign up"}
	for _, cta := range ctas {
		if strings.Contains(text, cta) {
			return 1, 100
		}
	}
	return 0, 30
}

// evalSocialProof counts trust-class detections in the description.
// 0 hits 30, 1 hit 70, 2+ hits 100.
func evalSocialProof(in *Input) (float64, float64) {
	m := capability.Extract(in.Bundle.Description, schema.ExtractionEnabled)
	hits := float64(m.Trust.Count)
	switch {
	case hits >= 2:
		return hits, 100
	case hits == 1:
		return hits, 70
	default:
		return hits, 30
	}
}

// evalBrandPresenceTitle rewards a brand alias leading the title (100),
// present anywhere in it (70), or absent (40).
func evalBrandPresenceTitle(in *Input) (float64, float64) {
	tokens := combo.TokenizeField(in.Bundle.Title)
	if len(tokens) == 0 {
		return 0, 0
	}
	for i, tok := range tokens {
		if _, ok := in.BrandAliases[tok]; ok {
			if i == 0 {
				return 1, 100
			}
			return 1, 70
		}
	}
	return 0, 40
}

// evalGenericRatio scores the share of generic (non-brand,
// non-stopword) tokens across title and subtitle. A 0.6-0.9 generic
// share balances brand equity with search reach.
func evalGenericRatio(in *Input) (float64, float64) {
	tokens := append(combo.TokenizeField(in.Bundle.Title), combo.TokenizeField(in.Bundle.Subtitle)...)
	if len(tokens) == 0 {
		return 0, 0
	}
	generic := 0
	for _, tok := range tokens {
		if _, brand := in.BrandAliases[tok]; brand {
			continue
		}
		if _, stop := in.Stopwords[tok]; stop {
			continue
		}
		generic++
	}
	ratio := float64(generic) / float64(len(tokens))
	switch {
	case ratio >= 0.6 && ratio <= 0.9:
		return ratio, 100
	case ratio >= 0.4 && ratio < 0.6:
		return ratio, 70
	default:
		return ratio, 40
	}
}
