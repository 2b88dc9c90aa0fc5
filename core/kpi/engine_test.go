package kpi

import (
	"strings"
	"testing"

	"github.com/listinglab/asoscan/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInput(bundle *schema.ListingBundle) *Input {
	return NewInput(bundle, schema.DefaultBrandAliases, schema.DefaultStopwords)
}

func TestComputeKpiOverrideMultiplier(t *testing.T) {
	def := Def{
		ID:         "lead_hook",
		Label:      "Description lead hook",
		BaseWeight: 0.40,
		Eval:       func(*Input) (float64, float64) { return 1, 70 },
	}
	in := testInput(&schema.ListingBundle{})

	// Games vertical matches the built-in 1.5x override.
	games := &schema.AuditContext{Vertical: "games"}
	result := ComputeKpi(def, "hook_strength", in, games, DefaultOverrides())
	assert.InDelta(t, 0.60, result.EffectiveWeight, 1e-9)
	assert.InDelta(t, 0.40, result.BaseWeight, 1e-9)

	// Vertical matching is case-insensitive.
	result = ComputeKpi(def, "hook_strength", in, &schema.AuditContext{Vertical: "Games"}, DefaultOverrides())
	assert.InDelta(t, 0.60, result.EffectiveWeight, 1e-9)

	// A different vertical keeps the base weight.
	result = ComputeKpi(def, "hook_strength", in, &schema.AuditContext{Vertical: "finance"}, DefaultOverrides())
	assert.InDelta(t, 0.40, result.EffectiveWeight, 1e-9)

	// No context keeps the base weight.
	result = ComputeKpi(def, "hook_strength", in, nil, DefaultOverrides())
	assert.InDelta(t, 0.40, result.EffectiveWeight, 1e-9)
}

func TestComputeFamilyWeightedAverage(t *testing.T) {
	family := FamilyDef{ID: "f", Label: "F"}
	results := []schema.KpiResult{
		{Normalized: 100, EffectiveWeight: 0.75},
		{Normalized: 0, EffectiveWeight: 0.25},
	}

	out := ComputeFamily(family, 0.30, results)
	// Weighted, not arithmetic: 100*.75 / 1.0 = 75, not 50.
	assert.InDelta(t, 75, out.Score, 1e-9)
	assert.InDelta(t, 0.30, out.Weight, 1e-9)
}

func TestComputeFamilyEqualWeightFallback(t *testing.T) {
	family := FamilyDef{ID: "f", Label: "F"}
	results := []schema.KpiResult{
		{Normalized: 100, EffectiveWeight: 0},
		{Normalized: 50, EffectiveWeight: 0},
	}

	out := ComputeFamily(family, 0.30, results)
	assert.InDelta(t, 75, out.Score, 1e-9)
}

func TestComputeFamilyEmpty(t *testing.T) {
	out := ComputeFamily(FamilyDef{ID: "f"}, 0.30, nil)
	assert.Zero(t, out.Score)
}

func TestComputeOverall(t *testing.T) {
	families := []schema.KpiFamilyResult{
		{Score: 100, Weight: 0.30},
		{Score: 50, Weight: 0.30},
		{Score: 0, Weight: 0.20},
		{Score: 80, Weight: 0.20},
	}
	// (30 + 15 + 0 + 16) / 1.0
	assert.InDelta(t, 61, ComputeOverall(families), 1e-9)

	assert.Zero(t, ComputeOverall(nil))
	assert.Zero(t, ComputeOverall([]schema.KpiFamilyResult{{Score: 90, Weight: 0}}))
}

func TestComputeAll(t *testing.T) {
	bundle := &schema.ListingBundle{
		Title:        "Duolingo Learn Languages",
		Subtitle:     "Spanish French and more",
		KeywordField: "language,lessons,vocabulary,travel",
		Description:  "Learn 40+ languages with bite-sized lessons. Trusted by millions. Download now and start your streak.",
	}
	result := ComputeAll(bundle, nil, schema.DefaultFormulaRegistry(), schema.DefaultBrandAliases, schema.DefaultStopwords)

	require.Len(t, result.Families, 4)
	familyIDs := make([]string, len(result.Families))
	for i, f := range result.Families {
		familyIDs[i] = f.ID
		assert.Positive(t, f.Weight, "family %s", f.ID)
		assert.GreaterOrEqual(t, f.Score, 0.0)
		assert.LessOrEqual(t, f.Score, 100.0)
	}
	assert.Equal(t, []string{"clarity_structure", "keyword_architecture", "hook_strength", "brand_generic_balance"}, familyIDs)

	assert.Greater(t, result.Overall, 0.0)
	assert.LessOrEqual(t, result.Overall, 100.0)
}

func TestEvalTitleLength(t *testing.T) {
	in := testInput(&schema.ListingBundle{Title: "Duolingo"})
	raw, norm := evalTitleLength(in)
	assert.InDelta(t, 8, raw, 1e-9)
	assert.InDelta(t, 8.0/30*100, norm, 1e-9)

	// Overlong titles are penalized, not capped.
	in = testInput(&schema.ListingBundle{Title: strings.Repeat("x", 31)})
	raw, norm = evalTitleLength(in)
	assert.InDelta(t, 31, raw, 1e-9)
	assert.InDelta(t, 40, norm, 1e-9)

	in = testInput(&schema.ListingBundle{})
	_, norm = evalTitleLength(in)
	assert.Zero(t, norm)
}

func TestEvalTitleWordCount(t *testing.T) {
	tests := []struct {
		title string
		want  float64
	}{
		{"Duolingo", 50},
		{"Duolingo Learn Languages", 100},
		{"One Two Three Four", 100},
		{"One Two Three Four Five", 70},
		{"One Two Three Four Five Six", 40},
	}
	for _, tt := range tests {
		in := testInput(&schema.ListingBundle{Title: tt.title})
		_, norm := evalTitleWordCount(in)
		assert.InDelta(t, tt.want, norm, 1e-9, "title %q", tt.title)
	}
}

func TestEvalDuplicateTokens(t *testing.T) {
	// "spanish" appears in all three fields: two duplicates.
	in := testInput(&schema.ListingBundle{
		Title:        "Learn Spanish",
		Subtitle:     "Spanish Lessons",
		KeywordField: "spanish,travel",
	})
	raw, norm := evalDuplicateTokens(in)
	assert.InDelta(t, 2, raw, 1e-9)
	assert.InDelta(t, 70, norm, 1e-9)

	in = testInput(&schema.ListingBundle{Title: "Learn Spanish", Subtitle: "French Lessons"})
	raw, norm = evalDuplicateTokens(in)
	assert.Zero(t, raw)
	assert.InDelta(t, 100, norm, 1e-9)
}

func TestEvalSeparatorHygiene(t *testing.T) {
	tests := []struct {
		name  string
		field string
		raw   float64
		norm  float64
	}{
		{"clean", "language,lessons,travel", 0, 100},
		{"spaces after commas", "language, lessons, travel", 2, 60},
		{"trailing comma", "language,lessons,", 1, 80},
		{"empty field scores zero", "", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testInput(&schema.ListingBundle{KeywordField: tt.field})
			raw, norm := evalSeparatorHygiene(in)
			assert.InDelta(t, tt.raw, raw, 1e-9)
			assert.InDelta(t, tt.norm, norm, 1e-9)
		})
	}
}

func TestEvalLeadHook(t *testing.T) {
	// Two feature/benefit hits inside the first 200 characters.
	in := testInput(&schema.ListingBundle{
		Description: "Save time with bite-sized lessons every day.",
	})
	raw, norm := evalLeadHook(in)
	assert.GreaterOrEqual(t, raw, 2.0)
	assert.InDelta(t, 100, norm, 1e-9)

	// A hit beyond the 200-character lead does not count.
	in = testInput(&schema.ListingBundle{
		Description: strings.Repeat("filler text here. ", 12) + "save time",
	})
	_, norm = evalLeadHook(in)
	assert.InDelta(t, 30, norm, 1e-9)
}

func TestEvalCallToAction(t *testing.T) {
	in := testInput(&schema.ListingBundle{Description: "Download now and learn."})
	_, norm := evalCallToAction(in)
	assert.InDelta(t, 100, norm, 1e-9)

	in = testInput(&schema.ListingBundle{Description: "A plain description."})
	_, norm = evalCallToAction(in)
	assert.InDelta(t, 30, norm, 1e-9)

	in = testInput(&schema.ListingBundle{})
	_, norm = evalCallToAction(in)
	assert.Zero(t, norm)
}

func TestEvalBrandPresenceTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  float64
	}{
		{"brand leads", "Duolingo Learn Languages", 100},
		{"brand present", "Learn Languages Duolingo", 70},
		{"no brand", "Learn Languages Fast", 40},
		{"empty title", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testInput(&schema.ListingBundle{Title: tt.title})
			_, norm := evalBrandPresenceTitle(in)
			assert.InDelta(t, tt.want, norm, 1e-9)
		})
	}
}

func TestEvalGenericRatio(t *testing.T) {
	// duolingo (brand) + 3 generic tokens out of 4: ratio 0.75.
	in := testInput(&schema.ListingBundle{Title: "Duolingo Learn Languages Fast"})
	raw, norm := evalGenericRatio(in)
	assert.InDelta(t, 0.75, raw, 1e-9)
	assert.InDelta(t, 100, norm, 1e-9)

	// All brand: ratio 0 lands in the low band.
	in = testInput(&schema.ListingBundle{Title: "Duolingo"})
	_, norm = evalGenericRatio(in)
	assert.InDelta(t, 40, norm, 1e-9)
}

func TestEvalKeywordCoverage(t *testing.T) {
	in := testInput(&schema.ListingBundle{
		Title:        "Learn Spanish",
		Subtitle:     "French Lessons",
		KeywordField: "travel,vocabulary",
	})
	raw, norm := evalKeywordCoverage(in)
	assert.InDelta(t, 6, raw, 1e-9)
	assert.InDelta(t, 24, norm, 1e-9)
}

func TestOverrideScopeMatches(t *testing.T) {
	tests := []struct {
		name  string
		scope OverrideScope
		ctx   *schema.AuditContext
		want  bool
	}{
		{"empty scope matches anything", OverrideScope{}, &schema.AuditContext{Vertical: "games"}, true},
		{"empty scope matches nil context", OverrideScope{}, nil, true},
		{"scoped does not match nil context", OverrideScope{Vertical: "games"}, nil, false},
		{"vertical and market both required", OverrideScope{Vertical: "games", Market: "us"},
			&schema.AuditContext{Vertical: "games", Market: "de"}, false},
		{"full match", OverrideScope{Vertical: "games", Market: "us"},
			&schema.AuditContext{Vertical: "GAMES", Market: "US"}, true},
		{"client id is exact", OverrideScope{ClientID: "acme"},
			&schema.AuditContext{ClientID: "ACME"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scope.Matches(tt.ctx))
		})
	}
}
