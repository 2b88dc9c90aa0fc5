package priority

import (
	"testing"

	"github.com/listinglab/asoscan/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRegistry() *schema.FormulaRegistry {
	return schema.DefaultFormulaRegistry()
}

func TestScoreBrandedPair(t *testing.T) {
	c := &schema.ClassifiedCombo{
		Text:       "duolingo spanish",
		Keywords:   []string{"duolingo", "spanish"},
		WordCount:  2,
		Source:     schema.TitleSource,
		BrandClass: schema.BrandedClass,
		BrandAlias: "duolingo",
	}

	f := Score(c, nil, defaultRegistry())
	assert.Equal(t, 80, f.SemanticRelevance)
	assert.Equal(t, 80, f.LengthScore)
	assert.Equal(t, 100, f.BrandHybridBonus)
	assert.Equal(t, 40, f.NoveltyScore)
	assert.Equal(t, 20, f.NoiseConfidence)
	// 80*.30 + 80*.25 + 100*.20 + 40*.15 + 80*.10
	assert.Equal(t, 78, f.Total)
}

func TestScoreGenericWithRelevance(t *testing.T) {
	rel := 3
	c := &schema.ClassifiedCombo{
		Text:           "learn spanish",
		Keywords:       []string{"learn", "spanish"},
		WordCount:      2,
		Source:         schema.TitleSubtitleSource,
		BrandClass:     schema.GenericClass,
		RelevanceScore: &rel,
	}

	f := Score(c, nil, defaultRegistry())
	assert.Equal(t, 100, f.SemanticRelevance) // 3/3 rescaled
	assert.Equal(t, 60, f.NoveltyScore)       // two words across title+subtitle
	assert.Equal(t, 0, f.BrandHybridBonus)
	// 100*.30 + 80*.25 + 0 + 60*.15 + 80*.10
	assert.Equal(t, 67, f.Total)
}

func TestScoreRelevanceRescaling(t *testing.T) {
	tests := []struct {
		ordinal int
		want    int
	}{
		{0, 0},
		{1, 33},
		{2, 67},
		{3, 100},
	}
	for _, tt := range tests {
		rel := tt.ordinal
		c := &schema.ClassifiedCombo{
			Keywords:       []string{"learn", "spanish"},
			WordCount:      2,
			BrandClass:     schema.GenericClass,
			RelevanceScore: &rel,
		}
		f := Score(c, nil, defaultRegistry())
		assert.Equal(t, tt.want, f.SemanticRelevance, "ordinal %d", tt.ordinal)
	}
}

func TestScoreSemanticFallbacks(t *testing.T) {
	tests := []struct {
		class schema.BrandClass
		want  int
	}{
		{schema.BrandedClass, 80},
		{schema.GenericClass, 60},
		{schema.LowValueClass, 20},
		{schema.UnknownClass, 50},
	}
	for _, tt := range tests {
		c := &schema.ClassifiedCombo{Keywords: []string{"a", "b"}, WordCount: 2, BrandClass: tt.class}
		f := Score(c, nil, defaultRegistry())
		assert.Equal(t, tt.want, f.SemanticRelevance, "class %s", tt.class)
	}
}

func TestScoreAllStampsUnknownBrandClass(t *testing.T) {
	// Combos built outside the generator can carry no classification.
	combos := []schema.ClassifiedCombo{
		{Text: "alpha beta", Keywords: []string{"alpha", "beta"}, WordCount: 2},
	}
	out := ScoreAll(combos, nil, defaultRegistry(), 1)
	require.Len(t, out, 1)
	assert.Equal(t, schema.UnknownClass, out[0].BrandClass)
	assert.Equal(t, 50, out[0].Factors.SemanticRelevance)
}

func TestLengthScoreTable(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{1, 50},
		{2, 80},
		{3, 100},
		{4, 90},
		{5, 70},
		{6, 60},
		{9, 60},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lengthScore(tt.words), "words %d", tt.words)
	}
}

func TestNoveltyScore(t *testing.T) {
	tests := []struct {
		name   string
		words  int
		source schema.ComboSource
		want   int
	}{
		{"triple across title+subtitle", 3, schema.TitleSubtitleSource, 90},
		{"triple single field", 3, schema.TitleSource, 70},
		{"pair across title+subtitle", 2, schema.TitleSubtitleSource, 60},
		{"pair single field", 2, schema.SubtitleSource, 40},
		{"pair title+keyword field", 2, schema.TitleFieldSource, 40},
		{"single word", 1, schema.TitleSource, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &schema.ClassifiedCombo{WordCount: tt.words, Source: tt.source}
			assert.Equal(t, tt.want, noveltyScore(c))
		})
	}
}

func TestNoiseConfidence(t *testing.T) {
	zero := 0
	three := 3

	tests := []struct {
		name string
		c    schema.ClassifiedCombo
		ctx  *schema.AuditContext
		want int
	}{
		{
			name: "low value class",
			c:    schema.ClassifiedCombo{Text: "best free", BrandClass: schema.LowValueClass},
			want: 70,
		},
		{
			name: "zero relevance",
			c:    schema.ClassifiedCombo{Text: "learn spanish", BrandClass: schema.GenericClass, RelevanceScore: &zero},
			want: 60,
		},
		{
			name: "nonzero relevance",
			c:    schema.ClassifiedCombo{Text: "learn spanish", BrandClass: schema.GenericClass, RelevanceScore: &three},
			want: 20,
		},
		{
			name: "default",
			c:    schema.ClassifiedCombo{Text: "learn spanish", BrandClass: schema.GenericClass},
			want: 20,
		},
		{
			name: "context override wins over low value",
			c:    schema.ClassifiedCombo{Text: "best free", BrandClass: schema.LowValueClass},
			ctx:  &schema.AuditContext{NoiseConfidence: map[string]int{"best free": 95}},
			want: 95,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, noiseConfidence(&tt.c, tt.ctx))
		})
	}
}

func TestBrandHybrid(t *testing.T) {
	tests := []struct {
		name string
		c    schema.ClassifiedCombo
		want bool
	}{
		{
			name: "alias plus generic token",
			c:    schema.ClassifiedCombo{Keywords: []string{"duolingo", "spanish"}, BrandClass: schema.BrandedClass, BrandAlias: "duolingo"},
			want: true,
		},
		{
			// Typed branded counts as hybrid even when every token is the
			// alias itself. Kept for score compatibility.
			name: "branded class alone",
			c:    schema.ClassifiedCombo{Keywords: []string{"duolingo"}, BrandClass: schema.BrandedClass, BrandAlias: "duolingo"},
			want: true,
		},
		{
			name: "generic with no alias",
			c:    schema.ClassifiedCombo{Keywords: []string{"learn", "spanish"}, BrandClass: schema.GenericClass},
			want: false,
		},
		{
			name: "alias set without branded class",
			c:    schema.ClassifiedCombo{Keywords: []string{"strava", "running"}, BrandClass: schema.GenericClass, BrandAlias: "strava"},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isBrandHybrid(&tt.c))
		})
	}
}

func TestHighValueCutoffIsStrict(t *testing.T) {
	// A branded two-word single-field combo lands at exactly 70 when the
	// noise override saturates: 24 + 20 + 20 + 6 + 0.
	base := schema.ClassifiedCombo{
		Text:       "duolingo spanish",
		Keywords:   []string{"duolingo", "spanish"},
		WordCount:  2,
		Source:     schema.TitleSource,
		BrandClass: schema.BrandedClass,
		BrandAlias: "duolingo",
	}

	atCutoff := &schema.AuditContext{NoiseConfidence: map[string]int{"duolingo spanish": 100}}
	scored := ScoreAll([]schema.ClassifiedCombo{base}, atCutoff, defaultRegistry(), 1)
	require.Len(t, scored, 1)
	assert.Equal(t, 70, scored[0].TotalScore)
	assert.False(t, scored[0].IsHighValue)

	aboveCutoff := &schema.AuditContext{NoiseConfidence: map[string]int{"duolingo spanish": 90}}
	scored = ScoreAll([]schema.ClassifiedCombo{base}, aboveCutoff, defaultRegistry(), 1)
	assert.Equal(t, 71, scored[0].TotalScore)
	assert.True(t, scored[0].IsHighValue)
}

func TestScoreDeterministic(t *testing.T) {
	c := &schema.ClassifiedCombo{
		Text:       "learn spanish fast",
		Keywords:   []string{"fast", "learn", "spanish"},
		WordCount:  3,
		Source:     schema.TitleSubtitleSource,
		BrandClass: schema.GenericClass,
	}
	reg := defaultRegistry()
	first := Score(c, nil, reg)
	for range 10 {
		assert.Equal(t, first, Score(c, nil, reg))
	}
}

func TestScoreAllPreservesOrder(t *testing.T) {
	combos := []schema.ClassifiedCombo{
		{Text: "a b", Keywords: []string{"a", "b"}, WordCount: 2, BrandClass: schema.GenericClass},
		{Text: "c d", Keywords: []string{"c", "d"}, WordCount: 2, BrandClass: schema.BrandedClass, BrandAlias: "c"},
		{Text: "e f g", Keywords: []string{"e", "f", "g"}, WordCount: 3, BrandClass: schema.LowValueClass},
	}

	for _, workers := range []int{1, 4, 0} {
		scored := ScoreAll(combos, nil, defaultRegistry(), workers)
		require.Len(t, scored, 3)
		for i := range combos {
			assert.Equal(t, combos[i].Text, scored[i].Text, "workers=%d", workers)
		}
	}
}

func TestScoreAllFlags(t *testing.T) {
	combos := []schema.ClassifiedCombo{
		{Text: "duolingo learn spanish", Keywords: []string{"duolingo", "learn", "spanish"}, WordCount: 3,
			Source: schema.TitleSubtitleSource, BrandClass: schema.BrandedClass, BrandAlias: "duolingo"},
		{Text: "learn spanish", Keywords: []string{"learn", "spanish"}, WordCount: 2,
			Source: schema.TitleSource, BrandClass: schema.GenericClass},
	}
	scored := ScoreAll(combos, nil, defaultRegistry(), 2)

	assert.True(t, scored[0].IsLongTail)
	assert.True(t, scored[0].IsHighValue) // 24 + 25 + 20 + 13.5 + 8 = 90.5 -> 91
	assert.Equal(t, 91, scored[0].TotalScore)

	assert.False(t, scored[1].IsLongTail)
	assert.False(t, scored[1].IsHighValue) // 18 + 20 + 0 + 6 + 8 = 52
	assert.Equal(t, 52, scored[1].TotalScore)
}

func TestScoreAllEmpty(t *testing.T) {
	scored := ScoreAll(nil, nil, defaultRegistry(), 4)
	assert.Empty(t, scored)
}

func TestFilters(t *testing.T) {
	combos := []schema.ScoredCombo{
		{ClassifiedCombo: schema.ClassifiedCombo{Text: "a", Exists: true}, TotalScore: 90, IsHighValue: true},
		{ClassifiedCombo: schema.ClassifiedCombo{Text: "b", Exists: false}, TotalScore: 60, IsLongTail: true},
		{ClassifiedCombo: schema.ClassifiedCombo{Text: "c", Exists: false}, TotalScore: 30},
	}

	assert.Len(t, FilterHighValue(combos), 1)
	assert.Len(t, FilterLongTail(combos), 1)
	assert.Len(t, FilterMissing(combos), 2)
	assert.Len(t, FilterMinScore(combos, 60), 2)
	assert.Len(t, FilterMinScore(combos, 91), 0)
}

func BenchmarkScoreAll(b *testing.B) {
	combos := make([]schema.ClassifiedCombo, 200)
	for i := range combos {
		combos[i] = schema.ClassifiedCombo{
			Text:       "learn spanish",
			Keywords:   []string{"learn", "spanish"},
			WordCount:  2,
			Source:     schema.TitleSubtitleSource,
			BrandClass: schema.GenericClass,
		}
	}
	reg := defaultRegistry()
	b.ResetTimer()
	for b.Loop() {
		ScoreAll(combos, nil, reg, 4)
	}
}
