// Package priority computes composite 0-100 priority scores for
// classified keyword combos against the formula registry.
package priority

import (
	"math"
	"sync"

	"github.com/listinglab/asoscan/schema"
)

// Factor score tables. These are fixed breakpoints, not formulas; the
// exact values matter for score compatibility across releases.
const (
	relevanceOrdinalMax = 3.0

	semanticBranded  = 80
	semanticGeneric  = 60
	semanticLowValue = 20
	semanticUnknown  = 50

	noiseLowValue      = 70
	noiseZeroRelevance = 60
	noiseDefault       = 20

	highValueCutoff  = 70 // strict: a total of exactly 70 is not high value
	longTailMinWords = 3
)

// Score computes the five factor scores and the weighted total for one
// combo. It is a pure function: identical combo, context and registry
// always yield identical factors.
func Score(c *schema.ClassifiedCombo, auditCtx *schema.AuditContext, reg *schema.FormulaRegistry) schema.ScoreFactors {
	f := schema.ScoreFactors{
		SemanticRelevance: semanticRelevance(c),
		LengthScore:       lengthScore(c.WordCount),
		BrandHybridBonus:  brandHybridBonus(c),
		NoveltyScore:      noveltyScore(c),
		NoiseConfidence:   noiseConfidence(c, auditCtx),
	}

	total := float64(f.SemanticRelevance)*reg.PriorityWeight(schema.FactorSemantic) +
		float64(f.LengthScore)*reg.PriorityWeight(schema.FactorLength) +
		float64(f.BrandHybridBonus)*reg.PriorityWeight(schema.FactorBrandHybrid) +
		float64(f.NoveltyScore)*reg.PriorityWeight(schema.FactorNovelty) +
		float64(100-f.NoiseConfidence)*reg.PriorityWeight(schema.FactorInvNoise)

	f.Total = schema.RoundClamp(total)
	return f
}

// ScoreAll scores a batch of combos. Combos are independent, so the
// batch fans out across workers; each goroutine writes to a unique
// index, and output order mirrors input order for determinism.
func ScoreAll(combos []schema.ClassifiedCombo, auditCtx *schema.AuditContext, reg *schema.FormulaRegistry, workers int) []schema.ScoredCombo {
	out := make([]schema.ScoredCombo, len(combos))
	if len(combos) == 0 {
		return out
	}
	if workers < 1 {
		workers = 1
	}

	idxCh := make(chan int, len(combos))
	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for i := range idxCh {
				out[i] = decorate(combos[i], auditCtx, reg)
			}
		})
	}
	for i := range combos {
		idxCh <- i
	}
	close(idxCh)
	wg.Wait()

	return out
}

// decorate extends a classified combo into a scored one without
// mutating the input. Combos built outside the generator may carry no
// brand classification; those are stamped unknown so the class is
// explicit in the output.
func decorate(c schema.ClassifiedCombo, auditCtx *schema.AuditContext, reg *schema.FormulaRegistry) schema.ScoredCombo {
	if c.BrandClass == "" {
		c.BrandClass = schema.UnknownClass
	}
	factors := Score(&c, auditCtx, reg)
	return schema.ScoredCombo{
		ClassifiedCombo: c,
		Factors:         factors,
		TotalScore:      factors.Total,
		IsHighValue:     factors.Total > highValueCutoff,
		IsLongTail:      c.WordCount >= longTailMinWords,
	}
}

// semanticRelevance rescales a prior ordinal relevance score (0-3) to
// 0-100, or falls back to a fixed value by brand classification.
func semanticRelevance(c *schema.ClassifiedCombo) int {
	if c.RelevanceScore != nil {
		return schema.RoundClamp(math.Round(float64(*c.RelevanceScore) / relevanceOrdinalMax * 100))
	}
	switch c.BrandClass {
	case schema.BrandedClass:
		return semanticBranded
	case schema.GenericClass:
		return semanticGeneric
	case schema.LowValueClass:
		return semanticLowValue
	default: // UnknownClass and anything unrecognized
		return semanticUnknown
	}
}

// lengthScore is a fixed lookup by word count. Three words is the
// declared optimum; the table is deliberately non-monotonic.
func lengthScore(wordCount int) int {
	switch wordCount {
	case 1:
		return 50
	case 2:
		return 80
	case 3:
		return 100
	case 4:
		return 90
	case 5:
		return 70
	default:
		return 60
	}
}

// brandHybridBonus pays out for combos mixing a recognized brand alias
// with a generic term. A combo typed branded outright also counts as a
// hybrid: this mirrors observed upstream behavior and is intentionally
// not corrected here.
func brandHybridBonus(c *schema.ClassifiedCombo) int {
	if isBrandHybrid(c) {
		return 100
	}
	return 0
}

func isBrandHybrid(c *schema.ClassifiedCombo) bool {
	if c.BrandClass == schema.BrandedClass {
		return true
	}
	if c.BrandAlias == "" {
		return false
	}
	for _, tok := range c.Keywords {
		if tok != c.BrandAlias {
			return true
		}
	}
	return false
}

// noveltyScore rewards longer combos spanning title and subtitle.
func noveltyScore(c *schema.ClassifiedCombo) int {
	crossField := c.Source == schema.TitleSubtitleSource
	switch {
	case c.WordCount >= 3:
		if crossField {
			return 90
		}
		return 70
	case c.WordCount == 2:
		if crossField {
			return 60
		}
		return 40
	default:
		return 20
	}
}

// noiseConfidence estimates how likely the combo is noise. The caller
// may override per combo via the audit context.
func noiseConfidence(c *schema.ClassifiedCombo, auditCtx *schema.AuditContext) int {
	if v, ok := auditCtx.NoiseFor(c.CanonicalKey()); ok {
		return schema.RoundClamp(float64(v))
	}
	if c.BrandClass == schema.LowValueClass {
		return noiseLowValue
	}
	if c.RelevanceScore != nil && *c.RelevanceScore == 0 {
		return noiseZeroRelevance
	}
	return noiseDefault
}
