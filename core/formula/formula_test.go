package formula

import (
	"testing"

	"github.com/listinglab/asoscan/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaultRegistry(t *testing.T) {
	result := Validate(schema.DefaultFormulaRegistry())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.NoError(t, result.Error())
}

func TestValidateWeightSum(t *testing.T) {
	reg := schema.DefaultFormulaRegistry()
	// 0.25+0.35+0.30+0.09 = 0.99, outside the 0.001 tolerance
	reg.Weights[schema.StabilityWeights]["direct_share"] = 0.09

	result := Validate(reg)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "weights for stability must sum to 1.0, got 0.990")
	assert.Error(t, result.Error())
}

func TestValidateWeightSumWithinTolerance(t *testing.T) {
	reg := schema.DefaultFormulaRegistry()
	// 0.9995 is inside the 0.001 tolerance
	reg.Weights[schema.StabilityWeights]["direct_share"] = 0.0995

	result := Validate(reg)
	assert.True(t, result.Valid)
}

func TestValidateNegativeWeight(t *testing.T) {
	reg := schema.DefaultFormulaRegistry()
	reg.Weights[schema.StabilityWeights]["direct_share"] = -0.10
	reg.Weights[schema.StabilityWeights]["downloads"] = 0.55

	result := Validate(reg)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "weight stability.direct_share is negative (-0.100)")
}

func TestValidateBandOverlap(t *testing.T) {
	reg := schema.DefaultFormulaRegistry()
	reg.Bands[schema.ComboPriorityBands] = []schema.ScoreBand{
		{Min: 70, Max: 100, Label: "High value", Color: "green"},
		{Min: 40, Max: 75, Label: "Worth testing", Color: "yellow"},
		{Min: 0, Max: 39.999, Label: "Low value", Color: "red"},
	}

	result := Validate(reg)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors,
		`band table "combo_priority": band "Worth testing" (max 75.0) overlaps "High value" (min 70.0)`)
}

func TestValidateBandOrdering(t *testing.T) {
	reg := schema.DefaultFormulaRegistry()
	reg.Bands[schema.ElementScoreBands] = []schema.ScoreBand{
		{Min: 0, Max: 39.999, Label: "Critical", Color: "red"},
		{Min: 80, Max: 100, Label: "Strong", Color: "green"},
	}

	result := Validate(reg)
	require.False(t, result.Valid)
	// Ascending order violates the descending-sort invariant, and the
	// second band overlaps the first's range check.
	assert.NotEmpty(t, result.Errors)
}

func TestValidateBandMinAboveMax(t *testing.T) {
	reg := schema.DefaultFormulaRegistry()
	reg.Bands[schema.OverallQualityBands] = []schema.ScoreBand{
		{Min: 90, Max: 80, Label: "Broken", Color: "green"},
	}

	result := Validate(reg)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors,
		`band table "overall_quality": band "Broken" has min 90.0 above max 80.0`)
}

func TestValidateThresholdOrdering(t *testing.T) {
	reg := schema.DefaultFormulaRegistry()
	reg.Thresholds = schema.PriorityThresholds{High: 40, Medium: 70}

	result := Validate(reg)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors,
		"priority thresholds must satisfy high > medium, got high=40.0 medium=70.0")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	reg := schema.DefaultFormulaRegistry()
	reg.Version = ""
	reg.Weights[schema.StabilityWeights]["direct_share"] = 0.09
	reg.Thresholds = schema.PriorityThresholds{High: 40, Medium: 70}
	reg.Limits.MaxOpportunities = 0

	result := Validate(reg)
	require.False(t, result.Valid)
	assert.GreaterOrEqual(t, len(result.Errors), 4)
}

func TestLoadAppliesOverrides(t *testing.T) {
	semantic := 0.40
	length := 0.15
	overrides := &RegistryOverrides{
		PriorityRaw: PriorityWeightsRaw{
			Semantic: &semantic,
			Length:   &length,
		},
	}

	reg, err := Load(overrides)
	require.NoError(t, err)
	assert.InDelta(t, 0.40, reg.PriorityWeight(schema.FactorSemantic), 1e-9)
	assert.InDelta(t, 0.15, reg.PriorityWeight(schema.FactorLength), 1e-9)
	// Untouched weights keep their defaults.
	assert.InDelta(t, 0.20, reg.PriorityWeight(schema.FactorBrandHybrid), 1e-9)
}

func TestLoadRejectsInvalidOverrides(t *testing.T) {
	semantic := 0.50 // pushes the sum to 1.20
	overrides := &RegistryOverrides{
		PriorityRaw: PriorityWeightsRaw{Semantic: &semantic},
	}

	_, err := Load(overrides)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must sum to 1.0")
}

func TestLoadNilOverrides(t *testing.T) {
	reg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, schema.DefaultFormulaRegistry().Version, reg.Version)
}

func TestInterpretation(t *testing.T) {
	bands := schema.DefaultFormulaRegistry().Bands[schema.OverallQualityBands]

	tests := []struct {
		name  string
		score float64
		label string
		color string
	}{
		{"excellent lower bound", 85, "Excellent", "green"},
		{"top of scale", 100, "Excellent", "green"},
		{"good upper bound", 84.999, "Good", "cyan"},
		{"fair", 55, "Fair", "yellow"},
		{"poor at zero", 0, "Poor", "red"},
		{"gap falls back to lowest band", 84.9995, "Poor", "red"},
		{"below scale falls back to lowest band", -5, "Poor", "red"},
		{"above scale falls back to lowest band", 120, "Poor", "red"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, color := Interpretation(tt.score, bands)
			assert.Equal(t, tt.label, label)
			assert.Equal(t, tt.color, color)
		})
	}
}

func TestInterpretationEmptyBands(t *testing.T) {
	label, color := Interpretation(50, nil)
	assert.Empty(t, label)
	assert.Empty(t, color)
}

func TestPriority(t *testing.T) {
	thresholds := schema.PriorityThresholds{High: 70, Medium: 40}

	tests := []struct {
		score float64
		want  schema.PriorityLevel
	}{
		{90, schema.HighPriority},
		{70, schema.HighPriority},
		{69.999, schema.MediumPriority},
		{40, schema.MediumPriority},
		{39.999, schema.LowPriority},
		{0, schema.LowPriority},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Priority(tt.score, thresholds), "score %v", tt.score)
	}
}

func TestLoadUnvalidated(t *testing.T) {
	semantic := 0.50 // invalid sum, but LoadUnvalidated does not care
	overrides := &RegistryOverrides{
		PriorityRaw: PriorityWeightsRaw{Semantic: &semantic},
	}

	reg, err := LoadUnvalidated(overrides, "")
	require.NoError(t, err)
	assert.InDelta(t, 0.50, reg.PriorityWeight(schema.FactorSemantic), 1e-9)
	assert.False(t, Validate(reg).Valid)
}
