package schema

// ScoreBand is one inclusive score range with a label and a color tag.
// Bands within a table are ordered descending by Min and must not overlap.
type ScoreBand struct {
	Min   float64 `json:"min" mapstructure:"min"`
	Max   float64 `json:"max" mapstructure:"max"`
	Label string  `json:"label" mapstructure:"label"`
	Color string  `json:"color" mapstructure:"color"`
}

// Contains reports whether score falls inside the band (inclusive).
func (b ScoreBand) Contains(score float64) bool {
	return score >= b.Min && score <= b.Max
}

// PriorityThresholds holds the two cut points for the high/medium/low
// priority classifier.
type PriorityThresholds struct {
	High   float64 `json:"high" mapstructure:"high"`
	Medium float64 `json:"medium" mapstructure:"medium"`
}

// OutputLimits bounds how many items scoring surfaces to callers.
type OutputLimits struct {
	MaxCombosPerAudit int `json:"max_combos_per_audit" mapstructure:"max_combos_per_audit"`
	MaxOpportunities  int `json:"max_opportunities" mapstructure:"max_opportunities"`
}

// ChangelogEntry records one registry revision.
type ChangelogEntry struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Notes   string `json:"notes"`
}

// FormulaRegistry is the single versioned source of truth for all
// weights, thresholds, bands and multipliers used by the scoring
// modules. It is constructed once at startup, validated eagerly, and
// treated as read-only thereafter. All scoring functions are pure with
// respect to it, so concurrent readers need no locking.
type FormulaRegistry struct {
	Version string `json:"version"`

	// Weights holds one weight map per scoring module. Every map must
	// sum to 1.0 within a 0.001 tolerance.
	Weights map[WeightGroup]map[string]float64 `json:"weights"`

	// Bands holds the score-interpretation tables. Each table is sorted
	// descending by Min with non-overlapping ranges.
	Bands map[BandTable][]ScoreBand `json:"bands"`

	// Thresholds drives the coarse high/medium/low priority classifier.
	Thresholds PriorityThresholds `json:"thresholds"`

	// GapMultiplier scales percentage gaps in opportunity mapping.
	GapMultiplier float64 `json:"gap_multiplier"`

	Limits    OutputLimits     `json:"limits"`
	Changelog []ChangelogEntry `json:"changelog"`
}

// PriorityWeight returns the weight for one priority factor key.
func (r *FormulaRegistry) PriorityWeight(key FactorKey) float64 {
	return r.Weights[ComboPriorityWeights][string(key)]
}

// FamilyWeight returns the weight for one KPI family.
func (r *FormulaRegistry) FamilyWeight(familyID string) float64 {
	return r.Weights[KpiFamilyWeights][familyID]
}

// DefaultFormulaRegistry returns the built-in registry definition.
// Callers must run formula.Validate on the result (or any override of
// it) before use; a failing validation is a fatal configuration error.
func DefaultFormulaRegistry() *FormulaRegistry {
	return &FormulaRegistry{
		Version: "2.3.0",
		Weights: map[WeightGroup]map[string]float64{
			ComboPriorityWeights: {
				string(FactorSemantic):    0.30,
				string(FactorLength):      0.25,
				string(FactorBrandHybrid): 0.20,
				string(FactorNovelty):     0.15,
				string(FactorInvNoise):    0.10,
			},
			KpiFamilyWeights: {
				"clarity_structure":     0.30,
				"keyword_architecture":  0.30,
				"hook_strength":         0.20,
				"brand_generic_balance": 0.20,
			},
			StabilityWeights: {
				"impressions":  0.25,
				"downloads":    0.35,
				"cvr":          0.30,
				"direct_share": 0.10,
			},
			OpportunityWeights: {
				"search_gap":     0.40,
				"rank_ceiling":   0.35,
				"category_drift": 0.25,
			},
		},
		Bands: map[BandTable][]ScoreBand{
			OverallQualityBands: {
				{Min: 85, Max: 100, Label: "Excellent", Color: "green"},
				{Min: 70, Max: 84.999, Label: "Good", Color: "cyan"},
				{Min: 50, Max: 69.999, Label: "Fair", Color: "yellow"},
				{Min: 0, Max: 49.999, Label: "Poor", Color: "red"},
			},
			ComboPriorityBands: {
				{Min: 71, Max: 100, Label: "High value", Color: "green"},
				{Min: 40, Max: 70.999, Label: "Worth testing", Color: "yellow"},
				{Min: 0, Max: 39.999, Label: "Low value", Color: "red"},
			},
			ElementScoreBands: {
				{Min: 80, Max: 100, Label: "Strong", Color: "green"},
				{Min: 60, Max: 79.999, Label: "Adequate", Color: "cyan"},
				{Min: 40, Max: 59.999, Label: "Weak", Color: "yellow"},
				{Min: 0, Max: 39.999, Label: "Critical", Color: "red"},
			},
		},
		Thresholds:    PriorityThresholds{High: 70, Medium: 40},
		GapMultiplier: 1.5,
		Limits: OutputLimits{
			MaxCombosPerAudit: 500,
			MaxOpportunities:  50,
		},
		Changelog: []ChangelogEntry{
			{Version: "2.3.0", Date: "2026-06-18", Notes: "Split opportunity weights out of stability group."},
			{Version: "2.2.0", Date: "2026-03-02", Notes: "Raised downloads stability weight, lowered direct share."},
			{Version: "2.1.0", Date: "2025-11-20", Notes: "Added element score bands for per-field grading."},
			{Version: "2.0.0", Date: "2025-09-05", Notes: "Initial registry consolidation across scoring modules."},
		},
	}
}

// DefaultBrandAliases lists brand tokens recognized by the combo
// classifier. Callers can extend the list via configuration.
var DefaultBrandAliases = []string{
	"duolingo", "babbel", "spotify", "netflix", "calm", "headspace",
	"strava", "notion", "slack", "discord", "canva", "shazam",
}

// DefaultStopwords lists tokens the noise filter treats as low value.
var DefaultStopwords = []string{
	"the", "a", "an", "and", "or", "of", "for", "to", "in", "on",
	"with", "your", "you", "app", "best", "free", "new", "top",
}
