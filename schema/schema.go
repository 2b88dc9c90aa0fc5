// Package schema has configs, models and registry defaults for all parts of asoscan.
package schema

import "time"

// ListingBundle holds the raw listing text supplied by the caller.
// The engine never fetches listing data itself.
type ListingBundle struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	KeywordField string `json:"keyword_field"` // Comma-separated keyword field
	Description  string `json:"description"`
}

// AuditContext carries optional caller-supplied context: scope tags for
// KPI weight overrides and a prior ordinal relevance table per token.
type AuditContext struct {
	Vertical string `json:"vertical,omitempty"`
	Market   string `json:"market,omitempty"`
	ClientID string `json:"client_id,omitempty"`

	// Relevance maps a canonical combo key to an ordinal 0-3 relevance
	// score from an external relevance table, when one is available.
	Relevance map[string]int `json:"relevance,omitempty"`

	// NoiseConfidence overrides the per-combo noise confidence defaults
	// when set (keyed by canonical combo key).
	NoiseConfidence map[string]int `json:"noise_confidence,omitempty"`
}

// RelevanceFor returns the ordinal relevance score for a canonical key
// and whether one was present.
func (c *AuditContext) RelevanceFor(key string) (int, bool) {
	if c == nil || c.Relevance == nil {
		return 0, false
	}
	v, ok := c.Relevance[key]
	return v, ok
}

// NoiseFor returns the caller-supplied noise confidence override for a
// canonical key and whether one was present.
func (c *AuditContext) NoiseFor(key string) (int, bool) {
	if c == nil || c.NoiseConfidence == nil {
		return 0, false
	}
	v, ok := c.NoiseConfidence[key]
	return v, ok
}

// DetectedCapability represents one pattern match in description text.
type DetectedCapability struct {
	Matched     string      `json:"matched"`     // Matched text
	Category    string      `json:"category"`    // Category label from the pattern
	Pattern     string      `json:"pattern"`     // Originating pattern (raw form)
	Criticality Criticality `json:"criticality"` // Criticality tier of the pattern
	Confidence  float64     `json:"confidence"`  // Derived from criticality
}

// CapabilityBucket holds the detections for one capability class.
type CapabilityBucket struct {
	Items      []DetectedCapability `json:"items"`
	Count      int                  `json:"count"`
	Categories []string             `json:"categories"` // Sorted, deduplicated
}

// AppCapabilityMap holds per-class capability buckets for one extraction call.
type AppCapabilityMap struct {
	Features CapabilityBucket `json:"features"`
	Benefits CapabilityBucket `json:"benefits"`
	Trust    CapabilityBucket `json:"trust"`
}

// Bucket returns the bucket for the given pattern class.
func (m *AppCapabilityMap) Bucket(class PatternClass) *CapabilityBucket {
	switch class {
	case BenefitClass:
		return &m.Benefits
	case TrustClass:
		return &m.Trust
	default:
		return &m.Features
	}
}

// TotalCount returns the number of detections across all classes.
func (m *AppCapabilityMap) TotalCount() int {
	return m.Features.Count + m.Benefits.Count + m.Trust.Count
}

// ClassifiedCombo represents a candidate keyword combination drawn from
// one or more listing fields.
type ClassifiedCombo struct {
	Text       string      `json:"text"`     // Space-joined constituent keywords
	Keywords   []string    `json:"keywords"` // Constituent keywords, canonical order
	WordCount  int         `json:"word_count"`
	Source     ComboSource `json:"source"`
	Exists     bool        `json:"exists"` // Already present in the current listing
	BrandClass BrandClass  `json:"brand_class"`
	BrandAlias string      `json:"brand_alias,omitempty"` // Matched brand alias, if any

	// RelevanceScore is a prior ordinal relevance score (0-3) from an
	// external relevance table. Nil when no prior score exists.
	RelevanceScore *int `json:"relevance_score,omitempty"`
}

// CanonicalKey returns the dedup key for the combo: its space-joined,
// case-normalized keywords in sorted order.
func (c *ClassifiedCombo) CanonicalKey() string {
	return c.Text
}

// ScoreFactors holds the five named factor scores behind a combo's
// priority score. All values are in [0, 100].
type ScoreFactors struct {
	SemanticRelevance int `json:"semantic_relevance"`
	LengthScore       int `json:"length_score"`
	BrandHybridBonus  int `json:"brand_hybrid_bonus"`
	NoveltyScore      int `json:"novelty_score"`
	NoiseConfidence   int `json:"noise_confidence"` // Inverted into the total as 100 - value
	Total             int `json:"total"`            // Weighted composite, clamped to [0, 100]
}

// ScoredCombo extends a ClassifiedCombo with its priority score factors
// and derived flags. The underlying combo is never mutated in place.
type ScoredCombo struct {
	ClassifiedCombo
	Factors     ScoreFactors `json:"factors"`
	TotalScore  int          `json:"total_score"`
	IsHighValue bool         `json:"is_high_value"` // TotalScore > 70, strict
	IsLongTail  bool         `json:"is_long_tail"`  // WordCount >= 3
}

// KpiResult holds one computed KPI value.
type KpiResult struct {
	ID              string  `json:"id"`
	Label           string  `json:"label"`
	Family          string  `json:"family"`
	Raw             float64 `json:"raw"`
	Normalized      float64 `json:"normalized"` // 0-100
	BaseWeight      float64 `json:"base_weight"`
	EffectiveWeight float64 `json:"effective_weight"` // BaseWeight * override multiplier
}

// KpiFamilyResult aggregates member KPI results into one family score.
type KpiFamilyResult struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Weight float64     `json:"weight"`
	Score  float64     `json:"score"` // Weight-normalized average of member scores
	Kpis   []KpiResult `json:"kpis"`
}

// KpiEngineResult aggregates all families into one overall score.
type KpiEngineResult struct {
	Overall  float64           `json:"overall"` // Weighted average of family scores
	Families []KpiFamilyResult `json:"families"`
}

// StageResult records the terminal state of one pipeline stage.
type StageResult struct {
	Stage Stage      `json:"stage"`
	State StageState `json:"state"`
	Err   string     `json:"error,omitempty"`
}

// AuditResult is the top-level output of a full metadata audit.
type AuditResult struct {
	Outcome        AuditOutcome     `json:"outcome"`
	OverallScore   int              `json:"overall_score"` // 0-100
	Interpretation string           `json:"interpretation"`
	CapabilityMap  AppCapabilityMap `json:"capability_map"`
	ScoredCombos   []ScoredCombo    `json:"scored_combos"` // Sorted by total score descending
	KpiResult      KpiEngineResult  `json:"kpi_result"`
	Stages         []StageResult    `json:"stages"`
	Duration       time.Duration    `json:"duration_ns"`
}

// SkippedStages returns the names of stages that were skipped or failed.
func (r *AuditResult) SkippedStages() []Stage {
	var out []Stage
	for _, s := range r.Stages {
		if s.State != StageOK {
			out = append(out, s.Stage)
		}
	}
	return out
}

// AuditRun represents one persisted audit run in the history store.
type AuditRun struct {
	RunID        int64
	StartTime    time.Time
	EndTime      *time.Time
	OverallScore float64
	Outcome      string
	ComboCount   int
	ConfigParams map[string]any
}

// HistoryStatus reports status information about the history store.
type HistoryStatus struct {
	Backend  DatabaseBackend
	Location string
	RunCount int64
	LastRun  *time.Time
}
