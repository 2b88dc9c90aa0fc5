package schema

// Custom string types for type safety.
type (
	// PatternClass represents a capability pattern class.
	PatternClass string

	// Criticality represents the criticality tier of a capability pattern.
	Criticality string

	// BrandClass represents the brand classification of a combo.
	BrandClass string

	// ComboSource represents the listing field(s) a combo was drawn from.
	ComboSource string

	// FactorKey represents keys used in priority score breakdowns.
	FactorKey string

	// WeightGroup represents a named weight map in the formula registry.
	WeightGroup string

	// BandTable represents a named score band table in the formula registry.
	BandTable string

	// OutputMode represents the format of the output.
	OutputMode string

	// ExtractionMode controls whether capability extraction runs.
	ExtractionMode string

	// Stage represents a phase of the audit pipeline.
	Stage string

	// StageState represents the terminal state of a pipeline stage.
	StageState string

	// AuditOutcome represents the terminal outcome of a full audit.
	AuditOutcome string

	// PriorityLevel represents the coarse priority classification of a score.
	PriorityLevel string

	// DatabaseBackend represents the database backend for audit history.
	DatabaseBackend string
)

// All pattern classes supported.
const (
	FeatureClass PatternClass = "feature"
	BenefitClass PatternClass = "benefit"
	TrustClass   PatternClass = "trust"
)

// All criticality tiers supported.
const (
	CriticalTier Criticality = "critical"
	HighTier     Criticality = "high"
	DefaultTier  Criticality = "default"
)

// All brand classifications supported.
const (
	BrandedClass  BrandClass = "branded"
	GenericClass  BrandClass = "generic"
	LowValueClass BrandClass = "low_value"
	UnknownClass  BrandClass = "unknown"
)

// All combo source labels supported. Pair labels are preferred over
// the generic mixed label whenever exactly two fields contributed.
const (
	TitleSource         ComboSource = "title"
	SubtitleSource      ComboSource = "subtitle"
	KeywordFieldSource  ComboSource = "keyword_field"
	TitleSubtitleSource ComboSource = "title+subtitle"
	TitleFieldSource    ComboSource = "title+keyword_field"
	SubtitleFieldSource ComboSource = "subtitle+keyword_field"
	MixedSource         ComboSource = "mixed"
)

// Factor keys used in the priority scoring logic.
const (
	FactorSemantic    FactorKey = "semantic_relevance"
	FactorLength      FactorKey = "length"
	FactorBrandHybrid FactorKey = "brand_hybrid"
	FactorNovelty     FactorKey = "novelty"
	FactorInvNoise    FactorKey = "inv_noise"
)

// Weight groups held by the formula registry.
const (
	ComboPriorityWeights WeightGroup = "combo_priority"
	KpiFamilyWeights     WeightGroup = "kpi_families"
	StabilityWeights     WeightGroup = "stability"
	OpportunityWeights   WeightGroup = "opportunity"
)

// Band tables held by the formula registry.
const (
	OverallQualityBands BandTable = "overall_quality"
	ComboPriorityBands  BandTable = "combo_priority"
	ElementScoreBands   BandTable = "element_score"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All extraction modes supported.
const (
	ExtractionEnabled  ExtractionMode = "enabled" // default
	ExtractionDisabled ExtractionMode = "disabled"
)

// All pipeline stages, in execution order.
const (
	ExtractingStage  Stage = "extracting"
	CombiningStage   Stage = "combining"
	ScoringStage     Stage = "scoring"
	AggregatingStage Stage = "aggregating"
)

// All stage states supported.
const (
	StageOK      StageState = "ok"
	StageFailed  StageState = "failed"
	StageSkipped StageState = "skipped"
)

// All audit outcomes supported.
const (
	SuccessOutcome AuditOutcome = "success"
	PartialOutcome AuditOutcome = "partial"
)

// All priority levels supported.
const (
	HighPriority   PriorityLevel = "high"
	MediumPriority PriorityLevel = "medium"
	LowPriority    PriorityLevel = "low"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllStages returns the pipeline stages in execution order.
var AllStages = []Stage{ExtractingStage, CombiningStage, ScoringStage, AggregatingStage}

// AllPatternClasses lists the capability classes in canonical order.
var AllPatternClasses = []PatternClass{FeatureClass, BenefitClass, TrustClass}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidExtractionModes lists all valid extraction modes.
var ValidExtractionModes = map[ExtractionMode]struct{}{
	ExtractionEnabled:  {},
	ExtractionDisabled: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Confidence returns the detection confidence derived from a criticality
// tier. Values are monotonic: critical >= high >= default.
func (c Criticality) Confidence() float64 {
	switch c {
	case CriticalTier:
		return 1.0
	case HighTier:
		return 0.8
	default:
		return 0.6
	}
}
