package core

import (
	"context"
	"errors"
	"time"

	"github.com/listinglab/asoscan/core/capability"
	"github.com/listinglab/asoscan/core/combo"
	"github.com/listinglab/asoscan/core/formula"
	"github.com/listinglab/asoscan/core/kpi"
	"github.com/listinglab/asoscan/core/priority"
	"github.com/listinglab/asoscan/schema"
)

// ErrNilBundle is returned when the caller passes no listing bundle.
// Invalid inputs are caught here at the orchestrator boundary, not deep
// inside formula code.
var ErrNilBundle = errors.New("listing bundle is required")

// RunAudit executes the full audit pipeline:
//
//	Idle -> Extracting -> Combining -> Scoring -> Aggregating -> {Success | PartialFailure}
//
// Each stage result is recorded. A stage failure does not abort later
// independent stages; Scoring has a hard dependency on Combining and is
// skipped when Combining fails. The engine never retries a stage;
// retry policy belongs to the caller, as does any timeout imposed via
// the context.
func RunAudit(ctx context.Context, bundle *schema.ListingBundle, auditCtx *schema.AuditContext, reg *schema.FormulaRegistry, opts Options) (*schema.AuditResult, error) {
	if bundle == nil {
		return nil, ErrNilBundle
	}

	started := time.Now()
	result := &schema.AuditResult{}

	// --- Extracting ---
	switch {
	case ctx.Err() != nil:
		result.Stages = append(result.Stages, failed(schema.ExtractingStage, ctx.Err()))
	case opts.Extraction == schema.ExtractionDisabled:
		// Disabled extraction still yields empty zero-count buckets.
		result.CapabilityMap = capability.Extract("", schema.ExtractionDisabled)
		result.Stages = append(result.Stages, skipped(schema.ExtractingStage))
	default:
		result.CapabilityMap = capability.Extract(bundle.Description, opts.Extraction)
		result.Stages = append(result.Stages, ok(schema.ExtractingStage))
	}

	// --- Combining ---
	var combos []schema.ClassifiedCombo
	combiningOK := false
	if err := ctx.Err(); err != nil {
		result.Stages = append(result.Stages, failed(schema.CombiningStage, err))
	} else {
		// The registry cap bounds enumeration unless the caller set a
		// tighter one.
		if opts.Combos.MaxCombos <= 0 {
			opts.Combos.MaxCombos = reg.Limits.MaxCombosPerAudit
		}
		combos = combo.Generate(bundle, auditCtx, opts.Combos)
		combiningOK = true
		result.Stages = append(result.Stages, ok(schema.CombiningStage))
	}

	// --- Scoring (hard dependency on Combining) ---
	switch {
	case !combiningOK:
		result.ScoredCombos = []schema.ScoredCombo{}
		result.Stages = append(result.Stages, skipped(schema.ScoringStage))
	case ctx.Err() != nil:
		result.ScoredCombos = []schema.ScoredCombo{}
		result.Stages = append(result.Stages, failed(schema.ScoringStage, ctx.Err()))
	default:
		scored := priority.ScoreAll(combos, auditCtx, reg, opts.Workers)
		result.ScoredCombos = RankCombos(scored, reg.Limits.MaxOpportunities)
		result.Stages = append(result.Stages, ok(schema.ScoringStage))
	}

	// --- Aggregating (independent of Combining) ---
	if err := ctx.Err(); err != nil {
		result.Stages = append(result.Stages, failed(schema.AggregatingStage, err))
	} else {
		result.KpiResult = kpi.ComputeAll(bundle, auditCtx, reg, opts.Combos.BrandAliases, opts.Combos.Stopwords)
		result.OverallScore = schema.RoundClamp(result.KpiResult.Overall)
		label, _ := formula.Interpretation(float64(result.OverallScore), reg.Bands[schema.OverallQualityBands])
		result.Interpretation = label
		result.Stages = append(result.Stages, ok(schema.AggregatingStage))
	}

	result.Outcome = schema.SuccessOutcome
	for _, s := range result.Stages {
		if s.State != schema.StageOK {
			result.Outcome = schema.PartialOutcome
			break
		}
	}
	result.Duration = time.Since(started)
	return result, nil
}

func ok(stage schema.Stage) schema.StageResult {
	return schema.StageResult{Stage: stage, State: schema.StageOK}
}

func skipped(stage schema.Stage) schema.StageResult {
	return schema.StageResult{Stage: stage, State: schema.StageSkipped}
}

func failed(stage schema.Stage, err error) schema.StageResult {
	return schema.StageResult{Stage: stage, State: schema.StageFailed, Err: err.Error()}
}
