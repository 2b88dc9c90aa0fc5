package kpi

import (
	"github.com/listinglab/asoscan/schema"
)

// ComputeKpi evaluates one KPI against the listing and returns its
// result with the effective weight resolved from any matching override.
// Effective weight = base weight * override multiplier; absent an
// override it equals the base weight.
func ComputeKpi(def Def, familyID string, in *Input, auditCtx *schema.AuditContext, overrides []Override) schema.KpiResult {
	raw, normalized := def.Eval(in)

	effective := def.BaseWeight
	for _, o := range overrides {
		if o.KpiID == def.ID && o.Scope.Matches(auditCtx) {
			effective = def.BaseWeight * o.Multiplier
		}
	}

	return schema.KpiResult{
		ID:              def.ID,
		Label:           def.Label,
		Family:          familyID,
		Raw:             raw,
		Normalized:      schema.ClampScore(normalized),
		BaseWeight:      def.BaseWeight,
		EffectiveWeight: effective,
	}
}

// ComputeFamily aggregates member KPI results into one family score
// using a weight-normalized average of effective weights. When no
// member declares a weight, members weigh equally. This is never a
// plain arithmetic mean unless the weights are equal.
func ComputeFamily(family FamilyDef, weight float64, results []schema.KpiResult) schema.KpiFamilyResult {
	out := schema.KpiFamilyResult{
		ID:     family.ID,
		Label:  family.Label,
		Weight: weight,
		Kpis:   results,
	}
	if len(results) == 0 {
		return out
	}

	var weightSum, weighted float64
	for _, r := range results {
		weightSum += r.EffectiveWeight
	}
	if weightSum == 0 {
		// Equal weighting fallback.
		for _, r := range results {
			weighted += r.Normalized
		}
		out.Score = schema.ClampScore(weighted / float64(len(results)))
		return out
	}

	for _, r := range results {
		weighted += r.Normalized * r.EffectiveWeight
	}
	out.Score = schema.ClampScore(weighted / weightSum)
	return out
}

// ComputeOverall aggregates family scores into the overall score as a
// weighted average of family weights, never an unweighted mean.
func ComputeOverall(families []schema.KpiFamilyResult) float64 {
	var weightSum, weighted float64
	for _, f := range families {
		weightSum += f.Weight
		weighted += f.Score * f.Weight
	}
	if weightSum == 0 {
		return 0
	}
	return schema.ClampScore(weighted / weightSum)
}

// ComputeAll runs the full KPI engine: every KPI in every family,
// family aggregation with registry weights, and the overall score.
func ComputeAll(bundle *schema.ListingBundle, auditCtx *schema.AuditContext, reg *schema.FormulaRegistry, aliases, stopwords []string) schema.KpiEngineResult {
	in := NewInput(bundle, aliases, stopwords)
	overrides := DefaultOverrides()

	var familyResults []schema.KpiFamilyResult
	for _, family := range Registry() {
		results := make([]schema.KpiResult, 0, len(family.Members))
		for _, def := range family.Members {
			results = append(results, ComputeKpi(def, family.ID, in, auditCtx, overrides))
		}
		familyResults = append(familyResults, ComputeFamily(family, reg.FamilyWeight(family.ID), results))
	}

	return schema.KpiEngineResult{
		Overall:  ComputeOverall(familyResults),
		Families: familyResults,
	}
}
