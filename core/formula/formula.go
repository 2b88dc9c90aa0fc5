// Package formula loads and validates the formula registry, the single
// source of truth for all scoring weights, thresholds and bands.
package formula

import (
	"fmt"
	"sort"
	"strings"

	"github.com/listinglab/asoscan/schema"
)

// WeightTolerance is the allowed deviation from 1.0 for any weight map.
const WeightTolerance = 0.001

// ValidationResult holds the outcome of a registry validation pass.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Error renders all validation failures as a single error, or nil when
// the registry is valid.
func (v ValidationResult) Error() error {
	if v.Valid {
		return nil
	}
	return fmt.Errorf("formula registry validation failed: %s", strings.Join(v.Errors, "; "))
}

// Load constructs the registry from the built-in definition, applies
// any overrides, and validates the result. A failing validation is a
// fatal configuration error, never a runtime fallback.
func Load(overrides *RegistryOverrides) (*schema.FormulaRegistry, error) {
	reg := schema.DefaultFormulaRegistry()
	if overrides != nil {
		overrides.apply(reg)
	}
	if result := Validate(reg); !result.Valid {
		return nil, result.Error()
	}
	return reg, nil
}

// LoadUnvalidated constructs the merged registry without running
// validation, for tooling that reports validation findings itself. A
// non-empty overridesFile takes precedence over the inline overrides.
func LoadUnvalidated(overrides *RegistryOverrides, overridesFile string) (*schema.FormulaRegistry, error) {
	if overridesFile != "" {
		fileOverrides, err := LoadOverridesFile(overridesFile)
		if err != nil {
			return nil, err
		}
		overrides = fileOverrides
	}
	reg := schema.DefaultFormulaRegistry()
	if overrides != nil {
		overrides.apply(reg)
	}
	return reg, nil
}

// Validate checks all registry invariants: every weight map sums to 1.0
// within tolerance, every band table is sorted descending with
// non-overlapping inclusive ranges, and the priority cut points are
// ordered. All failures are collected rather than stopping at the first.
func Validate(reg *schema.FormulaRegistry) ValidationResult {
	var errs []string

	if reg.Version == "" {
		errs = append(errs, "registry version is empty")
	}

	// --- Weight sum invariant ---
	groups := make([]schema.WeightGroup, 0, len(reg.Weights))
	for group := range reg.Weights {
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })

	for _, group := range groups {
		weights := reg.Weights[group]
		if len(weights) == 0 {
			errs = append(errs, fmt.Sprintf("weight group %q is empty", group))
			continue
		}
		var sum float64
		for key, w := range weights {
			if w < 0 {
				errs = append(errs, fmt.Sprintf("weight %s.%s is negative (%.3f)", group, key, w))
			}
			sum += w
		}
		if sum < 1.0-WeightTolerance || sum > 1.0+WeightTolerance {
			errs = append(errs, fmt.Sprintf("weights for %s must sum to 1.0, got %.3f", group, sum))
		}
	}

	// --- Band ordering invariant ---
	tables := make([]schema.BandTable, 0, len(reg.Bands))
	for table := range reg.Bands {
		tables = append(tables, table)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i] < tables[j] })

	for _, table := range tables {
		errs = append(errs, validateBands(table, reg.Bands[table])...)
	}

	// --- Threshold ordering ---
	if reg.Thresholds.High <= reg.Thresholds.Medium {
		errs = append(errs, fmt.Sprintf("priority thresholds must satisfy high > medium, got high=%.1f medium=%.1f",
			reg.Thresholds.High, reg.Thresholds.Medium))
	}

	// --- Output limits ---
	if reg.Limits.MaxCombosPerAudit <= 0 {
		errs = append(errs, "max_combos_per_audit must be greater than 0")
	}
	if reg.Limits.MaxOpportunities <= 0 {
		errs = append(errs, "max_opportunities must be greater than 0")
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// validateBands checks one band table for emptiness, internal ordering,
// descending sort by Min, and overlap between adjacent bands.
func validateBands(table schema.BandTable, bands []schema.ScoreBand) []string {
	var errs []string
	if len(bands) == 0 {
		return []string{fmt.Sprintf("band table %q is empty", table)}
	}
	for i, b := range bands {
		if b.Min > b.Max {
			errs = append(errs, fmt.Sprintf("band table %q: band %q has min %.1f above max %.1f", table, b.Label, b.Min, b.Max))
		}
		if i == 0 {
			continue
		}
		prev := bands[i-1]
		if b.Min >= prev.Min {
			errs = append(errs, fmt.Sprintf("band table %q: bands must be sorted descending by min (%q at %.1f follows %q at %.1f)",
				table, b.Label, b.Min, prev.Label, prev.Min))
		}
		if b.Max >= prev.Min {
			errs = append(errs, fmt.Sprintf("band table %q: band %q (max %.1f) overlaps %q (min %.1f)",
				table, b.Label, b.Max, prev.Label, prev.Min))
		}
	}
	return errs
}

// Interpretation performs an inclusive-range lookup of score against a
// band table, falling back to the lowest band when nothing matches. It
// never fails; lookup misses always have a default.
func Interpretation(score float64, bands []schema.ScoreBand) (label, color string) {
	if len(bands) == 0 {
		return "", ""
	}
	for _, b := range bands {
		if b.Contains(score) {
			return b.Label, b.Color
		}
	}
	lowest := bands[len(bands)-1]
	return lowest.Label, lowest.Color
}

// Priority classifies a score into high, medium or low using the two
// registry cut points.
func Priority(score float64, t schema.PriorityThresholds) schema.PriorityLevel {
	switch {
	case score >= t.High:
		return schema.HighPriority
	case score >= t.Medium:
		return schema.MediumPriority
	default:
		return schema.LowPriority
	}
}
