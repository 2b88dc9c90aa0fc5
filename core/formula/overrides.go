package formula

import (
	"fmt"

	"github.com/listinglab/asoscan/schema"
	"github.com/spf13/viper"
)

// PriorityWeightsRaw holds custom combo priority weights from the
// config file. Float pointers distinguish "absent" from zero.
type PriorityWeightsRaw struct {
	Semantic    *float64 `mapstructure:"semantic_relevance"`
	Length      *float64 `mapstructure:"length"`
	BrandHybrid *float64 `mapstructure:"brand_hybrid"`
	Novelty     *float64 `mapstructure:"novelty"`
	InvNoise    *float64 `mapstructure:"inv_noise"`
}

// FamilyWeightsRaw holds custom KPI family weights from the config file.
type FamilyWeightsRaw struct {
	ClarityStructure    *float64 `mapstructure:"clarity_structure"`
	KeywordArchitecture *float64 `mapstructure:"keyword_architecture"`
	HookStrength        *float64 `mapstructure:"hook_strength"`
	BrandGenericBalance *float64 `mapstructure:"brand_generic_balance"`
}

// ThresholdsRaw holds custom priority cut points from the config file.
type ThresholdsRaw struct {
	High   *float64 `mapstructure:"high"`
	Medium *float64 `mapstructure:"medium"`
}

// LimitsRaw holds custom output limits from the config file.
type LimitsRaw struct {
	MaxCombosPerAudit *int `mapstructure:"max_combos_per_audit"`
	MaxOpportunities  *int `mapstructure:"max_opportunities"`
}

// RegistryOverrides holds all custom registry values from a registry
// document. Absent fields keep their built-in values; the merged
// registry is re-validated as a whole, so partial overrides that break
// a weight sum fail loudly at load time.
type RegistryOverrides struct {
	Version       string             `mapstructure:"version"`
	PriorityRaw   PriorityWeightsRaw `mapstructure:"priority_weights"`
	FamilyRaw     FamilyWeightsRaw   `mapstructure:"family_weights"`
	ThresholdsRaw ThresholdsRaw      `mapstructure:"thresholds"`
	LimitsRaw     LimitsRaw          `mapstructure:"limits"`
	GapMultiplier *float64           `mapstructure:"gap_multiplier"`
}

// apply copies every present override value onto the registry.
func (o *RegistryOverrides) apply(reg *schema.FormulaRegistry) {
	if o.Version != "" {
		reg.Version = o.Version
	}

	priority := reg.Weights[schema.ComboPriorityWeights]
	setWeight(priority, string(schema.FactorSemantic), o.PriorityRaw.Semantic)
	setWeight(priority, string(schema.FactorLength), o.PriorityRaw.Length)
	setWeight(priority, string(schema.FactorBrandHybrid), o.PriorityRaw.BrandHybrid)
	setWeight(priority, string(schema.FactorNovelty), o.PriorityRaw.Novelty)
	setWeight(priority, string(schema.FactorInvNoise), o.PriorityRaw.InvNoise)

	families := reg.Weights[schema.KpiFamilyWeights]
	setWeight(families, "clarity_structure", o.FamilyRaw.ClarityStructure)
	setWeight(families, "keyword_architecture", o.FamilyRaw.KeywordArchitecture)
	setWeight(families, "hook_strength", o.FamilyRaw.HookStrength)
	setWeight(families, "brand_generic_balance", o.FamilyRaw.BrandGenericBalance)

	if o.ThresholdsRaw.High != nil {
		reg.Thresholds.High = *o.ThresholdsRaw.High
	}
	if o.ThresholdsRaw.Medium != nil {
		reg.Thresholds.Medium = *o.ThresholdsRaw.Medium
	}
	if o.LimitsRaw.MaxCombosPerAudit != nil {
		reg.Limits.MaxCombosPerAudit = *o.LimitsRaw.MaxCombosPerAudit
	}
	if o.LimitsRaw.MaxOpportunities != nil {
		reg.Limits.MaxOpportunities = *o.LimitsRaw.MaxOpportunities
	}
	if o.GapMultiplier != nil {
		reg.GapMultiplier = *o.GapMultiplier
	}
}

func setWeight(weights map[string]float64, key string, value *float64) {
	if value != nil {
		weights[key] = *value
	}
}

// LoadOverridesFile reads a registry override document (YAML) from
// disk. This lets a CLI or test harness score against an alternate
// registry without recompiling any scoring logic.
func LoadOverridesFile(path string) (*RegistryOverrides, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading registry file %q: %w", path, err)
	}
	overrides := &RegistryOverrides{}
	if err := v.Unmarshal(overrides); err != nil {
		return nil, fmt.Errorf("unable to unmarshal registry file %q: %w", path, err)
	}
	return overrides, nil
}
