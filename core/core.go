// Package core orchestrates the metadata audit pipeline: capability
// extraction, combo generation, priority scoring and KPI aggregation.
package core

import (
	"runtime"

	"github.com/listinglab/asoscan/core/combo"
	"github.com/listinglab/asoscan/schema"
)

// Options controls one audit run. The extraction mode is an explicit
// parameter here so the staged-rollout decision is visible at the call
// boundary and testable both ways.
type Options struct {
	Extraction schema.ExtractionMode
	Combos     combo.Options
	Workers    int // Worker count for batch combo scoring
}

// DefaultOptions returns audit options with extraction enabled and the
// built-in combo settings.
func DefaultOptions() Options {
	return Options{
		Extraction: schema.ExtractionEnabled,
		Combos:     combo.DefaultOptions(),
		Workers:    runtime.GOMAXPROCS(0),
	}
}
