package capability

import (
	"sort"
	"strings"

	"github.com/listinglab/asoscan/schema"
)

// Extract scans description text against the pattern library and
// returns a capability map with per-class detections. It is a pure
// function of its input plus the static library: identical text always
// yields an identical map.
//
// The extraction mode makes the staged-rollout switch visible at the
// call boundary: when disabled, three empty zero-count buckets come
// back rather than an error. Empty or whitespace-only text behaves the
// same way.
func Extract(text string, mode schema.ExtractionMode) schema.AppCapabilityMap {
	var out schema.AppCapabilityMap
	for _, class := range schema.AllPatternClasses {
		*out.Bucket(class) = emptyBucket()
	}

	lowered := strings.ToLower(strings.TrimSpace(text))
	if mode == schema.ExtractionDisabled || lowered == "" {
		return out
	}

	for _, class := range schema.AllPatternClasses {
		*out.Bucket(class) = scanClass(lowered, Patterns(class))
	}
	return out
}

// scanClass runs every pattern of one class against the text, recording
// at most one detection per pattern.
func scanClass(lowered string, patterns []Pattern) schema.CapabilityBucket {
	bucket := emptyBucket()
	seen := make(map[string]struct{})

	for _, p := range patterns {
		matched, ok := p.match(lowered)
		if !ok {
			continue
		}
		bucket.Items = append(bucket.Items, schema.DetectedCapability{
			Matched:     matched,
			Category:    p.Category,
			Pattern:     p.Raw(),
			Criticality: p.Criticality,
			Confidence:  p.Criticality.Confidence(),
		})
		if _, dup := seen[p.Category]; !dup {
			seen[p.Category] = struct{}{}
			bucket.Categories = append(bucket.Categories, p.Category)
		}
	}

	bucket.Count = len(bucket.Items)
	sort.Strings(bucket.Categories)
	return bucket
}

func emptyBucket() schema.CapabilityBucket {
	return schema.CapabilityBucket{
		Items:      []schema.DetectedCapability{},
		Categories: []string{},
	}
}
