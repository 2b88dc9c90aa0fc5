package priority

import "github.com/listinglab/asoscan/schema"

// Filtering helpers are pure predicates over an already-scored list.
// None of them rescore.

// FilterHighValue returns the combos whose total score strictly exceeds
// the high-value cutoff.
func FilterHighValue(combos []schema.ScoredCombo) []schema.ScoredCombo {
	return filter(combos, func(c *schema.ScoredCombo) bool { return c.IsHighValue })
}

// FilterLongTail returns the combos with three or more words.
func FilterLongTail(combos []schema.ScoredCombo) []schema.ScoredCombo {
	return filter(combos, func(c *schema.ScoredCombo) bool { return c.IsLongTail })
}

// FilterMissing returns the combos not already present in the listing,
// i.e. the open opportunities.
func FilterMissing(combos []schema.ScoredCombo) []schema.ScoredCombo {
	return filter(combos, func(c *schema.ScoredCombo) bool { return !c.Exists })
}

// FilterMinScore returns the combos scoring at or above min.
func FilterMinScore(combos []schema.ScoredCombo, min int) []schema.ScoredCombo {
	return filter(combos, func(c *schema.ScoredCombo) bool { return c.TotalScore >= min })
}

func filter(combos []schema.ScoredCombo, keep func(*schema.ScoredCombo) bool) []schema.ScoredCombo {
	out := make([]schema.ScoredCombo, 0, len(combos))
	for i := range combos {
		if keep(&combos[i]) {
			out = append(out, combos[i])
		}
	}
	return out
}
