package core

import (
	"sort"

	"github.com/listinglab/asoscan/schema"
)

// RankCombos sorts scored combos by total score in descending order and
// returns the top 'limit' entries. Ties break on canonical key so that
// identical inputs always rank identically. If limit is greater than
// the number of combos, all combos are returned in sorted order.
func RankCombos(combos []schema.ScoredCombo, limit int) []schema.ScoredCombo {
	sort.Slice(combos, func(i, j int) bool {
		if combos[i].TotalScore != combos[j].TotalScore {
			return combos[i].TotalScore > combos[j].TotalScore
		}
		return combos[i].Text < combos[j].Text
	})
	if limit > 0 && len(combos) > limit {
		return combos[:limit]
	}
	return combos
}
