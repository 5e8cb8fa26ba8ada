package engine

import (
	"sort"

	"trendradar/types"
)

// Rank orders scored items descending by score. Ties are broken by the
// earlier FirstSeen timestamp (older stories come first). The sort is
// stable, so applying Rank to already-ordered input leaves it
// unchanged.
func Rank(scored []*types.ScoredItem) []*types.ScoredItem {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Item.FirstSeen.Before(scored[j].Item.FirstSeen)
	})
	return scored
}
