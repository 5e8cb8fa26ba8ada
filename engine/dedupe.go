package engine

import (
	"trendradar/types"
)

// Collapse merges batch entries that carry the same logical story on
// the same platform, matched by title key. The merged entry keeps the
// best (numerically lowest) platform rank, the earliest FirstSeen and
// the latest LastSeen; first-occurrence order is preserved. Items on
// different platforms are never merged — cross-platform sightings feed
// the frequency component instead. Collapse is pure and never mutates
// its inputs.
func Collapse(items []*types.NewsItem) []*types.NewsItem {
	out := make([]*types.NewsItem, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		key := item.Platform + "|" + item.TitleKey()
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, item)
			continue
		}

		kept := out[i]
		better, other := kept, item
		if item.Rank > 0 && (kept.Rank <= 0 || item.Rank < kept.Rank) {
			better, other = item, kept
		}

		merged := *better
		if !other.FirstSeen.IsZero() && (merged.FirstSeen.IsZero() || other.FirstSeen.Before(merged.FirstSeen)) {
			merged.FirstSeen = other.FirstSeen
		}
		if other.LastSeen.After(merged.LastSeen) {
			merged.LastSeen = other.LastSeen
		}
		out[i] = &merged
	}
	return out
}
