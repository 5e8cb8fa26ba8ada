package engine

import (
	"strings"

	"trendradar/rules"
	"trendradar/types"
)

// Filter partitions items into included and excluded sets according to
// the keyword rule set. Precedence, highest to lowest:
// excluded > required > plain.
//
//   - Any excluded token match forces exclusion, regardless of other
//     matches.
//   - Otherwise, if required tokens exist, the item must match every
//     one of them.
//   - Otherwise, if plain tokens exist, the item must match at least
//     one of them.
//   - An empty rule set includes everything unfiltered.
//
// Matching is case-insensitive substring on the normalized title.
// Filter is pure: it never mutates its inputs and performs no I/O.
func Filter(items []*types.NewsItem, rs *rules.RuleSet) (included, excluded []*types.NewsItem) {
	included = make([]*types.NewsItem, 0, len(items))
	excluded = make([]*types.NewsItem, 0)

	for _, item := range items {
		if Matches(item, rs) {
			included = append(included, item)
		} else {
			excluded = append(excluded, item)
		}
	}
	return included, excluded
}

// Matches reports the filter decision for a single item.
func Matches(item *types.NewsItem, rs *rules.RuleSet) bool {
	if rs.Empty() {
		return true
	}

	text := item.TitleKey()

	for _, r := range rs.Excluded {
		if strings.Contains(text, r.Token) {
			return false
		}
	}

	if len(rs.Required) > 0 {
		for _, r := range rs.Required {
			if !strings.Contains(text, r.Token) {
				return false
			}
		}
		return true
	}

	if len(rs.Plain) > 0 {
		for _, r := range rs.Plain {
			if strings.Contains(text, r.Token) {
				return true
			}
		}
		return false
	}

	// Only excluded tokens exist and none matched.
	return true
}
