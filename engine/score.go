package engine

import (
	"fmt"

	"trendradar/types"
)

// Weights configures the composite score. The three weights are
// expected to sum to 1.0 but that is not enforced here; negative
// values are rejected at load time via Validate.
type Weights struct {
	Rank      float64 `json:"rank_weight"`
	Frequency float64 `json:"frequency_weight"`
	Hotness   float64 `json:"hotness_weight"`
}

// DefaultWeights is the split used when the caller supplies none.
var DefaultWeights = Weights{Rank: 0.6, Frequency: 0.3, Hotness: 0.1}

// Validate rejects invalid weight configurations. Called once at
// configuration load, never during scoring.
func (w Weights) Validate() error {
	if w.Rank < 0 || w.Frequency < 0 || w.Hotness < 0 {
		return fmt.Errorf("weights must be non-negative: rank=%.3f frequency=%.3f hotness=%.3f",
			w.Rank, w.Frequency, w.Hotness)
	}
	return nil
}

// Sum returns the total of the three weights.
func (w Weights) Sum() float64 {
	return w.Rank + w.Frequency + w.Hotness
}

// BatchStats carries the per-batch normalization context the scoring
// function needs. It is computed once per polling cycle and passed
// explicitly so that scoring stays deterministic and testable.
type BatchStats struct {
	// MaxRank is the maximum platform rank observed in the batch.
	MaxRank int
	// Frequencies counts occurrences of each title key across
	// platforms in the batch plus prior cycles in the reporting
	// window.
	Frequencies map[string]int
	// MaxFrequency is the largest value in Frequencies.
	MaxFrequency int
	// PreviousRanks maps title keys to the rank recorded at the
	// previous observation. Keys with no prior observation are
	// absent.
	PreviousRanks map[string]int
}

// ComputeBatchStats derives normalization stats for a batch. history
// supplies prior-cycle occurrence counts and previous ranks by title
// key; either map may be nil when no history is available.
func ComputeBatchStats(items []*types.NewsItem, historyCounts, previousRanks map[string]int) BatchStats {
	stats := BatchStats{
		Frequencies:   make(map[string]int, len(items)),
		PreviousRanks: previousRanks,
	}
	if stats.PreviousRanks == nil {
		stats.PreviousRanks = map[string]int{}
	}

	for _, item := range items {
		if item.Rank > stats.MaxRank {
			stats.MaxRank = item.Rank
		}
		stats.Frequencies[item.TitleKey()]++
	}
	for key, count := range historyCounts {
		if _, inBatch := stats.Frequencies[key]; inBatch {
			stats.Frequencies[key] += count
		}
	}
	for _, count := range stats.Frequencies {
		if count > stats.MaxFrequency {
			stats.MaxFrequency = count
		}
	}
	return stats
}

// Score computes the weighted composite score for one item:
//
//	rank_weight*rank + frequency_weight*frequency + hotness_weight*hotness
//
// with every component normalized to [0,1]. Deterministic given
// identical inputs.
func Score(item *types.NewsItem, stats BatchStats, w Weights) float64 {
	return w.Rank*RankComponent(item.Rank, stats.MaxRank) +
		w.Frequency*FrequencyComponent(stats.Frequencies[item.TitleKey()], stats.MaxFrequency) +
		w.Hotness*hotnessFor(item, stats)
}

// ScoreBatch scores every item against the batch stats, marking each
// result as included.
func ScoreBatch(items []*types.NewsItem, stats BatchStats, w Weights) []*types.ScoredItem {
	scored := make([]*types.ScoredItem, 0, len(items))
	for _, item := range items {
		scored = append(scored, &types.ScoredItem{
			Item:               item,
			Score:              Score(item, stats, w),
			RankComponent:      RankComponent(item.Rank, stats.MaxRank),
			FrequencyComponent: FrequencyComponent(stats.Frequencies[item.TitleKey()], stats.MaxFrequency),
			HotnessComponent:   hotnessFor(item, stats),
			Included:           true,
		})
	}
	return scored
}

// RankComponent maps a platform rank to [0,1], inverse-proportional to
// the rank number and normalized against the batch maximum: rank 1
// yields 1.0, the worst rank in the batch yields 0.0.
func RankComponent(rank, maxRank int) float64 {
	if rank <= 0 || maxRank <= 0 {
		return 0
	}
	if maxRank == 1 {
		return 1
	}
	if rank > maxRank {
		rank = maxRank
	}
	return float64(maxRank-rank) / float64(maxRank-1)
}

// FrequencyComponent normalizes an occurrence count against the batch
// maximum.
func FrequencyComponent(count, maxCount int) float64 {
	if count <= 0 || maxCount <= 0 {
		return 0
	}
	if count > maxCount {
		count = maxCount
	}
	return float64(count) / float64(maxCount)
}

// HotnessComponent maps the rank delta since the previous observation
// to [0,1]. A positive delta (the item climbed) pushes above 0.5, a
// negative delta below. Items with no prior observation get the
// neutral 0.5.
func HotnessComponent(rank, previousRank, maxRank int, observedBefore bool) float64 {
	if !observedBefore || maxRank <= 0 {
		return 0.5
	}
	delta := previousRank - rank
	if delta > maxRank {
		delta = maxRank
	}
	if delta < -maxRank {
		delta = -maxRank
	}
	return 0.5 + float64(delta)/(2*float64(maxRank))
}

func hotnessFor(item *types.NewsItem, stats BatchStats) float64 {
	prev, ok := stats.PreviousRanks[item.TitleKey()]
	return HotnessComponent(item.Rank, prev, stats.MaxRank, ok)
}
