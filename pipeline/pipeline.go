// Package pipeline wires the filter/score/rank engine to its
// collaborators: the observation history, and optionally the S3
// snapshot store for downstream renderers.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"trendradar/engine"
	"trendradar/history"
	"trendradar/report"
	"trendradar/rules"
	"trendradar/storage"
	"trendradar/types"
)

// Pipeline holds the per-run collaborators. The engine functions it
// calls are pure; all I/O happens here.
type Pipeline struct {
	Rules   *rules.RuleSet
	Weights engine.Weights
	// History supplies frequency and hotness inputs. Nil disables
	// both (frequency falls back to in-batch counts, hotness to the
	// neutral default).
	History history.Store
	// Window bounds cross-cycle frequency counting.
	Window time.Duration
	// Snapshots, when set, receives a rendered report per run.
	Snapshots *storage.SnapshotStore
	// Now is overridable for tests.
	Now func() time.Time
}

// Summary gives per-run counts for logging and API responses.
type Summary struct {
	Total    int `json:"total"`
	Included int `json:"included"`
	Excluded int `json:"excluded"`
	// Duplicates counts same-platform sightings that collapsed into an
	// already-ranked entry.
	Duplicates int `json:"duplicates,omitempty"`
}

// Result is the outcome of one polling cycle.
type Result struct {
	// Ranked holds the included items, scored and ordered.
	Ranked []*types.ScoredItem `json:"ranked"`
	// Excluded holds the items the keyword rules rejected.
	Excluded []*types.NewsItem `json:"excluded,omitempty"`
	// SnapshotKey is the uploaded snapshot object key, if any.
	SnapshotKey string  `json:"snapshot_key,omitempty"`
	Summary     Summary `json:"summary"`
}

// RunOnce executes a single cycle: filter, gather history stats,
// collapse duplicate sightings, score, rank, record this cycle's
// observations, and optionally upload a snapshot. An empty batch
// returns an empty result, not an error.
func (p *Pipeline) RunOnce(ctx context.Context, items []*types.NewsItem) (*Result, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	result := &Result{Summary: Summary{Total: len(items)}}
	if len(items) == 0 {
		result.Ranked = []*types.ScoredItem{}
		return result, nil
	}

	included, excluded := engine.Filter(items, p.Rules)
	result.Excluded = excluded
	result.Summary.Included = len(included)
	result.Summary.Excluded = len(excluded)
	log.Printf("Filtered batch: %d included, %d excluded (of %d)",
		len(included), len(excluded), len(items))

	historyCounts, previousRanks := p.gatherStats(ctx, included)
	stats := engine.ComputeBatchStats(included, historyCounts, previousRanks)

	// Stats are computed before collapsing so duplicate sightings still
	// count toward frequency; the ranked output carries each story once
	// per platform, at its best rank.
	unique := engine.Collapse(included)
	result.Summary.Duplicates = len(included) - len(unique)
	if result.Summary.Duplicates > 0 {
		log.Printf("Collapsed %d duplicate sightings", result.Summary.Duplicates)
	}

	scored := engine.ScoreBatch(unique, stats, p.Weights)
	result.Ranked = engine.Rank(scored)

	// Record every crawled item, excluded ones too: the history
	// reflects what the platforms showed, not what the rules kept.
	p.recordObservations(ctx, items, now())

	if p.Snapshots != nil {
		key, err := p.uploadSnapshot(ctx, result.Ranked, now())
		if err != nil {
			log.Printf("Warning: snapshot upload failed: %v", err)
		} else {
			result.SnapshotKey = key
			log.Printf("Snapshot uploaded: %s", key)
		}
	}

	return result, nil
}

// gatherStats reads windowed frequency counts and previous ranks for
// the included items. History failures degrade to neutral values so a
// flaky store never fails classification.
func (p *Pipeline) gatherStats(ctx context.Context, items []*types.NewsItem) (counts, prevRanks map[string]int) {
	counts = make(map[string]int)
	prevRanks = make(map[string]int)
	if p.History == nil {
		return counts, prevRanks
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		key := item.TitleKey()
		if seen[key] {
			continue
		}
		seen[key] = true

		if count, err := p.History.CountInWindow(ctx, key, p.Window); err != nil {
			log.Printf("Warning: frequency lookup failed for %q: %v", key, err)
		} else if count > 0 {
			counts[key] = count
		}

		if rank, ok, err := p.History.LastRank(ctx, key); err != nil {
			log.Printf("Warning: last-rank lookup failed for %q: %v", key, err)
		} else if ok {
			prevRanks[key] = rank
		}
	}
	return counts, prevRanks
}

func (p *Pipeline) recordObservations(ctx context.Context, items []*types.NewsItem, at time.Time) {
	if p.History == nil {
		return
	}
	for _, item := range items {
		obs := history.Observation{
			TitleKey: item.TitleKey(),
			Platform: item.Platform,
			Rank:     item.Rank,
			SeenAt:   at,
		}
		if err := p.History.Record(ctx, obs); err != nil {
			log.Printf("Warning: failed to record observation for %q: %v", obs.TitleKey, err)
		}
	}
}

func (p *Pipeline) uploadSnapshot(ctx context.Context, ranked []*types.ScoredItem, at time.Time) (string, error) {
	rendered := report.Render(report.FromScored(ranked, at))
	uctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	key, err := p.Snapshots.PutSnapshot(uctx, at, rendered)
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}
	return key, nil
}
