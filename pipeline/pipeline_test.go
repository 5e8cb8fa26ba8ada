package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"trendradar/engine"
	"trendradar/history"
	"trendradar/rules"
	"trendradar/types"
)

func testRules(t *testing.T, lines ...string) *rules.RuleSet {
	t.Helper()
	rs, err := rules.Parse(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatalf("failed to parse rules: %v", err)
	}
	return rs
}

func newsItem(platform, title string, rank int, firstSeen time.Time) *types.NewsItem {
	return &types.NewsItem{
		ID:        types.GenerateID(platform + "|" + title),
		Platform:  platform,
		Title:     title,
		Rank:      rank,
		FirstSeen: firstSeen,
		LastSeen:  firstSeen,
	}
}

func TestRunOnceEmptyBatch(t *testing.T) {
	p := &Pipeline{Rules: &rules.RuleSet{}, Weights: engine.DefaultWeights}
	result, err := p.RunOnce(context.Background(), nil)
	if err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}
	if len(result.Ranked) != 0 || result.Summary.Total != 0 {
		t.Fatalf("empty batch produced %+v", result.Summary)
	}
}

func TestRunOnceFiltersScoresAndRanks(t *testing.T) {
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	store := history.NewMemoryStore()
	ctx := context.Background()

	// Prior cycle: "chip shortage" was rank 9 and seen twice. Sightings
	// are seeded relative to the wall clock because the window lookup
	// counts back from now.
	for _, seen := range []time.Time{time.Now().Add(-2 * time.Hour), time.Now().Add(-1 * time.Hour)} {
		err := store.Record(ctx, history.Observation{
			TitleKey: "chip shortage", Platform: "weibo", Rank: 9, SeenAt: seen,
		})
		if err != nil {
			t.Fatalf("seed history: %v", err)
		}
	}

	p := &Pipeline{
		Rules:   testRules(t, "AI", "chip", "!celebrity"),
		Weights: engine.DefaultWeights,
		History: store,
		Window:  24 * time.Hour,
		Now:     func() time.Time { return base },
	}

	items := []*types.NewsItem{
		newsItem("weibo", "celebrity gossip AI", 1, base),
		newsItem("weibo", "chip shortage", 2, base),
		newsItem("baidu", "AI regulation draft", 5, base),
	}

	result, err := p.RunOnce(ctx, items)
	if err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}

	if result.Summary.Excluded != 1 {
		t.Fatalf("excluded = %d; want 1 (celebrity item)", result.Summary.Excluded)
	}
	if result.Summary.Included != 2 {
		t.Fatalf("included = %d; want 2", result.Summary.Included)
	}

	// "chip shortage" climbed 9 -> 2 and has window frequency, so it
	// must outrank the lower-ranked, unseen AI item.
	if result.Ranked[0].Item.Title != "chip shortage" {
		t.Fatalf("top item = %q; want the climbing story", result.Ranked[0].Item.Title)
	}
	if result.Ranked[0].HotnessComponent <= 0.5 {
		t.Fatalf("climbing item hotness = %f; want > 0.5", result.Ranked[0].HotnessComponent)
	}
	if result.Ranked[1].HotnessComponent != 0.5 {
		t.Fatalf("first-time item hotness = %f; want neutral 0.5", result.Ranked[1].HotnessComponent)
	}

	// This cycle's observations were recorded, excluded items too.
	rank, ok, err := store.LastRank(ctx, "celebrity gossip ai")
	if err != nil || !ok || rank != 1 {
		t.Fatalf("excluded item not recorded: rank=%d ok=%v err=%v", rank, ok, err)
	}
	rank, ok, _ = store.LastRank(ctx, "chip shortage")
	if !ok || rank != 2 {
		t.Fatalf("last rank not updated: rank=%d ok=%v", rank, ok)
	}
}

func TestRunOnceCollapsesDuplicateStories(t *testing.T) {
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	p := &Pipeline{
		Rules:   &rules.RuleSet{},
		Weights: engine.DefaultWeights,
		Now:     func() time.Time { return base },
	}

	// The same story shows up twice on one platform, once with extra
	// whitespace in the title.
	items := []*types.NewsItem{
		newsItem("weibo", "AI breakthrough", 1, base),
		newsItem("weibo", "market crash", 2, base),
		newsItem("weibo", "AI  Breakthrough", 3, base.Add(-time.Hour)),
	}

	result, err := p.RunOnce(context.Background(), items)
	if err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}

	if len(result.Ranked) != 2 {
		t.Fatalf("ranked %d items; want 2 after collapsing", len(result.Ranked))
	}
	if result.Summary.Duplicates != 1 {
		t.Fatalf("duplicates = %d; want 1", result.Summary.Duplicates)
	}

	var merged *types.ScoredItem
	count := 0
	for _, s := range result.Ranked {
		if s.Item.TitleKey() == "ai breakthrough" {
			merged = s
			count++
		}
	}
	if count != 1 {
		t.Fatalf("story appears %d times in ranked output; want exactly once", count)
	}
	if merged.Item.Rank != 1 {
		t.Errorf("merged entry rank = %d; want best sighting rank 1", merged.Item.Rank)
	}
	if !merged.Item.FirstSeen.Equal(base.Add(-time.Hour)) {
		t.Errorf("merged FirstSeen = %v; want earliest sighting", merged.Item.FirstSeen)
	}
	// Both sightings still count toward frequency: 2 of batch max 2.
	if merged.FrequencyComponent != 1.0 {
		t.Errorf("merged frequency component = %f; want 1.0", merged.FrequencyComponent)
	}
	if result.Ranked[0] != merged {
		t.Errorf("merged story should rank first, got %q", result.Ranked[0].Item.Title)
	}
}

// failingStore errors on every call; the pipeline must still classify
// every item with neutral stats.
type failingStore struct{}

func (failingStore) Record(context.Context, history.Observation) error {
	return errors.New("redis down")
}
func (failingStore) LastRank(context.Context, string) (int, bool, error) {
	return 0, false, errors.New("redis down")
}
func (failingStore) CountInWindow(context.Context, string, time.Duration) (int, error) {
	return 0, errors.New("redis down")
}
func (failingStore) Close() error { return nil }

func TestRunOnceSurvivesHistoryFailure(t *testing.T) {
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	p := &Pipeline{
		Rules:   &rules.RuleSet{},
		Weights: engine.DefaultWeights,
		History: failingStore{},
		Window:  24 * time.Hour,
		Now:     func() time.Time { return base },
	}

	items := []*types.NewsItem{
		newsItem("weibo", "AI breakthrough", 1, base),
		newsItem("baidu", "market crash", 3, base),
	}

	result, err := p.RunOnce(context.Background(), items)
	if err != nil {
		t.Fatalf("RunOnce must not fail on history errors: %v", err)
	}
	if len(result.Ranked) != 2 {
		t.Fatalf("ranked %d items; want 2", len(result.Ranked))
	}
	for _, s := range result.Ranked {
		if s.HotnessComponent != 0.5 {
			t.Fatalf("hotness without history = %f; want neutral 0.5", s.HotnessComponent)
		}
	}
}

func TestRunOnceNoHistoryStore(t *testing.T) {
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	p := &Pipeline{
		Rules:   testRules(t, "+AI"),
		Weights: engine.DefaultWeights,
		Now:     func() time.Time { return base },
	}

	items := []*types.NewsItem{
		newsItem("weibo", "AI breakthrough", 1, base),
		newsItem("weibo", "weather report", 2, base),
	}

	result, err := p.RunOnce(context.Background(), items)
	if err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}
	if result.Summary.Included != 1 || result.Ranked[0].Item.Title != "AI breakthrough" {
		t.Fatalf("required-token filter broken: %+v", result.Summary)
	}
}
