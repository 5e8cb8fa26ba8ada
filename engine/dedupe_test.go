package engine

import (
	"testing"
	"time"

	"trendradar/types"
)

func TestCollapseMergesSamePlatformStories(t *testing.T) {
	early := time.Date(2026, 8, 26, 8, 0, 0, 0, time.UTC)
	late := early.Add(2 * time.Hour)

	items := []*types.NewsItem{
		{Platform: "weibo", Title: "AI breakthrough", Rank: 3, FirstSeen: late, LastSeen: late},
		{Platform: "weibo", Title: "market crash", Rank: 2, FirstSeen: early, LastSeen: early},
		{Platform: "weibo", Title: "AI  Breakthrough", Rank: 1, FirstSeen: early, LastSeen: early},
	}

	got := Collapse(items)
	if len(got) != 2 {
		t.Fatalf("Collapse returned %d items, want 2", len(got))
	}
	merged := got[0]
	if merged.TitleKey() != "ai breakthrough" {
		t.Fatalf("first-occurrence order not preserved, got %q first", merged.TitleKey())
	}
	if merged.Rank != 1 {
		t.Errorf("merged rank = %d, want best rank 1", merged.Rank)
	}
	if !merged.FirstSeen.Equal(early) {
		t.Errorf("merged FirstSeen = %v, want earliest %v", merged.FirstSeen, early)
	}
	if !merged.LastSeen.Equal(late) {
		t.Errorf("merged LastSeen = %v, want latest %v", merged.LastSeen, late)
	}
}

func TestCollapseKeepsCrossPlatformEntries(t *testing.T) {
	items := []*types.NewsItem{
		{Platform: "weibo", Title: "AI breakthrough", Rank: 1},
		{Platform: "zhihu", Title: "AI breakthrough", Rank: 4},
	}

	got := Collapse(items)
	if len(got) != 2 {
		t.Fatalf("Collapse returned %d items, want 2 (platforms must stay separate)", len(got))
	}
}

func TestCollapsePrefersRankedOverUnranked(t *testing.T) {
	items := []*types.NewsItem{
		{Platform: "weibo", Title: "AI breakthrough", Rank: 0},
		{Platform: "weibo", Title: "AI breakthrough", Rank: 5},
	}

	got := Collapse(items)
	if len(got) != 1 {
		t.Fatalf("Collapse returned %d items, want 1", len(got))
	}
	if got[0].Rank != 5 {
		t.Errorf("merged rank = %d, want ranked sighting 5 over unranked", got[0].Rank)
	}
}

func TestCollapseDoesNotMutateInputs(t *testing.T) {
	early := time.Date(2026, 8, 26, 8, 0, 0, 0, time.UTC)
	a := &types.NewsItem{Platform: "weibo", Title: "AI breakthrough", Rank: 3, FirstSeen: early.Add(time.Hour)}
	b := &types.NewsItem{Platform: "weibo", Title: "AI breakthrough", Rank: 1, FirstSeen: early}

	Collapse([]*types.NewsItem{a, b})

	if a.Rank != 3 || b.Rank != 1 {
		t.Errorf("input ranks changed: a=%d b=%d", a.Rank, b.Rank)
	}
	if !a.FirstSeen.Equal(early.Add(time.Hour)) {
		t.Errorf("input FirstSeen changed: %v", a.FirstSeen)
	}
}
