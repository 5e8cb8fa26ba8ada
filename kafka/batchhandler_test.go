package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"trendradar/engine"
	"trendradar/pipeline"
	"trendradar/rules"
	"trendradar/types"
)

func TestBatchHandlerProcessesBatch(t *testing.T) {
	p := &pipeline.Pipeline{
		Rules:   rules.ParseLines([]string{"!celebrity"}),
		Weights: engine.DefaultWeights,
		Window:  24 * time.Hour,
	}
	handler := NewBatchHandler(p)

	now := time.Now()
	batch := types.Batch{
		CrawledAt: now,
		ItemCount: 2,
		Items: []*types.NewsItem{
			{Platform: "weibo", Title: "AI breakthrough", Rank: 1, FirstSeen: now, LastSeen: now},
			{Platform: "weibo", Title: "celebrity gossip", Rank: 2, FirstSeen: now, LastSeen: now},
		},
	}
	data, err := json.Marshal(batch)
	if err != nil {
		t.Fatalf("failed to marshal batch: %v", err)
	}

	shouldMark, err := handler.HandleMessage(context.Background(), data)
	if err != nil {
		t.Fatalf("HandleMessage error: %v", err)
	}
	if !shouldMark {
		t.Fatal("processed batch should be marked")
	}
}

func TestBatchHandlerMarksInvalidPayloads(t *testing.T) {
	p := &pipeline.Pipeline{Rules: &rules.RuleSet{}, Weights: engine.DefaultWeights}
	handler := NewBatchHandler(p)

	shouldMark, err := handler.HandleMessage(context.Background(), []byte("not json"))
	if err != nil {
		t.Fatalf("invalid payload must not error: %v", err)
	}
	if !shouldMark {
		t.Fatal("invalid payload should be marked to avoid redelivery loops")
	}
}

func TestBatchHandlerMarksEmptyBatches(t *testing.T) {
	p := &pipeline.Pipeline{Rules: &rules.RuleSet{}, Weights: engine.DefaultWeights}
	handler := NewBatchHandler(p)

	data, _ := json.Marshal(types.Batch{CrawledAt: time.Now()})
	shouldMark, err := handler.HandleMessage(context.Background(), data)
	if err != nil {
		t.Fatalf("HandleMessage error: %v", err)
	}
	if !shouldMark {
		t.Fatal("empty batch should be marked and skipped")
	}
}
