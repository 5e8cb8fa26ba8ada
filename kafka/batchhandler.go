package kafka

import (
	"context"
	"encoding/json"
	"log"

	"trendradar/pipeline"
	"trendradar/types"
)

// BatchHandler decodes a crawled batch from a message and runs the
// pipeline on it. Undecodable payloads and empty batches are marked so
// they are not redelivered; pipeline failures leave the message
// unmarked for retry.
type BatchHandler struct {
	pipeline *pipeline.Pipeline
}

func NewBatchHandler(p *pipeline.Pipeline) *BatchHandler {
	return &BatchHandler{pipeline: p}
}

// HandleMessage implements BatchProcessor.
func (h *BatchHandler) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	var batch types.Batch
	if err := json.Unmarshal(message, &batch); err != nil {
		log.Printf("Dropping undecodable batch message: %v", err)
		return true, nil
	}
	if len(batch.Items) == 0 {
		log.Printf("Skipping empty batch crawled at %s", batch.CrawledAt)
		return true, nil
	}

	result, err := h.pipeline.RunOnce(ctx, batch.Items)
	if err != nil {
		return false, err
	}
	log.Printf("Processed batch crawled at %s: %d included, %d excluded",
		batch.CrawledAt, result.Summary.Included, result.Summary.Excluded)
	return true, nil
}
