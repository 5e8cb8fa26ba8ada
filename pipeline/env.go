package pipeline

import (
	"context"
	"log"
	"os"
	"strings"

	"trendradar/config"
	"trendradar/history"
	"trendradar/rules"
	"trendradar/storage"
)

// NewFromEnv assembles a Pipeline from environment configuration:
// RULES_FILE, the weight variables, REDIS_ADDR for history and
// S3_BUCKET (plus S3_REGION/S3_PROFILE/S3_PREFIX/S3_USE_PATH_STYLE)
// for snapshot uploads. Redis and S3 are optional; each degrades with
// a logged warning when unavailable.
func NewFromEnv(ctx context.Context) (*Pipeline, error) {
	ruleSet, err := rules.LoadFile(config.RulesPath())
	if err != nil {
		log.Printf("Warning: %v (running unfiltered)", err)
		ruleSet = &rules.RuleSet{}
	} else {
		log.Printf("Loaded %d keyword rules from %s", ruleSet.Len(), config.RulesPath())
	}

	weights, err := config.LoadWeights()
	if err != nil {
		return nil, err
	}
	if sum := weights.Sum(); sum < 0.999 || sum > 1.001 {
		log.Printf("Warning: scoring weights sum to %.3f, not 1.0", sum)
	}

	p := &Pipeline{
		Rules:   ruleSet,
		Weights: weights,
		Window:  config.ReportWindow(),
	}

	if os.Getenv("REDIS_ADDR") != "" {
		store, err := history.NewRedisStoreFromEnv()
		if err != nil {
			log.Printf("Warning: %v (falling back to in-memory history)", err)
			p.History = history.NewMemoryStore()
		} else {
			p.History = store
		}
	} else {
		log.Printf("REDIS_ADDR not set; using in-memory observation history")
		p.History = history.NewMemoryStore()
	}

	p.Snapshots = initializeSnapshots(ctx)
	return p, nil
}

// initializeSnapshots returns an S3 snapshot store if configured via
// env. Required: S3_BUCKET. Optional: S3_REGION, S3_PROFILE, S3_PREFIX,
// S3_USE_PATH_STYLE=true
func initializeSnapshots(ctx context.Context) *storage.SnapshotStore {
	bucket := strings.TrimSpace(os.Getenv("S3_BUCKET"))
	if bucket == "" {
		log.Printf("S3 not configured; skipping snapshot uploads")
		return nil
	}

	cfg := storage.S3Config{
		Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		Profile:      strings.TrimSpace(os.Getenv("S3_PROFILE")),
		UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),
	}
	store, err := storage.NewSnapshotStore(ctx, cfg, bucket, os.Getenv("S3_PREFIX"))
	if err != nil {
		log.Printf("Warning: failed to init S3 client: %v (snapshot uploads disabled)", err)
		return nil
	}
	return store
}

// Close releases the pipeline's history connection, if any.
func (p *Pipeline) Close() error {
	if p.History != nil {
		return p.History.Close()
	}
	return nil
}
