// Package history records item observations across polling cycles so
// the engine can compute frequency and hotness components. The engine
// itself never touches the store; the pipeline reads stats out of it
// and passes them in as plain values.
package history

import (
	"context"
	"sync"
	"time"
)

// Observation is one sighting of a logical story on a platform.
type Observation struct {
	TitleKey string    `json:"title_key"`
	Platform string    `json:"platform"`
	Rank     int       `json:"rank"`
	SeenAt   time.Time `json:"seen_at"`
}

// Store persists observations across polling cycles.
type Store interface {
	// Record stores an observation and updates the last-seen rank
	// for its title key.
	Record(ctx context.Context, obs Observation) error
	// LastRank returns the most recently recorded rank for the
	// title key, and whether the key has been observed before.
	LastRank(ctx context.Context, titleKey string) (int, bool, error)
	// CountInWindow returns how many observations of the title key
	// fall inside the reporting window ending now.
	CountInWindow(ctx context.Context, titleKey string, window time.Duration) (int, error)
	// Close releases any underlying connections.
	Close() error
}

// MemoryStore is an in-process Store. It backs tests and deployments
// that run without Redis.
type MemoryStore struct {
	mu        sync.Mutex
	lastRanks map[string]int
	seenAt    map[string][]time.Time
	now       func() time.Time
}

// NewMemoryStore creates an empty in-memory observation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lastRanks: make(map[string]int),
		seenAt:    make(map[string][]time.Time),
		now:       time.Now,
	}
}

func (m *MemoryStore) Record(_ context.Context, obs Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastRanks[obs.TitleKey] = obs.Rank
	m.seenAt[obs.TitleKey] = append(m.seenAt[obs.TitleKey], obs.SeenAt)
	return nil
}

func (m *MemoryStore) LastRank(_ context.Context, titleKey string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rank, ok := m.lastRanks[titleKey]
	return rank, ok, nil
}

func (m *MemoryStore) CountInWindow(_ context.Context, titleKey string, window time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-window)
	count := 0
	for _, seen := range m.seenAt[titleKey] {
		if !seen.Before(cutoff) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) Close() error { return nil }
