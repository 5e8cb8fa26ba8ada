package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// NewsItem represents a single trending item as captured by the crawler.
// Items are immutable once captured for a polling cycle.
type NewsItem struct {
	ID           string    `json:"id"`
	Platform     string    `json:"platform"`
	PlatformName string    `json:"platform_name,omitempty"`
	Title        string    `json:"title"`
	URL          string    `json:"url,omitempty"`
	MobileURL    string    `json:"mobile_url,omitempty"`
	Rank         int       `json:"rank"`
	FirstSeen    time.Time `json:"first_seen"`
	LastSeen     time.Time `json:"last_seen"`
}

// ScoredItem is a NewsItem augmented with its composite score, the
// per-factor breakdown and the filter decision. Produced transiently
// per run; never persisted by the engine.
type ScoredItem struct {
	Item               *NewsItem `json:"item"`
	Score              float64   `json:"score"`
	RankComponent      float64   `json:"rank_component"`
	FrequencyComponent float64   `json:"frequency_component"`
	HotnessComponent   float64   `json:"hotness_component"`
	Included           bool      `json:"included"`
}

// Batch is the top-level wrapper for a crawled polling cycle.
type Batch struct {
	CrawledAt time.Time   `json:"crawled_at"`
	ItemCount int         `json:"item_count"`
	Items     []*NewsItem `json:"items"`
}

// NormalizeTitle collapses inner whitespace (including newlines) and
// trims the result. Crawled titles frequently carry stray line breaks.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(title), " ")
}

// TitleKey returns the case-folded normalized title used to match the
// same logical story across platforms and polling cycles.
func (n *NewsItem) TitleKey() string {
	return strings.ToLower(NormalizeTitle(n.Title))
}

// GenerateID creates a short, stable ID by hashing the provided string input
func GenerateID(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}
