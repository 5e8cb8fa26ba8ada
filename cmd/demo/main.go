package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"trendradar/demo/tui"
	"trendradar/types"
)

func main() {
	// Load environment
	_ = godotenv.Load()

	// Parse command-line flags
	apiURL := flag.String("url", "http://localhost:8080", "Pipeline API URL")
	batchFile := flag.String("batch", "", "JSON file with a crawled batch (defaults to a built-in sample)")
	flag.Parse()

	batch, err := loadBatch(*batchFile)
	if err != nil {
		fmt.Printf("Error loading batch: %v\n", err)
		os.Exit(1)
	}

	// Create TUI model
	m := tui.NewModel(*apiURL, batch)

	// Create the tea program
	program := tea.NewProgram(m)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		program.Quit()
	}()

	// Run the program
	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

// loadBatch reads a crawled batch from a JSON file, or returns the
// built-in sample when no file is given.
func loadBatch(path string) ([]*types.NewsItem, error) {
	if path == "" {
		return sampleBatch(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var batch types.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	return batch.Items, nil
}

func sampleBatch() []*types.NewsItem {
	now := time.Now()
	titles := []struct {
		platform string
		title    string
		rank     int
	}{
		{"weibo", "AI model beats doctors at diagnosis", 1},
		{"weibo", "Celebrity couple announces split", 2},
		{"weibo", "Chip factory breaks ground in Hanoi", 3},
		{"baidu", "AI model beats doctors at diagnosis", 2},
		{"baidu", "Stock market hits yearly high", 4},
		{"zhihu", "Why the chip shortage is ending", 5},
	}

	items := make([]*types.NewsItem, 0, len(titles))
	for _, t := range titles {
		items = append(items, &types.NewsItem{
			ID:        types.GenerateID(t.platform + "|" + t.title),
			Platform:  t.platform,
			Title:     t.title,
			Rank:      t.rank,
			FirstSeen: now,
			LastSeen:  now,
		})
	}
	return items
}
