package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(TitleStyle.Render("📡 TrendRadar Ranking Demo"))
	b.WriteString("\n\n")

	// Current state
	b.WriteString(m.stateText())
	b.WriteString("\n\n")

	// Logs
	if len(m.Logs) > 0 {
		b.WriteString(InfoStyle.Render("Recent activity:"))
		b.WriteString("\n")
		for _, line := range m.Logs {
			b.WriteString(InfoStyle.Render("   " + line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Ranked result
	if m.State == StateComplete && m.Result != nil {
		b.WriteString(BoxStyle.Render(m.formatRanked()))
		b.WriteString("\n\n")
	}

	// Help text
	switch m.State {
	case StateRunning:
		b.WriteString(InfoStyle.Render("Press 'q' or Ctrl+C to quit"))
	default:
		b.WriteString(InfoStyle.Render("Press 'r' to run the pipeline | Press 'q' or Ctrl+C to quit"))
	}

	return b.String()
}

func (m Model) stateText() string {
	switch m.State {
	case StateRunning:
		return StatusStyle.Render("⏳ Running pipeline...")
	case StateComplete:
		return StatusStyle.Render("✅ Run complete")
	case StateError:
		return ErrorStyle.Render(fmt.Sprintf("❌ Error: %v", m.Err))
	default:
		return InfoStyle.Render(fmt.Sprintf("Idle — batch of %d items loaded", len(m.Batch)))
	}
}

func (m Model) formatRanked() string {
	var b strings.Builder
	b.WriteString(HighlightStyle.Render(" Ranked items "))
	b.WriteString("\n\n")

	const maxRows = 15
	for i, s := range m.Result.Ranked {
		if i >= maxRows {
			b.WriteString(InfoStyle.Render(fmt.Sprintf("… and %d more", len(m.Result.Ranked)-maxRows)))
			b.WriteString("\n")
			break
		}
		line := fmt.Sprintf("%2d. [%.3f] %-10s %s", i+1, s.Score, s.Item.Platform, s.Item.Title)
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(m.Result.Excluded) > 0 {
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render(fmt.Sprintf("%d item(s) excluded by keyword rules", len(m.Result.Excluded))))
		b.WriteString("\n")
	}
	return b.String()
}
