// Package report renders and parses the plain-text trending snapshot
// exchanged with downstream renderers. The format groups items into
// blank-line separated sections, one per source platform:
//
//	source_id | Source Name
//	1. First title [URL:https://...] [MOBILE:https://...]
//	2. Second title
//
// The URL/MOBILE suffixes are optional per line.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"trendradar/types"
)

// Section is one source platform's block of ranked titles.
type Section struct {
	SourceID   string            `json:"source_id"`
	SourceName string            `json:"source_name"`
	Items      []*types.NewsItem `json:"items"`
}

// Report is a full snapshot of one polling cycle, grouped by source.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Sections    []Section `json:"sections"`
}

// FromScored groups ranked scored items into a single-pass report,
// preserving the ranked order within each platform section.
func FromScored(scored []*types.ScoredItem, generatedAt time.Time) *Report {
	rep := &Report{GeneratedAt: generatedAt}
	index := make(map[string]int)

	for _, s := range scored {
		item := s.Item
		i, ok := index[item.Platform]
		if !ok {
			name := item.PlatformName
			if name == "" {
				name = item.Platform
			}
			rep.Sections = append(rep.Sections, Section{
				SourceID:   item.Platform,
				SourceName: name,
			})
			i = len(rep.Sections) - 1
			index[item.Platform] = i
		}
		rep.Sections[i].Items = append(rep.Sections[i].Items, item)
	}
	return rep
}

// Render writes the report in the snapshot text format. Item numbering
// restarts at 1 inside every section and reflects the order of the
// slice, not the items' platform ranks.
func Render(rep *Report) string {
	var b strings.Builder
	for si, section := range rep.Sections {
		if si > 0 {
			b.WriteString("\n")
		}
		if section.SourceName != "" && section.SourceName != section.SourceID {
			fmt.Fprintf(&b, "%s | %s\n", section.SourceID, section.SourceName)
		} else {
			fmt.Fprintf(&b, "%s\n", section.SourceID)
		}
		for i, item := range section.Items {
			fmt.Fprintf(&b, "%d. %s", i+1, types.NormalizeTitle(item.Title))
			if item.URL != "" {
				fmt.Fprintf(&b, " [URL:%s]", item.URL)
			}
			if item.MobileURL != "" {
				fmt.Fprintf(&b, " [MOBILE:%s]", item.MobileURL)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Parse reads a snapshot back into a Report. Malformed item lines are
// skipped rather than failing the whole snapshot, matching the
// renderer's tolerance for hand-edited files.
func Parse(r io.Reader) (*Report, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	rep := &Report{}
	for _, block := range strings.Split(string(data), "\n\n") {
		lines := nonEmptyLines(block)
		if len(lines) < 1 {
			continue
		}

		section := Section{}
		header := lines[0]
		if id, name, found := strings.Cut(header, " | "); found {
			section.SourceID = strings.TrimSpace(id)
			section.SourceName = strings.TrimSpace(name)
		} else {
			section.SourceID = strings.TrimSpace(header)
			section.SourceName = section.SourceID
		}

		for _, line := range lines[1:] {
			item, ok := parseItemLine(line, section.SourceID, section.SourceName)
			if !ok {
				continue
			}
			section.Items = append(section.Items, item)
		}
		rep.Sections = append(rep.Sections, section)
	}
	return rep, nil
}

func nonEmptyLines(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, strings.TrimSpace(line))
		}
	}
	return out
}

// parseItemLine decodes "N. Title [URL:u] [MOBILE:m]". The rank prefix
// and the URL suffixes are all optional.
func parseItemLine(line, sourceID, sourceName string) (*types.NewsItem, bool) {
	rank := 0
	rest := line
	if num, tail, found := strings.Cut(rest, ". "); found {
		if n, err := strconv.Atoi(num); err == nil {
			rank = n
			rest = tail
		}
	}

	mobileURL := ""
	if head, tail, found := cutLast(rest, " [MOBILE:"); found && strings.HasSuffix(tail, "]") {
		mobileURL = strings.TrimSuffix(tail, "]")
		rest = head
	}

	url := ""
	if head, tail, found := cutLast(rest, " [URL:"); found && strings.HasSuffix(tail, "]") {
		url = strings.TrimSuffix(tail, "]")
		rest = head
	}

	title := types.NormalizeTitle(rest)
	if title == "" {
		return nil, false
	}

	return &types.NewsItem{
		ID:           types.GenerateID(sourceID + "|" + title),
		Platform:     sourceID,
		PlatformName: sourceName,
		Title:        title,
		URL:          url,
		MobileURL:    mobileURL,
		Rank:         rank,
	}, true
}

// cutLast is strings.Cut anchored at the last occurrence of sep.
func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}
