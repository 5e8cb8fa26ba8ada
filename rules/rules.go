package rules

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Mode tags how a keyword token participates in filtering.
type Mode string

const (
	// ModePlain tokens OR-match: at least one must appear when the
	// rule set has no required tokens.
	ModePlain Mode = "plain"
	// ModeRequired tokens AND-match: every one must appear.
	ModeRequired Mode = "required"
	// ModeExcluded tokens veto: any match forces exclusion.
	ModeExcluded Mode = "excluded"
)

// Rule is a single keyword token with its mode. Tokens are stored
// lower-cased; matching is case-insensitive substring.
type Rule struct {
	Token string `json:"token"`
	Mode  Mode   `json:"mode"`
}

// RuleSet holds parsed rules partitioned by mode. Read-only during
// scoring; load once per run.
type RuleSet struct {
	Plain    []Rule `json:"plain,omitempty"`
	Required []Rule `json:"required,omitempty"`
	Excluded []Rule `json:"excluded,omitempty"`
}

// Empty reports whether the rule set contains no tokens at all.
func (rs *RuleSet) Empty() bool {
	return rs == nil || len(rs.Plain)+len(rs.Required)+len(rs.Excluded) == 0
}

// Len returns the total number of parsed tokens.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Plain) + len(rs.Required) + len(rs.Excluded)
}

// Parse reads keyword rules, one token per line:
//
//	token      plain
//	+token     required
//	!token     excluded
//
// Blank lines and lines starting with '#' are ignored. A line whose
// token is empty after stripping its prefix is malformed and skipped
// silently; malformed lines never abort the run.
func Parse(r io.Reader) (*RuleSet, error) {
	rs := &RuleSet{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		mode := ModePlain
		switch line[0] {
		case '+':
			mode = ModeRequired
			line = line[1:]
		case '!':
			mode = ModeExcluded
			line = line[1:]
		}

		token := strings.ToLower(strings.TrimSpace(line))
		if token == "" {
			// Malformed (prefix with no token); skip.
			continue
		}

		rule := Rule{Token: token, Mode: mode}
		switch mode {
		case ModeRequired:
			rs.Required = append(rs.Required, rule)
		case ModeExcluded:
			rs.Excluded = append(rs.Excluded, rule)
		default:
			rs.Plain = append(rs.Plain, rule)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	return rs, nil
}

// ParseLines parses rules from an in-memory list of lines. Used by the
// API when a request carries its own rule set.
func ParseLines(lines []string) *RuleSet {
	rs, _ := Parse(strings.NewReader(strings.Join(lines, "\n")))
	return rs
}

// LoadFile reads and parses a rule file from disk.
func LoadFile(path string) (*RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
