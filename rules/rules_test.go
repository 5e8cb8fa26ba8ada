package rules

import (
	"strings"
	"testing"
)

func TestParseModes(t *testing.T) {
	input := strings.Join([]string{
		"# keyword rules",
		"",
		"AI",
		"+Bitcoin",
		"!celebrity",
		"  +Climate  ",
		"chip",
	}, "\n")

	rs, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if got, want := len(rs.Plain), 2; got != want {
		t.Fatalf("plain tokens = %d; want %d", got, want)
	}
	if got, want := len(rs.Required), 2; got != want {
		t.Fatalf("required tokens = %d; want %d", got, want)
	}
	if got, want := len(rs.Excluded), 1; got != want {
		t.Fatalf("excluded tokens = %d; want %d", got, want)
	}

	// Tokens are stored lower-cased for case-insensitive matching.
	if rs.Plain[0].Token != "ai" {
		t.Fatalf("plain token = %q; want %q", rs.Plain[0].Token, "ai")
	}
	if rs.Required[1].Token != "climate" {
		t.Fatalf("required token = %q; want %q", rs.Required[1].Token, "climate")
	}
	if rs.Excluded[0].Mode != ModeExcluded {
		t.Fatalf("excluded mode = %q; want %q", rs.Excluded[0].Mode, ModeExcluded)
	}
}

func TestParseSkipsMalformedLines(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  int
	}{
		{"bare plus", "+\nAI", 1},
		{"bare bang", "!\n+AI", 1},
		{"prefix then spaces", "+   \n!   ", 0},
		{"comments and blanks", "# a comment\n\n\n", 0},
		{"empty input", "", 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rs, err := Parse(strings.NewReader(c.input))
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if rs.Len() != c.want {
				t.Fatalf("Len() = %d; want %d", rs.Len(), c.want)
			}
		})
	}
}

func TestParseLines(t *testing.T) {
	rs := ParseLines([]string{"+AI", "!celebrity"})
	if rs.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", rs.Len())
	}
	if rs.Empty() {
		t.Fatal("rule set should not be empty")
	}
}

func TestEmptyRuleSet(t *testing.T) {
	var rs *RuleSet
	if !rs.Empty() {
		t.Fatal("nil rule set should report empty")
	}
	if rs.Len() != 0 {
		t.Fatalf("nil rule set Len() = %d; want 0", rs.Len())
	}
}
