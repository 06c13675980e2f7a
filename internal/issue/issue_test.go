package issue

import (
	"strings"
	"testing"
)

func TestSortDocumentOrder(t *testing.T) {
	issues := []Issue{
		{RuleID: "B", Path: "b.tex", Line: 1, Col: 1},
		{RuleID: "A", Path: "a.tex", Line: 5, Col: 2},
		{RuleID: "C", Path: "a.tex", Line: 5, Col: 1},
		{RuleID: "D", Path: "config.yaml", Line: 1, Col: 1},
	}
	pathIndex := map[string]int{"a.tex": 0, "b.tex": 1}
	Sort(issues, pathIndex)

	wantOrder := []string{"C", "A", "B", "D"}
	for i, want := range wantOrder {
		if issues[i].RuleID != want {
			t.Errorf("issues[%d] = %s, want %s", i, issues[i].RuleID, want)
		}
	}
}

func TestSortTieBreakByRuleID(t *testing.T) {
	issues := []Issue{
		{RuleID: "ZZZ", Path: "a", Line: 1, Col: 1},
		{RuleID: "AAA", Path: "a", Line: 1, Col: 1},
	}
	Sort(issues, map[string]int{"a": 0})
	if issues[0].RuleID != "AAA" {
		t.Errorf("order = %s, %s", issues[0].RuleID, issues[1].RuleID)
	}
}

func TestFormat(t *testing.T) {
	iss := Issue{
		RuleID:  "IMG001",
		Message: "bad width",
		Path:    "/doc/main.tex",
		Line:    3,
		Col:     5,
		Snippet: `abcd\includegraphics{x}`,
	}
	got := Format(iss, "/doc")
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d: %q", len(lines), got)
	}
	if lines[0] != "main.tex:3:5 [IMG001] bad width" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != `  | abcd\includegraphics{x}` {
		t.Errorf("snippet = %q", lines[1])
	}
	if lines[2] != "  |     ^" {
		t.Errorf("caret = %q", lines[2])
	}
}

func TestFormatNoSnippet(t *testing.T) {
	got := Format(Issue{RuleID: "X", Message: "m", Path: "/d/f.tex", Line: 1, Col: 1}, "/d")
	if strings.Contains(got, "|") {
		t.Errorf("unexpected snippet lines: %q", got)
	}
}
