package rules

import (
	"fmt"
	"testing"

	"github.com/siberianbearofficial/lint-gost-tex/internal/document"
	"github.com/siberianbearofficial/lint-gost-tex/internal/issue"
)

// docCtx builds a single- or multi-file in-memory document context.
func docCtx(texts ...string) *Context {
	d := &document.Document{BaseDir: "/doc"}
	for i, text := range texts {
		d.Files = append(d.Files, document.FromText(fmt.Sprintf("/doc/f%d.tex", i), text))
	}
	return &Context{Document: d, BaseDir: "/doc"}
}

func countByRule(issues []issue.Issue, ruleID string) int {
	n := 0
	for _, iss := range issues {
		if iss.RuleID == ruleID {
			n++
		}
	}
	return n
}

func TestFileIssuePosition(t *testing.T) {
	ctx := docCtx("первая строка\nвторая \\textit{строка}\n")
	rule := TextStyle{Commands: []string{"textit"}}
	issues := rule.Check(ctx)
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(issues))
	}
	iss := issues[0]
	if iss.Line != 2 {
		t.Errorf("line = %d, want 2", iss.Line)
	}
	if iss.Col != len("вторая ")+1 {
		t.Errorf("col = %d, want %d", iss.Col, len("вторая ")+1)
	}
	if iss.Snippet != "вторая \\textit{строка}" {
		t.Errorf("snippet = %q", iss.Snippet)
	}
}
