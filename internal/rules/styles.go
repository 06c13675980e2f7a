package rules

import (
	"regexp"
	"strings"

	"github.com/siberianbearofficial/lint-gost-tex/internal/issue"
	"github.com/siberianbearofficial/lint-gost-tex/internal/tex"
)

// TextStyle flags banned text styling commands (underline, italics).
type TextStyle struct {
	Commands []string
}

func (TextStyle) ID() string          { return "TXT001" }
func (TextStyle) Description() string { return "Underline and italics are not allowed." }

func (r TextStyle) Check(ctx *Context) []issue.Issue {
	var issues []issue.Issue
	pattern := stylePattern(r.Commands)
	for _, f := range ctx.Document.Files {
		masked := tex.MaskCommentsAndMath(f.Text)
		for _, loc := range pattern.FindAllStringIndex(masked, -1) {
			issues = append(issues, fileIssue(f, loc[0], r.ID(), "underline/italic command used"))
		}
	}
	return issues
}

// stylePattern matches bare \command occurrences, argument or not.
func stylePattern(commands []string) *regexp.Regexp {
	var escaped []string
	for _, command := range commands {
		if command != "" {
			escaped = append(escaped, regexp.QuoteMeta(command))
		}
	}
	if len(escaped) == 0 {
		return regexp.MustCompile(`a^`)
	}
	return regexp.MustCompile(`\\(?:` + strings.Join(escaped, "|") + `)\b`)
}
