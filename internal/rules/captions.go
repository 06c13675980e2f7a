package rules

import (
	"regexp"
	"strings"

	"github.com/siberianbearofficial/lint-gost-tex/internal/issue"
	"github.com/siberianbearofficial/lint-gost-tex/internal/tex"
)

var captionLabelRe = regexp.MustCompile(`\\label\s*\{[^}]*\}`)

// CaptionPunctuation forbids trailing punctuation in caption texts.
type CaptionPunctuation struct {
	Commands       []string
	ForbidTrailing []string
}

func (CaptionPunctuation) ID() string          { return "CAP001" }
func (CaptionPunctuation) Description() string { return "Captions must not end with punctuation." }

func (r CaptionPunctuation) Check(ctx *Context) []issue.Issue {
	var issues []issue.Issue
	forbidden := stringSet(r.ForbidTrailing)
	for _, f := range ctx.Document.Files {
		masked := tex.MaskCommentsAndMath(f.Text)
		for _, command := range r.Commands {
			for _, span := range tex.CommandSpans(masked, command) {
				if !span.HasArg {
					continue
				}
				text := captionText(masked, span)
				if last := lastVisibleChar(text); last != "" && forbidden[last] {
					issues = append(issues, fileIssue(f, span.Start, r.ID(), "caption ends with punctuation"))
				}
			}
		}
	}
	return issues
}

// captionText picks the caption body of a command span. \captionof{type}{text}
// carries the text in a second braced group; when one immediately follows the
// required argument, it wins.
func captionText(masked string, span tex.Span) string {
	i := span.End
	for i < len(masked) && (masked[i] == ' ' || masked[i] == '\t') {
		i++
	}
	if i < len(masked) && masked[i] == '{' {
		if end, ok := tex.MatchingBrace(masked, i); ok {
			return masked[i+1 : end]
		}
	}
	return span.Arg
}

// lastVisibleChar returns the last caption character after removing \label
// commands and trailing braces and spaces.
func lastVisibleChar(text string) string {
	cleaned := strings.TrimRight(captionLabelRe.ReplaceAllString(text, ""), " \t\n\r")
	i := len(cleaned) - 1
	for i >= 0 {
		switch cleaned[i] {
		case '}', '{', ' ':
			i--
		default:
			return cleaned[i : i+1]
		}
	}
	return ""
}
