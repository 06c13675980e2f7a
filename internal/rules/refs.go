package rules

import (
	"github.com/siberianbearofficial/lint-gost-tex/internal/issue"
	"github.com/siberianbearofficial/lint-gost-tex/internal/tex"
)

// RefSpacing requires exactly one non-breaking space (~) immediately before
// every reference command.
type RefSpacing struct {
	Commands []string
}

func (RefSpacing) ID() string          { return "REF001" }
func (RefSpacing) Description() string { return "References must use a single non-breaking space." }

func (r RefSpacing) Check(ctx *Context) []issue.Issue {
	var issues []issue.Issue
	pattern := tex.CommandPattern(r.Commands)
	for _, f := range ctx.Document.Files {
		masked := tex.MaskCommentsAndMath(f.Text)
		for _, loc := range pattern.FindAllStringIndex(masked, -1) {
			index := loc[0]
			if index == 0 || masked[index-1] != '~' {
				issues = append(issues, fileIssue(f, index, r.ID(), "missing '~' before reference"))
				continue
			}
			if index >= 2 && masked[index-2] == '~' {
				issues = append(issues, fileIssue(f, index-1, r.ID(), "use exactly one '~'"))
			}
		}
	}
	return issues
}

// LinkPunctuation flags link commands placed after sentence-ending
// punctuation; references belong inside the sentence.
type LinkPunctuation struct {
	Commands []string
}

func (LinkPunctuation) ID() string { return "REF002" }
func (LinkPunctuation) Description() string {
	return "Links must appear before sentence-ending punctuation."
}

func (r LinkPunctuation) Check(ctx *Context) []issue.Issue {
	var issues []issue.Issue
	pattern := tex.CommandPattern(r.Commands)
	for _, f := range ctx.Document.Files {
		masked := tex.MaskCommentsAndMath(f.Text)
		for _, loc := range pattern.FindAllStringIndex(masked, -1) {
			index := loc[0]
			prev := previousNonSpace(masked, index-1)
			switch skipClosing(masked, prev) {
			case '.', '!', '?':
				issues = append(issues, fileIssue(f, index, r.ID(), "link follows sentence-ending punctuation"))
			}
		}
	}
	return issues
}

func previousNonSpace(text string, index int) int {
	for index >= 0 && isSpaceByte(text[index]) {
		index--
	}
	return index
}

// skipClosing walks backwards over closing brackets and quotes (and any
// whitespace between them) and returns the first other character, or 0 at
// start of text.
func skipClosing(text string, index int) byte {
	for index >= 0 {
		switch text[index] {
		case ')', ']', '}', '"', '\'':
			index--
			for index >= 0 && isSpaceByte(text[index]) {
				index--
			}
		default:
			return text[index]
		}
	}
	return 0
}

func isSpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
