package rules

import (
	"fmt"

	"golang.org/x/text/unicode/runenames"

	"github.com/siberianbearofficial/lint-gost-tex/internal/issue"
)

// UnicodeChars flags characters outside the keyboard set: printable ASCII,
// Russian letters, standard whitespace, and a configured allow-list.
type UnicodeChars struct {
	AllowedExtra []string
}

func (UnicodeChars) ID() string          { return "UNIC001" }
func (UnicodeChars) Description() string { return "Non-keyboard characters are not allowed." }

func (r UnicodeChars) Check(ctx *Context) []issue.Issue {
	var issues []issue.Issue
	allowedExtra := make(map[rune]bool)
	for _, extra := range r.AllowedExtra {
		for _, c := range extra {
			allowedExtra[c] = true
		}
	}
	for _, f := range ctx.Document.Files {
		for offset, c := range f.Text {
			if isAllowedChar(c, allowedExtra) {
				continue
			}
			name := runenames.Name(c)
			issues = append(issues, fileIssue(f, offset, r.ID(),
				fmt.Sprintf("non-keyboard character U+%04X (%s)", c, name)))
		}
	}
	return issues
}

func isAllowedChar(c rune, allowedExtra map[rune]bool) bool {
	switch c {
	case '\n', '\r', '\t':
		return true
	}
	if c < 128 {
		return c >= 32 && c <= 126
	}
	if allowedExtra[c] {
		return true
	}
	return isRussianLetter(c)
}

func isRussianLetter(c rune) bool {
	return c == 0x0401 || c == 0x0451 || (c >= 0x0410 && c <= 0x044F)
}
