package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/siberianbearofficial/lint-gost-tex/internal/issue"
	"github.com/siberianbearofficial/lint-gost-tex/internal/tex"
)

// Abbreviation flags banned abbreviations, given as bare words (matched with
// a following dot) or as regular expressions. RE2 has no Unicode-aware \b,
// so both kinds anchor on a leading non-letter; when a pattern contains a
// capture group, the issue is anchored at group 1.
type Abbreviation struct {
	BannedWords    []string
	BannedPatterns []string
	AllowWords     []string
	SkipCommands   []string
	TwoArgCommands []string
}

func (Abbreviation) ID() string          { return "ABBR001" }
func (Abbreviation) Description() string { return "Abbreviations are not allowed." }

func (r Abbreviation) Check(ctx *Context) []issue.Issue {
	var issues []issue.Issue
	allow := make(map[string]bool, len(r.AllowWords))
	for _, word := range r.AllowWords {
		allow[strings.ToLower(word)] = true
	}

	var patterns []*regexp.Regexp
	for _, word := range r.BannedWords {
		normalized := strings.TrimRight(strings.TrimSpace(word), ".")
		if normalized == "" || allow[strings.ToLower(normalized)] {
			continue
		}
		patterns = append(patterns, regexp.MustCompile(`(?i)(?:^|[^\p{L}])(`+regexp.QuoteMeta(normalized)+`\.)`))
	}
	for _, pattern := range r.BannedPatterns {
		compiled, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			continue
		}
		patterns = append(patterns, compiled)
	}

	twoArg := stringSet(r.TwoArgCommands)
	for _, f := range ctx.Document.Files {
		masked := tex.MaskCommentsAndMath(f.Text)
		masked = tex.MaskCommandArguments(masked, r.SkipCommands, twoArg)
		seen := make(map[int]bool)
		for _, pattern := range patterns {
			for _, m := range pattern.FindAllStringSubmatchIndex(masked, -1) {
				start, end := m[0], m[1]
				if len(m) >= 4 && m[2] >= 0 {
					start, end = m[2], m[3]
				}
				if seen[start] {
					continue
				}
				seen[start] = true
				issues = append(issues, fileIssue(f, start, r.ID(),
					fmt.Sprintf("abbreviation '%s' is not allowed", masked[start:end])))
			}
		}
	}
	return issues
}
