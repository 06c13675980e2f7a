package rules

import (
	"strings"

	"github.com/siberianbearofficial/lint-gost-tex/internal/issue"
	"github.com/siberianbearofficial/lint-gost-tex/internal/tex"
)

// ImageWidth requires every \includegraphics to carry the configured width
// option.
type ImageWidth struct {
	RequiredWidth string
}

func (ImageWidth) ID() string          { return "IMG001" }
func (ImageWidth) Description() string { return "Images must use a fixed width." }

func (r ImageWidth) Check(ctx *Context) []issue.Issue {
	var issues []issue.Issue
	required := normalizeTex(r.RequiredWidth)
	message := "includegraphics width must be " + required
	for _, f := range ctx.Document.Files {
		masked := tex.MaskCommentsAndMath(f.Text)
		for _, span := range tex.CommandSpans(masked, "includegraphics") {
			if !span.HasOptional {
				issues = append(issues, fileIssue(f, span.Start, r.ID(), message))
				continue
			}
			width, ok := parseOptions(span.Optional)["width"]
			if !ok || normalizeTex(width) != required {
				issues = append(issues, fileIssue(f, span.Start, r.ID(), message))
			}
		}
	}
	return issues
}

// parseOptions splits a key=value option string at top-level commas.
func parseOptions(optional string) map[string]string {
	options := make(map[string]string)
	for _, item := range tex.SplitOptions(optional) {
		key, value, found := strings.Cut(item, "=")
		if !found {
			continue
		}
		options[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return options
}

// normalizeTex strips all whitespace and one level of surrounding braces so
// "0.9\textwidth", "0.9 \textwidth" and "{0.9\textwidth}" compare equal.
func normalizeTex(value string) string {
	normalized := strings.Join(strings.Fields(value), "")
	if strings.HasPrefix(normalized, "{") && strings.HasSuffix(normalized, "}") {
		return normalized[1 : len(normalized)-1]
	}
	return normalized
}
