package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/siberianbearofficial/lint-gost-tex/internal/issue"
	"github.com/siberianbearofficial/lint-gost-tex/internal/tex"
)

var labelRe = regexp.MustCompile(`\\label\s*\{([^}]+)\}`)

// docPos is a position in document reading order.
type docPos struct {
	file   int
	offset int
}

func (p docPos) before(q docPos) bool {
	if p.file != q.file {
		return p.file < q.file
	}
	return p.offset < q.offset
}

// IllustrationOrder requires every tracked figure/table block to be
// referenced by name, with the first reference appearing before the block in
// reading order.
type IllustrationOrder struct {
	Envs        []string
	RefCommands []string
}

func (IllustrationOrder) ID() string { return "ILL001" }
func (IllustrationOrder) Description() string {
	return "Illustrations must appear after their first reference."
}

const illustrationMissingRefID = "ILL002"

func (r IllustrationOrder) Check(ctx *Context) []issue.Issue {
	var issues []issue.Issue
	envs := stringSet(r.Envs)
	refs := collectRefPositions(ctx, r.RefCommands)

	for fileIndex, f := range ctx.Document.Files {
		masked := tex.MaskCommentsAndMath(f.Text)
		for _, block := range tex.CollectEnvBlocks(masked, envs) {
			blockPos := docPos{file: fileIndex, offset: block.Start}
			for _, label := range collectLabels(masked[block.Start:block.End]) {
				refPos, ok := refs[label]
				if !ok {
					issues = append(issues, fileIssue(f, block.Start, illustrationMissingRefID,
						fmt.Sprintf("no reference found for label '%s'", label)))
					continue
				}
				if !refPos.before(blockPos) {
					issues = append(issues, fileIssue(f, block.Start, r.ID(),
						fmt.Sprintf("illustration appears before first reference to '%s'", label)))
				}
			}
		}
	}
	return issues
}

func collectLabels(text string) []string {
	var labels []string
	for _, m := range labelRe.FindAllStringSubmatch(text, -1) {
		if label := strings.TrimSpace(m[1]); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// collectRefPositions maps each referenced label to its earliest reference
// position across the whole document, ties broken by the smaller offset.
func collectRefPositions(ctx *Context, commands []string) map[string]docPos {
	positions := make(map[string]docPos)
	for fileIndex, f := range ctx.Document.Files {
		masked := tex.MaskCommentsAndMath(f.Text)
		for _, command := range commands {
			for _, span := range tex.CommandSpans(masked, command) {
				if !span.HasArg {
					continue
				}
				for _, label := range strings.Split(span.Arg, ",") {
					label = strings.TrimSpace(label)
					if label == "" {
						continue
					}
					pos := docPos{file: fileIndex, offset: span.Start}
					if existing, ok := positions[label]; !ok || pos.before(existing) {
						positions[label] = pos
					}
				}
			}
		}
	}
	return positions
}
