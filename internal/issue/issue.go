// Package issue defines the linter's output record, its canonical ordering,
// and terminal formatting.
package issue

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Issue is one reported problem, anchored to a 1-based position in a file.
type Issue struct {
	RuleID  string `json:"rule_id"`
	Message string `json:"message"`
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Snippet string `json:"snippet,omitempty"`
}

// Sort orders issues by document file order, then line, column, and rule id.
// Issues anchored to paths outside the document (configuration issues) sort
// last.
func Sort(issues []Issue, pathIndex map[string]int) {
	order := func(path string) int {
		if i, ok := pathIndex[path]; ok {
			return i
		}
		return len(pathIndex) + 1
	}
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if oa, ob := order(a.Path), order(b.Path); oa != ob {
			return oa < ob
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		return a.RuleID < b.RuleID
	})
}

// Format renders an issue as location, rule id and message, followed by the
// offending line and a caret under the column.
func Format(iss Issue, baseDir string) string {
	path := relPath(iss.Path, baseDir)
	lines := []string{fmt.Sprintf("%s:%d:%d [%s] %s", path, iss.Line, iss.Col, iss.RuleID, iss.Message)}
	if iss.Snippet != "" {
		lines = append(lines, "  | "+iss.Snippet)
		if iss.Col > 0 {
			lines = append(lines, "  | "+strings.Repeat(" ", iss.Col-1)+"^")
		}
	}
	return strings.Join(lines, "\n")
}

func relPath(path, baseDir string) string {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		return path
	}
	return rel
}
