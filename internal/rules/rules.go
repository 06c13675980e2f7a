// Package rules implements the GOST formatting rules evaluated against an
// assembled document. Every rule is an immutable value carrying its own
// configuration; Check may run concurrently with other rules.
package rules

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/siberianbearofficial/lint-gost-tex/internal/document"
	"github.com/siberianbearofficial/lint-gost-tex/internal/issue"
)

// DefaultConfigFile is where configuration-level issues are anchored when no
// explicit config path was given.
const DefaultConfigFile = "config/config.yaml"

// Context carries the shared read-only inputs for a single lint run.
type Context struct {
	Document   *document.Document
	BaseDir    string
	ConfigPath string
}

// Rule is a single formatting check.
type Rule interface {
	ID() string
	Description() string
	Check(ctx *Context) []issue.Issue
}

// fileIssue anchors an issue at a byte offset within a source file.
func fileIssue(f *document.SourceFile, offset int, ruleID, message string) issue.Issue {
	line, col := f.LineCol(offset)
	return issue.Issue{
		RuleID:  ruleID,
		Message: message,
		Path:    f.Path,
		Line:    line,
		Col:     col,
		Snippet: f.LineText(line),
	}
}

// configIssue anchors an issue at the configuration file rather than a
// document position.
func configIssue(ctx *Context, ruleID, message string) issue.Issue {
	path := ctx.ConfigPath
	if path == "" {
		path = filepath.Join(ctx.BaseDir, DefaultConfigFile)
	}
	snippet := ""
	if data, err := os.ReadFile(path); err == nil {
		if i := strings.IndexByte(string(data), '\n'); i >= 0 {
			snippet = string(data[:i])
		} else {
			snippet = string(data)
		}
	}
	return issue.Issue{RuleID: ruleID, Message: message, Path: path, Line: 1, Col: 1, Snippet: snippet}
}

// stringSet turns a list of names into a lookup set.
func stringSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// baseEnvSet strips starred variants, so figure and figure* share an entry.
func baseEnvSet(envs []string) map[string]bool {
	set := make(map[string]bool, len(envs))
	for _, env := range envs {
		set[strings.TrimRight(env, "*")] = true
	}
	return set
}
