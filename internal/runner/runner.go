// Package runner evaluates a rule set against a document tree.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/siberianbearofficial/lint-gost-tex/internal/document"
	"github.com/siberianbearofficial/lint-gost-tex/internal/issue"
	"github.com/siberianbearofficial/lint-gost-tex/internal/rules"
)

// Result is the outcome of one lint run.
type Result struct {
	Issues    []issue.Issue
	FileCount int
	StartedAt time.Time
	Duration  time.Duration
}

// Runner loads the document rooted at Root and evaluates every rule
// against it. Safe for concurrent use; Latest returns the most recent
// result.
type Runner struct {
	Root       string
	Exclude    []string
	BaseDir    string
	ConfigPath string
	Rules      []rules.Rule

	mu     sync.RWMutex
	latest *Result
}

// Run loads the document and evaluates all rules, each in its own
// goroutine. Issues are returned in document order.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	started := time.Now()

	doc, err := document.Load(r.Root, r.Exclude)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	ruleCtx := &rules.Context{
		Document:   doc,
		BaseDir:    r.BaseDir,
		ConfigPath: r.ConfigPath,
	}

	perRule := make([][]issue.Issue, len(r.Rules))
	g, gCtx := errgroup.WithContext(ctx)
	for i, rule := range r.Rules {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			perRule[i] = rule.Check(ruleCtx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var issues []issue.Issue
	for _, ruleIssues := range perRule {
		issues = append(issues, ruleIssues...)
	}
	issue.Sort(issues, doc.PathIndex())

	result := &Result{
		Issues:    issues,
		FileCount: len(doc.Files),
		StartedAt: started,
		Duration:  time.Since(started),
	}

	r.mu.Lock()
	r.latest = result
	r.mu.Unlock()

	return result, nil
}

// Latest returns the most recent result, or nil if Run has not completed
// yet.
func (r *Runner) Latest() *Result {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}
