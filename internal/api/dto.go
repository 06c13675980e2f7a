package api

import (
	"time"

	"github.com/siberianbearofficial/lint-gost-tex/internal/history"
	"github.com/siberianbearofficial/lint-gost-tex/internal/issue"
	"github.com/siberianbearofficial/lint-gost-tex/internal/runner"
)

// IssueDTO is the wire representation of one lint issue.
type IssueDTO struct {
	RuleID  string `json:"rule_id"`
	Message string `json:"message"`
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Snippet string `json:"snippet,omitempty"`
}

// ResultDTO is the wire representation of a lint run result.
type ResultDTO struct {
	RunID      int64      `json:"run_id,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	DurationMS int64      `json:"duration_ms"`
	FileCount  int        `json:"file_count"`
	IssueCount int        `json:"issue_count"`
	Issues     []IssueDTO `json:"issues"`
}

// RunDTO is the wire representation of one recorded run.
type RunDTO struct {
	ID         int64     `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	FileCount  int       `json:"file_count"`
	IssueCount int       `json:"issue_count"`
}

// RuleDTO describes one configured rule.
type RuleDTO struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

func toIssueDTOs(issues []issue.Issue) []IssueDTO {
	out := make([]IssueDTO, 0, len(issues))
	for _, iss := range issues {
		out = append(out, IssueDTO{
			RuleID:  iss.RuleID,
			Message: iss.Message,
			Path:    iss.Path,
			Line:    iss.Line,
			Col:     iss.Col,
			Snippet: iss.Snippet,
		})
	}
	return out
}

func toResultDTO(result *runner.Result, runID int64) ResultDTO {
	return ResultDTO{
		RunID:      runID,
		StartedAt:  result.StartedAt,
		DurationMS: result.Duration.Milliseconds(),
		FileCount:  result.FileCount,
		IssueCount: len(result.Issues),
		Issues:     toIssueDTOs(result.Issues),
	}
}

func toRunDTOs(runs []history.Run) []RunDTO {
	out := make([]RunDTO, 0, len(runs))
	for _, r := range runs {
		out = append(out, RunDTO{
			ID:         r.ID,
			StartedAt:  r.StartedAt,
			DurationMS: r.Duration.Milliseconds(),
			FileCount:  r.FileCount,
			IssueCount: r.IssueCount,
		})
	}
	return out
}
