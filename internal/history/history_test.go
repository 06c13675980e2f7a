package history

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/siberianbearofficial/lint-gost-tex/internal/apperr"
	"github.com/siberianbearofficial/lint-gost-tex/internal/issue"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "history-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndReadRun(t *testing.T) {
	db := testDB(t)

	issues := []issue.Issue{
		{RuleID: "IMG001", Message: "bad width", Path: "main.tex", Line: 3, Col: 1},
		{RuleID: "SPELL001", Message: "unknown word 'опечатка'", Path: "body.tex", Line: 7, Col: 5},
	}
	started := time.Now()
	runID, err := db.RecordRun(started, 42*time.Millisecond, 2, issues)
	if err != nil {
		t.Fatal(err)
	}
	if runID == 0 {
		t.Fatal("run id = 0")
	}

	runs, err := db.RecentRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	r := runs[0]
	if r.ID != runID || r.IssueCount != 2 || r.FileCount != 2 {
		t.Errorf("run = %+v", r)
	}
	if r.Duration != 42*time.Millisecond {
		t.Errorf("duration = %v", r.Duration)
	}

	got, err := db.RunIssues(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("issues = %d, want 2", len(got))
	}
	if got[0].RuleID != "IMG001" || got[1].Message != "unknown word 'опечатка'" {
		t.Errorf("issues = %+v", got)
	}
}

func TestRecentRunsNewestFirst(t *testing.T) {
	db := testDB(t)
	first, _ := db.RecordRun(time.Now(), 0, 1, nil)
	second, _ := db.RecordRun(time.Now(), 0, 1, nil)

	runs, err := db.RecentRuns(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != second {
		t.Errorf("runs = %+v, want newest %d (first was %d)", runs, second, first)
	}
}

func TestRunIssuesUnknownRun(t *testing.T) {
	db := testDB(t)
	_, err := db.RunIssues(12345)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRecordRunEmptyIssues(t *testing.T) {
	db := testDB(t)
	runID, err := db.RecordRun(time.Now(), time.Millisecond, 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := db.RunIssues(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("issues = %d, want 0", len(got))
	}
}
