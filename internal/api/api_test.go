package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/siberianbearofficial/lint-gost-tex/internal/rules"
	"github.com/siberianbearofficial/lint-gost-tex/internal/runner"
	"github.com/siberianbearofficial/lint-gost-tex/internal/testutil"
)

func testService(t *testing.T) *Service {
	t.Helper()
	dir := testutil.TestTree(t, map[string]string{
		"main.tex": "текст \\textit{курсив}\n",
	})
	r := &runner.Runner{
		Root:    filepath.Join(dir, "main.tex"),
		BaseDir: dir,
		Rules: []rules.Rule{
			rules.TextStyle{Commands: []string{"textit"}},
		},
	}
	return NewService(r, testutil.TestDB(t), nil, nil)
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(testService(t), false, "", nil)
}

func doRequest(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestListRules(t *testing.T) {
	w := doRequest(t, testRouter(t), http.MethodGet, "/rules")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got []RuleDTO
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "TXT001" {
		t.Errorf("rules = %+v", got)
	}
}

func TestLatestIssuesBeforeFirstRun(t *testing.T) {
	w := doRequest(t, testRouter(t), http.MethodGet, "/issues")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestTriggerLintAndLatest(t *testing.T) {
	h := testRouter(t)

	w := doRequest(t, h, http.MethodPost, "/lint")
	if w.Code != http.StatusOK {
		t.Fatalf("lint status = %d: %s", w.Code, w.Body.String())
	}
	var result ResultDTO
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.IssueCount != 1 || len(result.Issues) != 1 {
		t.Fatalf("result = %+v", result)
	}
	if result.Issues[0].RuleID != "TXT001" {
		t.Errorf("issue = %+v", result.Issues[0])
	}
	if result.RunID == 0 {
		t.Error("run was not recorded")
	}

	w = doRequest(t, h, http.MethodGet, "/issues")
	if w.Code != http.StatusOK {
		t.Fatalf("issues status = %d", w.Code)
	}
}

func TestRunHistoryEndpoints(t *testing.T) {
	h := testRouter(t)
	doRequest(t, h, http.MethodPost, "/lint")

	w := doRequest(t, h, http.MethodGet, "/runs")
	if w.Code != http.StatusOK {
		t.Fatalf("runs status = %d", w.Code)
	}
	var runs []RunDTO
	if err := json.Unmarshal(w.Body.Bytes(), &runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].IssueCount != 1 {
		t.Fatalf("runs = %+v", runs)
	}

	w = doRequest(t, h, http.MethodGet, "/runs/1/issues")
	if w.Code != http.StatusOK {
		t.Fatalf("run issues status = %d", w.Code)
	}
	var issues []IssueDTO
	if err := json.Unmarshal(w.Body.Bytes(), &issues); err != nil {
		t.Fatal(err)
	}
	if len(issues) != 1 || issues[0].RuleID != "TXT001" {
		t.Errorf("issues = %+v", issues)
	}

	w = doRequest(t, h, http.MethodGet, "/runs/999/issues")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown run status = %d, want 404", w.Code)
	}

	w = doRequest(t, h, http.MethodGet, "/runs/abc/issues")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}
}

func TestHistoryDisabled(t *testing.T) {
	dir := testutil.TestTree(t, map[string]string{"main.tex": "чисто\n"})
	r := &runner.Runner{Root: filepath.Join(dir, "main.tex"), BaseDir: dir}
	h := NewRouter(NewService(r, nil, nil, nil), false, "", nil)

	w := doRequest(t, h, http.MethodGet, "/runs")
	if w.Code != http.StatusNotFound {
		t.Errorf("runs status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "disabled") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestAuthMiddleware(t *testing.T) {
	h := NewRouter(testService(t), true, "secret", nil)

	w := doRequest(t, h, http.MethodGet, "/rules")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/rules", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status with wrong token = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/rules", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status with token = %d, want 200", rec.Code)
	}
}
