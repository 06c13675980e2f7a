package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/siberianbearofficial/lint-gost-tex/internal/apperr"
)

// Handler serves the lint API endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a Handler backed by the given service.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ListRules handles GET /rules.
func (h *Handler) ListRules(w http.ResponseWriter, _ *http.Request) {
	var rules []RuleDTO
	for _, rule := range h.svc.Runner().Rules {
		rules = append(rules, RuleDTO{ID: rule.ID(), Description: rule.Description()})
	}
	writeJSON(w, http.StatusOK, rules)
}

// LatestIssues handles GET /issues. It returns the result of the most
// recent run, or 404 before the first run completes.
func (h *Handler) LatestIssues(w http.ResponseWriter, _ *http.Request) {
	result := h.svc.Latest()
	if result == nil {
		writeJSON(w, http.StatusNotFound, errorBody("no lint run completed yet"))
		return
	}
	writeJSON(w, http.StatusOK, toResultDTO(result, 0))
}

// TriggerLint handles POST /lint: it runs the rules synchronously and
// returns the fresh result.
func (h *Handler) TriggerLint(w http.ResponseWriter, r *http.Request) {
	result, runID, err := h.svc.Lint(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, toResultDTO(result, runID))
}

// ListRuns handles GET /runs?limit=N.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	store := h.svc.History()
	if store == nil {
		writeJSON(w, http.StatusNotFound, errorBody("run history is disabled"))
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	runs, err := store.RecentRuns(limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, toRunDTOs(runs))
}

// RunIssues handles GET /runs/{id}/issues.
func (h *Handler) RunIssues(w http.ResponseWriter, r *http.Request) {
	store := h.svc.History()
	if store == nil {
		writeJSON(w, http.StatusNotFound, errorBody("run history is disabled"))
		return
	}
	runID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid run id"))
		return
	}
	issues, err := store.RunIssues(runID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("run not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, toIssueDTOs(issues))
}
