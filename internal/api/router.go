package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Rule catalog.
	r.Get("/rules", h.ListRules)

	// Lint results.
	r.Get("/issues", h.LatestIssues)
	r.Post("/lint", h.TriggerLint)

	// Run history.
	r.Get("/runs", h.ListRuns)
	r.Get("/runs/{id}/issues", h.RunIssues)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
