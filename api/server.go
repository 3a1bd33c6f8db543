/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for a planner frontend

ROUTE GROUPS:
  /api/technologies/*   Technology catalog and rankings
  /api/teams/*          Team catalog
  /api/rulesets/*       Stored rulesets
  /api/presets/{game}   Built-in rulesets
  /api/scenarios/*      Demo scenarios
  /                     Endpoint index

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/technologies", func(r chi.Router) {
			r.Get("/", h.ListTechs)
			r.Post("/", h.CreateTech)
			r.Get("/{id}", h.GetTech)
			r.Put("/{id}", h.UpdateTech)
			r.Delete("/{id}", h.DeleteTech)
			r.Get("/{id}/ranking", h.GetRanking)
			r.Get("/{id}/teams/{teamID}", h.GetResearch)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", h.ListTeams)
			r.Post("/", h.CreateTeam)
			r.Get("/{id}", h.GetTeam)
			r.Put("/{id}", h.UpdateTeam)
			r.Delete("/{id}", h.DeleteTeam)
		})

		r.Route("/rulesets", func(r chi.Router) {
			r.Get("/", h.ListRulesets)
			r.Post("/", h.CreateRuleset)
			r.Get("/active", h.GetActiveRuleset)
			r.Get("/{id}", h.GetRuleset)
			r.Post("/{id}/activate", h.ActivateRuleset)
			r.Delete("/{id}", h.DeleteRuleset)
		})

		r.Get("/presets/{game}", h.GetPreset)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Research Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Research Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/technologies">/api/technologies</a> - List technologies</li>
<li><a href="/api/teams">/api/teams</a> - List teams</li>
<li><a href="/api/rulesets/active">/api/rulesets/active</a> - Active ruleset</li>
<li><a href="/api/scenarios">/api/scenarios</a> - List scenarios</li>
</ul>
<p>Rank teams with <code>GET /api/technologies/{id}/ranking?date=1938.1.1&amp;lifetime=true</code>.</p>
</body>
</html>`))
	})

	return r
}
