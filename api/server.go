/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the browser frontend

ROUTE GROUPS:
  /api/state, /api/balances, /api/summary   Derived views
  /api/people/*                             Participants, settlement
  /api/items/*                              Open session items
  /api/archive, /api/reports/*              Session archive
  /api/scenarios/*                          Demo scenarios
  /api/reset                                Wipe ledger

SECURITY NOTE:
  No authentication middleware. Participants are not users.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.GetState)
		r.Get("/balances", h.GetBalances)
		r.Get("/summary", h.GetSummary)

		r.Route("/people", func(r chi.Router) {
			r.Get("/", h.ListPeople)
			r.Post("/", h.CreatePerson)
			r.Delete("/{id}", h.DeletePerson)
			r.Get("/{id}/balance", h.GetBalance)
			r.Post("/{id}/settle", h.SettlePerson)
			r.Delete("/{id}/history", h.ClearHistory)
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.ListItems)
			r.Post("/", h.CreateItem)
			r.Put("/{id}", h.UpdateItem)
			r.Delete("/{id}", h.DeleteItem)
		})

		r.Post("/archive", h.Archive)
		r.Route("/reports", func(r chi.Router) {
			r.Get("/", h.ListReports)
			r.Delete("/{id}", h.DeleteReport)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})

		r.Post("/reset", h.Reset)
	})

	return r
}
